package bridge

import (
	"context"
	"sort"
	"time"

	"github.com/astrolive/core/internal/observatory"
)

// defaultPollInterval applies when a component's update_interval option
// is absent.
const defaultPollInterval = 60 * time.Second

// componentInfo is the tolerant status probe of one tree component.
type componentInfo struct {
	name          string
	connected     bool
	description   string
	driverVersion string
	friendly      string
	maxSwitch     int
	interval      time.Duration
	monitorDir    string
}

// probe gathers a component's identity without failing: an unreachable
// device reports connected=false and is revisited on the next reconcile
// pass. File-backed cameras have no remote end and are always reachable.
func (b *Bridge) probe(ctx context.Context, c observatory.Component) componentInfo {
	info := componentInfo{
		friendly: observatory.LocalString(c, "friendly_name", ""),
		interval: time.Duration(observatory.LocalInt(c, "update_interval", int(defaultPollInterval/time.Second))) * time.Second,
	}
	if info.friendly == "" {
		info.friendly = localName(c.SysID())
	}

	if file, ok := c.(*observatory.CameraFile); ok {
		info.connected = true
		info.monitorDir = file.MonitorDir()
		return info
	}

	dev, ok := c.(observatory.Device)
	if !ok {
		return info
	}
	if err := probeDevice(ctx, dev, &info); err != nil {
		b.logDebug("component unreachable", "sys_id", c.SysID(), "error", err)
	}

	if sw, ok := c.(*observatory.Switch); ok && info.connected {
		ports := observatory.LocalInt(c, "max_switch", 0)
		if ports == 0 {
			queried, err := sw.MaxSwitch(ctx)
			if err != nil {
				b.logWarn("max switch query failed", "sys_id", c.SysID(), "error", err)
			} else {
				ports = queried
			}
		}
		info.maxSwitch = ports
	}
	return info
}

// probeDevice fetches the identity attributes in order, stopping at the
// first failure so an unreachable device costs one roundtrip.
func probeDevice(ctx context.Context, dev observatory.Device, info *componentInfo) error {
	name, err := dev.Name(ctx)
	if err != nil {
		return err
	}
	info.name = name

	connected, err := dev.Connected(ctx)
	if err != nil {
		return err
	}
	info.connected = connected

	description, err := dev.Description(ctx)
	if err != nil {
		return err
	}
	info.description = description

	version, err := dev.DriverVersion(ctx)
	if err != nil {
		return err
	}
	info.driverVersion = version
	return nil
}

// localName returns the last segment of a dotted sys_id.
func localName(sysID string) string {
	for i := len(sysID) - 1; i >= 0; i-- {
		if sysID[i] == '.' {
			return sysID[i+1:]
		}
	}
	return sysID
}

// Reconcile walks the equipment tree and brings the worker set in line
// with it: every connected, monitorable, non-root component without a
// live worker gets its entities announced and a fresh poll goroutine.
// This is also how dead workers come back, with their announcement
// re-published. Starts are staggered to avoid hammering device servers
// that host several devices.
func (b *Bridge) Reconcile(ctx context.Context) {
	var pending []*worker

	observatory.Walk(b.obs, func(c observatory.Component) {
		if c.Kind() == observatory.KindObservatory {
			return
		}
		info := b.probe(ctx, c)
		b.logInfo("component status",
			"sys_id", c.SysID(),
			"kind", c.Kind().String(),
			"name", info.name,
			"connected", info.connected,
			"driver_version", info.driverVersion)

		if !info.connected || b.workerAlive(c.SysID()) {
			return
		}

		fns := Functions(c.Kind())
		if fns == nil {
			return
		}
		if c.Kind() == observatory.KindSwitch {
			b.logInfo("enumerating switch ports", "sys_id", c.SysID(), "ports", info.maxSwitch)
			for port := 0; port < info.maxSwitch; port++ {
				fns = append(fns, SwitchPortFunctions(port)...)
			}
		}
		if err := b.announce(c, info.friendly, fns); err != nil {
			b.logError("entity announcement failed", "sys_id", c.SysID(), "error", err)
			return
		}

		pending = append(pending, &worker{
			sysID:      c.SysID(),
			kind:       c.Kind(),
			component:  c,
			interval:   info.interval,
			done:       make(chan struct{}),
			monitorDir: info.monitorDir,
		})
	})

	for _, w := range pending {
		b.startWorker(w)
		select {
		case <-ctx.Done():
			return
		case <-time.After(b.stagger):
		}
	}
}

// startWorker registers the worker and launches its poll goroutine.
// Workers run on the bridge context, not the reconcile caller's, so
// Stop owns their lifetime. The restart counter starts at zero on the
// first creation of a name and increments on every re-creation.
func (b *Bridge) startWorker(w *worker) {
	b.mu.Lock()
	if prev, ok := b.workers[w.sysID]; ok && alive(prev) {
		b.mu.Unlock()
		return
	}
	b.workers[w.sysID] = w
	if n, ok := b.restarts[w.sysID]; ok {
		b.restarts[w.sysID] = n + 1
	} else {
		b.restarts[w.sysID] = 0
	}
	restarts := b.restarts[w.sysID]
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(b.ctx, w)
	}()
	b.logInfo("worker started",
		"sys_id", w.sysID,
		"interval", w.interval,
		"restarts", restarts)
}

// workerAlive reports whether a live worker owns the name.
func (b *Bridge) workerAlive(sysID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.workers[sysID]
	return ok && alive(w)
}

func alive(w *worker) bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Liveness reports the sorted names of running and stopped workers.
// Stopped entries are pruned from the live set as a side effect of
// being observed, so the next Reconcile recreates them.
func (b *Bridge) Liveness() (running, stopped []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, w := range b.workers {
		if alive(w) {
			running = append(running, name)
		} else {
			stopped = append(stopped, name)
			delete(b.workers, name)
		}
	}
	sort.Strings(running)
	sort.Strings(stopped)
	return running, stopped
}

// Restarts returns a copy of the per-worker restart counters. A name's
// first start counts zero.
func (b *Bridge) Restarts() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]int, len(b.restarts))
	for name, n := range b.restarts {
		out[name] = n
	}
	return out
}
