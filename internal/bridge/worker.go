package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/astrolive/core/internal/alpaca"
	"github.com/astrolive/core/internal/fits"
	"github.com/astrolive/core/internal/infrastructure/mqtt"
	"github.com/astrolive/core/internal/observatory"
)

// warmupWindow is how long after start a file-backed camera republishes
// its current image even without a new file, so that late discovery
// subscribers still receive it.
const warmupWindow = 180 * time.Second

// statefulDevice is any tree device that can snapshot its state.
type statefulDevice interface {
	observatory.Device
	State(ctx context.Context) (map[string]any, error)
}

// worker is one device poll loop. Everything it publishes goes through
// the outbound queue; it holds no shared mutable state beyond its own
// bookkeeping.
type worker struct {
	sysID     string
	kind      observatory.Kind
	component observatory.Component
	interval  time.Duration

	// done is closed when the poll goroutine exits, however it exits.
	done chan struct{}

	// File-backed camera bookkeeping.
	monitorDir string
	lastFile   string
	started    time.Time
}

// run is the poll goroutine body. It ticks immediately, then sleeps
// interval between ticks. A connection-classified failure ends the
// worker after availability OFF has been enqueued; cancellation ends it
// without further publication.
func (b *Bridge) run(ctx context.Context, w *worker) {
	defer close(w.done)
	w.started = time.Now()

	for {
		if err := b.pollOnce(ctx, w); err != nil {
			b.logError("worker stopping", "sys_id", w.sysID, "error", err)
			return
		}
		select {
		case <-ctx.Done():
			b.logInfo("worker cancelled", "sys_id", w.sysID)
			return
		case <-time.After(w.interval):
		}
	}
}

// pollOnce performs one tick. A non-nil return is terminal for the
// worker; per-tick conditions are logged here and swallowed.
func (b *Bridge) pollOnce(ctx context.Context, w *worker) error {
	if _, ok := w.component.(*observatory.CameraFile); ok {
		return b.pollCameraFile(w)
	}
	dev, ok := w.component.(statefulDevice)
	if !ok {
		return fmt.Errorf("bridge: %s (%s) is not pollable", w.sysID, w.kind)
	}
	return b.pollDevice(ctx, w, dev)
}

// pollDevice publishes availability and a state snapshot for one remote
// device, plus the current image for a live camera. Availability goes
// out first so a snapshot that fails midway still leaves the device
// marked reachable until the failure is classified.
func (b *Bridge) pollDevice(ctx context.Context, w *worker, dev statefulDevice) error {
	connected, err := dev.Connected(ctx)
	if err != nil {
		return b.tickError(w, err)
	}
	if !connected {
		b.enqueueAvailability(w, payloadNotAvailable)
		return nil
	}
	b.enqueueAvailability(w, payloadAvailable)

	state, err := dev.State(ctx)
	if err != nil {
		return b.tickError(w, err)
	}

	if cam, ok := dev.(*observatory.Camera); ok && cam.ImageEnabled() && b.renderer != nil {
		if err := b.publishCameraImage(ctx, w, cam); err != nil {
			if alpaca.IsConnectionLoss(err) {
				b.enqueueAvailability(w, payloadNotAvailable)
				return err
			}
			b.logWarn("image publication failed", "sys_id", w.sysID, "error", err)
		}
	}

	b.enqueueState(w, state)
	return nil
}

// publishCameraImage enqueues the camera's current frame when one is
// ready. Render failures are local and logged; protocol errors return
// to the caller for classification.
func (b *Bridge) publishCameraImage(ctx context.Context, w *worker, cam *observatory.Camera) error {
	ready, err := cam.ImageReady(ctx)
	if err != nil {
		return err
	}
	if !ready {
		return nil
	}
	samples, err := cam.ImageArray(ctx)
	if err != nil {
		return err
	}
	encoded, err := b.renderer.Render(samples)
	if err != nil {
		b.logWarn("image render failed", "sys_id", w.sysID, "error", err)
		return nil
	}
	b.outbound.Enqueue(Message{
		Topic:   mqtt.Topics{}.DeviceScreen(w.kind.String(), w.sysID),
		Payload: encoded,
		QoS:     b.qos,
	})
	b.logDebug("image published", "sys_id", w.sysID, "bytes", len(encoded))
	return nil
}

// pollCameraFile publishes the newest image under the monitored
// directory. The frame is republished when a new file appears or while
// the worker is inside its warm-up window. There is no remote device
// here, so no error is terminal: a bad file or empty directory just
// skips the tick.
func (b *Bridge) pollCameraFile(w *worker) error {
	latest, err := fits.Latest(w.monitorDir)
	if err != nil {
		if errors.Is(err, fits.ErrNoFiles) {
			b.logWarn("no image file found", "sys_id", w.sysID, "dir", w.monitorDir)
		} else {
			b.logWarn("image scan failed", "sys_id", w.sysID, "dir", w.monitorDir, "error", err)
		}
		return nil
	}

	fresh := latest != w.lastFile
	if !fresh && time.Since(w.started) >= warmupWindow {
		b.logDebug("image already published", "sys_id", w.sysID, "file", latest)
		return nil
	}
	w.lastFile = latest

	b.logInfo("reading image", "sys_id", w.sysID, "file", latest)
	frame, err := fits.Read(latest)
	if err != nil {
		b.logError("image read failed", "sys_id", w.sysID, "file", latest, "error", err)
		return nil
	}

	b.enqueueAvailability(w, payloadAvailable)
	b.enqueueState(w, fits.StateFields(frame.Header))

	if b.renderer != nil {
		encoded, err := b.renderer.Render(frame.Samples)
		if err != nil {
			b.logWarn("image render failed", "sys_id", w.sysID, "error", err)
			return nil
		}
		b.outbound.Enqueue(Message{
			Topic:   mqtt.Topics{}.DeviceScreen(w.kind.String(), w.sysID),
			Payload: encoded,
			QoS:     b.qos,
		})
		b.logDebug("image published", "sys_id", w.sysID, "bytes", len(encoded))
	}
	return nil
}

// tickError classifies a poll failure. Connection loss enqueues
// availability OFF exactly once and returns the terminal error; any
// other condition is logged and the tick skipped.
func (b *Bridge) tickError(w *worker, err error) error {
	if alpaca.IsConnectionLoss(err) {
		b.enqueueAvailability(w, payloadNotAvailable)
		return err
	}
	b.logWarn("poll tick skipped", "sys_id", w.sysID, "error", err)
	return nil
}

// enqueueAvailability enqueues the device's ON/OFF availability flag.
func (b *Bridge) enqueueAvailability(w *worker, payload string) {
	b.outbound.Enqueue(Message{
		Topic:   mqtt.Topics{}.DeviceAvailability(w.kind.String(), w.sysID),
		Payload: []byte(payload),
		QoS:     b.qos,
	})
}

// enqueueState marshals and enqueues a state snapshot. The snapshot
// rides along on the message so the drain loop can feed the sinks once
// the publication actually reaches the bus.
func (b *Bridge) enqueueState(w *worker, state map[string]any) {
	payload, err := json.Marshal(state)
	if err != nil {
		b.logError("state marshal failed", "sys_id", w.sysID, "error", err)
		return
	}
	b.outbound.Enqueue(Message{
		Topic:     mqtt.Topics{}.DeviceState(w.kind.String(), w.sysID),
		Payload:   payload,
		QoS:       b.qos,
		component: w.sysID,
		kind:      w.kind.String(),
		state:     state,
	})
}
