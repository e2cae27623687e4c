package bridge

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/astrolive/core/internal/infrastructure/mqtt"
	"github.com/astrolive/core/internal/observatory"
)

// probeComponent resolves sysID in the bridge's tree and probes it.
func probeComponent(t *testing.T, b *Bridge, sysID string) componentInfo {
	t.Helper()
	comp, err := b.obs.ResolveAbsolute(sysID)
	if err != nil {
		t.Fatalf("ResolveAbsolute() error = %v", err)
	}
	return b.probe(context.Background(), comp)
}

// ===== PROBING =====

func TestLocalName(t *testing.T) {
	cases := map[string]string{
		"obs":          "obs",
		"obs.power":    "power",
		"obs.tele.ccd": "ccd",
	}
	for sysID, want := range cases {
		if got := localName(sysID); got != want {
			t.Errorf("localName(%s) = %s, want %s", sysID, got, want)
		}
	}
}

func TestProbeCameraFile(t *testing.T) {
	dir := t.TempDir()
	b := newTestBridge(t, newMockBroker(), cameraFileRig(dir))

	info := probeComponent(t, b, "obs.files")
	if !info.connected {
		t.Error("file-backed camera should always probe connected")
	}
	if info.monitorDir != dir {
		t.Errorf("monitorDir = %s, want %s", info.monitorDir, dir)
	}
	if info.friendly != "Newton" {
		t.Errorf("friendly = %s, want Newton", info.friendly)
	}
	if info.interval != defaultPollInterval {
		t.Errorf("interval = %v, want %v", info.interval, defaultPollInterval)
	}
}

func TestProbeFriendlyNameFallsBackToLocalName(t *testing.T) {
	root := map[string]any{
		"components": map[string]any{
			"files": map[string]any{"kind": "camera_file", "monitor": t.TempDir()},
		},
	}
	b := newTestBridge(t, newMockBroker(), root)

	info := probeComponent(t, b, "obs.files")
	if info.friendly != "files" {
		t.Errorf("friendly = %s, want the sys_id tail", info.friendly)
	}
}

func TestProbeDevice(t *testing.T) {
	values := switchValues()
	values["maxswitch"] = 4
	_, addr := newFakeDriver(t, values)
	b := newTestBridge(t, newMockBroker(), switchRig(addr))

	info := probeComponent(t, b, "obs.power")
	if info.name != "UPBv2" || !info.connected {
		t.Errorf("probe = %q connected=%v, want UPBv2 connected", info.name, info.connected)
	}
	if info.description != "Pegasus power box" {
		t.Errorf("description = %q", info.description)
	}
	if info.driverVersion != "1.9" {
		t.Errorf("driverVersion = %q", info.driverVersion)
	}
	if info.maxSwitch != 4 {
		t.Errorf("maxSwitch = %d, want the driver's 4", info.maxSwitch)
	}
}

func TestProbeMaxSwitchOptionWins(t *testing.T) {
	values := switchValues()
	delete(values, "maxswitch")
	_, addr := newFakeDriver(t, values)
	root := map[string]any{
		"protocol": "alpaca",
		"address":  addr,
		"components": map[string]any{
			"power": map[string]any{"kind": "switch", "max_switch": 2},
		},
	}
	b := newTestBridge(t, newMockBroker(), root)

	info := probeComponent(t, b, "obs.power")
	if info.maxSwitch != 2 {
		t.Errorf("maxSwitch = %d, want the configured 2", info.maxSwitch)
	}
}

func TestProbeUpdateInterval(t *testing.T) {
	_, addr := newFakeDriver(t, switchValues())
	root := map[string]any{
		"protocol": "alpaca",
		"address":  addr,
		"components": map[string]any{
			"power": map[string]any{"kind": "switch", "update_interval": 5},
		},
	}
	b := newTestBridge(t, newMockBroker(), root)

	if info := probeComponent(t, b, "obs.power"); info.interval != 5*time.Second {
		t.Errorf("interval = %v, want 5s", info.interval)
	}
}

func TestProbeUnreachableDevice(t *testing.T) {
	_, addr := newFakeDriver(t, map[string]any{})
	b := newTestBridge(t, newMockBroker(), switchRig(addr))

	info := probeComponent(t, b, "obs.power")
	if info.connected {
		t.Error("device that cannot answer name must probe disconnected")
	}
	if info.name != "" {
		t.Errorf("name = %q, want empty after aborted probe", info.name)
	}
}

// ===== RECONCILE =====

func TestReconcileStartsEligibleWorkers(t *testing.T) {
	_, powerAddr := newFakeDriver(t, switchValues())
	_, teleAddr := newFakeDriver(t, map[string]any{
		"name":          "EQ6-R",
		"connected":     false,
		"description":   "equatorial mount",
		"driverversion": "6.2",
	})
	root := map[string]any{
		"protocol": "alpaca",
		"address":  powerAddr,
		"components": map[string]any{
			"files": map[string]any{
				"kind":          "camera_file",
				"monitor":       t.TempDir(),
				"friendly_name": "Newton",
			},
			"power": map[string]any{"kind": "switch"},
			"tele":  map[string]any{"kind": "telescope", "address": teleAddr},
		},
	}
	broker := newMockBroker()
	b := newTestBridge(t, broker, root)

	b.Reconcile(context.Background())

	running, stopped := b.Liveness()
	if len(running) != 2 || running[0] != "obs.files" || running[1] != "obs.power" {
		t.Fatalf("running = %v, want [obs.files obs.power]", running)
	}
	if len(stopped) != 0 {
		t.Errorf("stopped = %v, want none", stopped)
	}
	restarts := b.Restarts()
	if restarts["obs.files"] != 0 || restarts["obs.power"] != 0 {
		t.Errorf("restarts = %v, want zeroes on first start", restarts)
	}

	// 25 camera_file entities plus its camera config, 1 switch entity
	// plus 2 per port.
	var retained int
	var cameraConfig bool
	for _, m := range drainAll(b) {
		if m.Retain {
			retained++
		}
		if m.Topic == "homeassistant/camera/astrolive/newton/config" {
			cameraConfig = true
		}
		if strings.Contains(m.Topic, "obs_tele") {
			t.Errorf("disconnected telescope announced on %s", m.Topic)
		}
	}
	if retained != 31 {
		t.Errorf("retained announcements = %d, want 31", retained)
	}
	if !cameraConfig {
		t.Error("camera discovery config missing")
	}
	for port := 0; port < 2; port++ {
		topic := (mqtt.Topics{}).SwitchSet("obs.power", port)
		if !broker.hasSubscription(topic) {
			t.Errorf("missing subscription on %s", topic)
		}
	}

	// A second pass over healthy workers re-announces nothing.
	b.Reconcile(context.Background())
	var again int
	for _, m := range drainAll(b) {
		if m.Retain {
			again++
		}
	}
	if again != 0 {
		t.Errorf("second reconcile re-announced %d entities", again)
	}
	if got := b.Restarts(); got["obs.files"] != 0 || got["obs.power"] != 0 {
		t.Errorf("second reconcile bumped restarts: %v", got)
	}
}

func TestLivenessPrunesStopped(t *testing.T) {
	dir := t.TempDir()
	b := newTestBridge(t, newMockBroker(), cameraFileRig(dir))

	comp, err := b.obs.ResolveAbsolute("obs.files")
	if err != nil {
		t.Fatalf("ResolveAbsolute() error = %v", err)
	}
	b.startWorker(&worker{
		sysID:      "obs.files",
		kind:       observatory.KindCameraFile,
		component:  comp,
		interval:   time.Hour,
		done:       make(chan struct{}),
		monitorDir: dir,
	})

	ghostDone := make(chan struct{})
	close(ghostDone)
	b.mu.Lock()
	b.workers["obs.ghost"] = &worker{sysID: "obs.ghost", done: ghostDone}
	b.mu.Unlock()

	running, stopped := b.Liveness()
	if len(running) != 1 || running[0] != "obs.files" {
		t.Errorf("running = %v, want [obs.files]", running)
	}
	if len(stopped) != 1 || stopped[0] != "obs.ghost" {
		t.Errorf("stopped = %v, want [obs.ghost]", stopped)
	}

	if _, stopped = b.Liveness(); len(stopped) != 0 {
		t.Errorf("stopped reported twice: %v", stopped)
	}
}
