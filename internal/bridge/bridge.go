package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/astrolive/core/internal/infrastructure/mqtt"
	"github.com/astrolive/core/internal/observatory"
)

const (
	// commandTimeout bounds the device roundtrips of one inbound command.
	commandTimeout = 5 * time.Second

	// drainInterval paces the outbound queue consumer. One message per
	// interval bounds the publish rate and keeps reconnect checks cheap.
	drainInterval = 100 * time.Millisecond

	defaultReconcileInterval = 30 * time.Second
	defaultStartStagger      = 3 * time.Second
)

// Broker is the bus surface the bridge requires. *mqtt.Client
// satisfies it.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	IsConnected() bool
}

// FrameRenderer converts raw image samples into an encoded raster.
// *image.Pipeline satisfies it.
type FrameRenderer interface {
	Render(samples [][]float64) ([]byte, error)
}

// HistoryStore persists published state snapshots. *history.Store
// satisfies it.
type HistoryStore interface {
	Record(ctx context.Context, component, kind string, state map[string]any) error
	Prune(ctx context.Context) (int64, error)
}

// MetricWriter forwards published snapshots to a time-series backend.
// *influxdb.Client and *tsdb.Client satisfy it.
type MetricWriter interface {
	WriteStateMetrics(component, kind string, state map[string]any)
}

// Logger is the leveled logger the bridge reports through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options configures a Bridge.
type Options struct {
	// Observatory is the built equipment tree. Required.
	Observatory *observatory.Observatory

	// Broker is the connected bus client. Required.
	Broker Broker

	// Renderer encodes camera frames. Nil disables image publication.
	Renderer FrameRenderer

	// History persists published snapshots. Nil disables history.
	History HistoryStore

	// Metrics receive every published snapshot. May be empty.
	Metrics []MetricWriter

	// Logger receives bridge events. Nil silences the bridge.
	Logger Logger

	// QoS applies to state publications and command subscriptions.
	// Discovery announcements always go out at QoS 0, retained.
	QoS byte

	// ReconcileInterval is the supervisor cadence. Defaults to 30s.
	ReconcileInterval time.Duration

	// StartStagger is the pause after each worker start. Defaults to 3s
	// when negative; zero disables staggering.
	StartStagger time.Duration
}

// Bridge connects an equipment tree to the bus: it announces entities
// for discovery, runs one poll worker per connected device, drains
// their publications through a single ordered queue, and routes
// inbound commands back to the devices.
type Bridge struct {
	obs      *observatory.Observatory
	broker   Broker
	renderer FrameRenderer
	history  HistoryStore
	metrics  []MetricWriter
	logger   Logger

	qos       byte
	reconcile time.Duration
	stagger   time.Duration

	outbound *queue

	mu       sync.Mutex
	workers  map[string]*worker
	restarts map[string]int

	ctx       context.Context
	ctxCancel context.CancelFunc
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// New creates a Bridge from the given options.
func New(opts Options) (*Bridge, error) {
	if opts.Observatory == nil {
		return nil, errors.New("bridge: observatory is required")
	}
	if opts.Broker == nil {
		return nil, errors.New("bridge: broker is required")
	}

	reconcile := opts.ReconcileInterval
	if reconcile <= 0 {
		reconcile = defaultReconcileInterval
	}
	stagger := opts.StartStagger
	if stagger < 0 {
		stagger = defaultStartStagger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		obs:       opts.Observatory,
		broker:    opts.Broker,
		renderer:  opts.Renderer,
		history:   opts.History,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		qos:       opts.QoS,
		reconcile: reconcile,
		stagger:   stagger,
		outbound:  &queue{},
		workers:   make(map[string]*worker),
		restarts:  make(map[string]int),
		ctx:       ctx,
		ctxCancel: cancel,
		done:      make(chan struct{}),
	}, nil
}

// Start subscribes to the command topic, runs the first reconcile pass
// and launches the drain and supervisor loops. The context bounds the
// initial pass only; the bridge runs until Stop.
func (b *Bridge) Start(ctx context.Context) error {
	topics := mqtt.Topics{}
	if err := b.broker.Subscribe(topics.Command(), b.qos, b.handleInbound); err != nil {
		return fmt.Errorf("subscribe %s: %w", topics.Command(), err)
	}
	b.logInfo("listening for commands", "topic", topics.Command())

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.drainLoop()
	}()

	b.Reconcile(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.superviseLoop()
	}()

	running, _ := b.Liveness()
	b.logInfo("bridge started",
		"workers", len(running),
		"reconcile_interval", b.reconcile)
	return nil
}

// Stop shuts the bridge down: workers, drain loop and supervisor all
// exit, and Stop returns once they have. Safe to call more than once.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.ctxCancel()
		b.wg.Wait()
		b.logInfo("bridge stopped", "queued", b.outbound.Len())
	})
}

// drainLoop is the queue's single consumer. Messages keep their
// enqueue order on the bus. While the broker is down nothing is
// dequeued, so publications accumulate; a message that fails to
// publish is logged and dropped.
func (b *Bridge) drainLoop() {
	for {
		if b.broker.IsConnected() {
			if msg, ok := b.outbound.Dequeue(); ok {
				if err := b.broker.Publish(msg.Topic, msg.Payload, msg.QoS, msg.Retain); err != nil {
					b.logError("publish failed", "topic", msg.Topic, "error", err)
				} else if msg.state != nil {
					b.recordState(msg.component, msg.kind, msg.state)
				}
			}
		} else {
			b.logDebug("bus disconnected, holding queue", "queued", b.outbound.Len())
		}

		select {
		case <-b.done:
			return
		case <-time.After(drainInterval):
		}
	}
}

// superviseLoop re-runs reconciliation on a fixed cadence, pruning
// dead workers (and aged history rows) each pass.
func (b *Bridge) superviseLoop() {
	ticker := time.NewTicker(b.reconcile)
	defer ticker.Stop()
	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			running, stopped := b.Liveness()
			b.logInfo("worker liveness",
				"running", len(running),
				"stopped", stopped,
				"queued", b.outbound.Len())
			b.Reconcile(b.ctx)
			b.pruneHistory()
		}
	}
}

// recordState feeds one published snapshot to the configured sinks.
// Sink failures are logged and never reach the publish path.
func (b *Bridge) recordState(component, kind string, state map[string]any) {
	if b.history != nil {
		if err := b.history.Record(b.ctx, component, kind, state); err != nil {
			b.logWarn("history record failed", "component", component, "error", err)
		}
	}
	for _, m := range b.metrics {
		m.WriteStateMetrics(component, kind, state)
	}
}

func (b *Bridge) pruneHistory() {
	if b.history == nil {
		return
	}
	pruned, err := b.history.Prune(b.ctx)
	if err != nil {
		b.logWarn("history prune failed", "error", err)
		return
	}
	if pruned > 0 {
		b.logDebug("history pruned", "rows", pruned)
	}
}

// QueueLen reports the number of messages waiting to be published.
func (b *Bridge) QueueLen() int {
	return b.outbound.Len()
}

func (b *Bridge) logDebug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

func (b *Bridge) logInfo(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}

func (b *Bridge) logWarn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

func (b *Bridge) logError(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Error(msg, args...)
	}
}
