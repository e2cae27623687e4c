// AstroLive Core - Observatory to MQTT bridge
//
// This is the main entry point for the AstroLive Core service. AstroLive
// watches an observatory described in configuration and mirrors it onto an
// MQTT broker:
//   - ASCOM Alpaca devices (telescope, camera, focuser, switch, ...) are
//     polled on a per-component cadence
//   - capture folders are watched for freshly written FITS frames, which are
//     stretched and published as a camera feed
//   - every component announces itself to Home Assistant via MQTT discovery
//     and accepts commands back over the bus
//
// For the topic layout, see internal/infrastructure/mqtt/topics.go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/astrolive/core/migrations"

	"github.com/astrolive/core/internal/bridge"
	"github.com/astrolive/core/internal/history"
	"github.com/astrolive/core/internal/image"
	"github.com/astrolive/core/internal/infrastructure/config"
	"github.com/astrolive/core/internal/infrastructure/database"
	"github.com/astrolive/core/internal/infrastructure/influxdb"
	"github.com/astrolive/core/internal/infrastructure/logging"
	"github.com/astrolive/core/internal/infrastructure/mqtt"
	"github.com/astrolive/core/internal/infrastructure/tsdb"
	"github.com/astrolive/core/internal/observatory"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting AstroLive Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Build the device tree from the observatory section
	obs, err := observatory.Build(cfg.Observatory.TreeOptions())
	if err != nil {
		return fmt.Errorf("building device tree: %w", err)
	}
	var components int
	observatory.Walk(obs, func(observatory.Component) { components++ })
	log.Info("device tree built",
		"name", obs.FriendlyName(),
		"components", components,
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Image pipeline for camera frames
	pipeline := image.NewPipeline(imageConfig(cfg.Images), log)
	log.Info("image pipeline ready",
		"stretch", cfg.Images.Stretch,
		"publish_width", cfg.Images.PublishWidth,
		"publish_height", cfg.Images.PublishHeight,
	)

	// Open the state history database (optional)
	var db *database.DB
	var historyStore *history.Store
	if cfg.History.Enabled {
		db, err = database.Open(database.Config{
			Path:        cfg.History.Path,
			WALMode:     cfg.History.WALMode,
			BusyTimeout: cfg.History.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		defer func() {
			log.Info("closing history database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing history database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		historyStore = history.New(db, cfg.History.RetentionPeriod())
		log.Info("state history enabled",
			"path", cfg.History.Path,
			"retention_days", cfg.History.RetentionDays,
		)
	} else {
		log.Info("state history disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Connect to VictoriaMetrics (optional)
	var tsdbClient *tsdb.Client
	if cfg.TSDB.Enabled {
		tsdbClient, err = tsdb.Connect(ctx, cfg.TSDB)
		if err != nil {
			return fmt.Errorf("connecting to VictoriaMetrics: %w", err)
		}
		defer func() {
			log.Info("closing VictoriaMetrics connection")
			if closeErr := tsdbClient.Close(); closeErr != nil {
				log.Error("error closing VictoriaMetrics", "error", closeErr)
			}
		}()
		tsdbClient.SetOnError(func(err error) {
			log.Error("VictoriaMetrics write error", "error", err)
		})
		log.Info("VictoriaMetrics connected", "url", cfg.TSDB.URL)
	} else {
		log.Info("VictoriaMetrics disabled")
	}

	// Fan state snapshots out to every enabled telemetry sink
	var metrics []bridge.MetricWriter
	if influxClient != nil {
		metrics = append(metrics, influxClient)
	}
	if tsdbClient != nil {
		metrics = append(metrics, tsdbClient)
	}

	// Assemble and start the bridge
	opts := bridge.Options{
		Observatory:       obs,
		Broker:            mqttClient,
		Renderer:          pipeline,
		Metrics:           metrics,
		Logger:            log,
		QoS:               byte(cfg.MQTT.QoS),
		ReconcileInterval: cfg.ReconcileInterval(),
		StartStagger:      cfg.StartStagger(),
	}
	if historyStore != nil {
		// Assigned conditionally: a typed nil store inside the interface
		// would slip past the bridge's nil check.
		opts.History = historyStore
	}

	b, err := bridge.New(opts)
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}
	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("starting bridge: %w", err)
	}
	defer func() {
		log.Info("stopping bridge")
		b.Stop()
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, tsdbClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Bridge (stops workers, flushes nothing further)
	// 2. VictoriaMetrics / InfluxDB (if enabled)
	// 3. History database (if enabled)
	// 4. MQTT

	log.Info("AstroLive Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ASTROLIVE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ASTROLIVE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// imageConfig converts the configuration file's image section into the
// pipeline's parameter struct.
func imageConfig(cfg config.ImagesConfig) image.Config {
	return image.Config{
		Stretch:              cfg.Stretch,
		SampleResolutionBits: cfg.SampleResolutionBits,
		PublishWidth:         cfg.PublishWidth,
		PublishHeight:        cfg.PublishHeight,
		STF: image.STFParams{
			TargetBackground: cfg.STF.TargetBackground,
			ClippingPoint:    cfg.STF.ClippingPoint,
		},
		Curve: image.CurveParams{
			Function:   cfg.Curve.Function,
			Percentile: cfg.Curve.Percentile,
			Value:      cfg.Curve.Value,
		},
	}
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: History database to check (nil when history is disabled)
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (nil when disabled)
//   - tsdbClient: VictoriaMetrics client to check (nil when disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, tsdbClient *tsdb.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if tsdbClient != nil {
		if err := tsdbClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("tsdb: %w", err)
		}
	}

	return nil
}
