package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for AstroLive Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Observatory ObservatoryConfig `yaml:"observatory"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Images      ImagesConfig      `yaml:"images"`
	History     HistoryConfig     `yaml:"history"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	TSDB        TSDBConfig        `yaml:"tsdb"`
	Poll        PollConfig        `yaml:"poll"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ObservatoryConfig is the device tree description. Everything below the
// top-level keys is an opaque nested mapping handed to observatory.Build:
// each entry of Components describes one child (its local name is the map
// key), and may itself carry a nested "components" mapping.
type ObservatoryConfig struct {
	FriendlyName string                    `yaml:"friendly_name"`
	Options      map[string]any            `yaml:",inline"`
	Components   map[string]map[string]any `yaml:"components"`
}

// TreeOptions flattens the observatory section back into the single nested
// mapping consumed by the device tree builder.
func (o ObservatoryConfig) TreeOptions() map[string]any {
	opts := make(map[string]any, len(o.Options)+2)
	for k, v := range o.Options {
		opts[k] = v
	}
	if o.FriendlyName != "" {
		opts["friendly_name"] = o.FriendlyName
	}
	if len(o.Components) > 0 {
		components := make(map[string]any, len(o.Components))
		for name, child := range o.Components {
			components[name] = child
		}
		opts["components"] = components
	}
	return opts
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// ImagesConfig controls the camera image pipeline.
type ImagesConfig struct {
	// Stretch selects the stretch algorithm: "stf" or "curve".
	Stretch              string      `yaml:"stretch"`
	SampleResolutionBits int         `yaml:"sample_resolution_bits"`
	PublishWidth         int         `yaml:"publish_width"`
	PublishHeight        int         `yaml:"publish_height"`
	STF                  STFConfig   `yaml:"stf"`
	Curve                CurveConfig `yaml:"curve"`
}

// STFConfig contains the auto-stretch parameters.
type STFConfig struct {
	TargetBackground float64 `yaml:"target_background"`
	ClippingPoint    float64 `yaml:"clipping_point"`
}

// CurveConfig contains the alternative curve-stretch parameters.
type CurveConfig struct {
	// Function is one of asinh, sinh, sqrt, log, linear.
	Function string `yaml:"function"`
	// Percentile is an optional [low, high] percentile interval.
	Percentile []float64 `yaml:"percentile"`
	// Value is an optional fixed [min, max] sample interval.
	Value []float64 `yaml:"value"`
}

// HistoryConfig contains the state snapshot history settings.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Path          string `yaml:"path"`
	WALMode       bool   `yaml:"wal_mode"`
	BusyTimeout   int    `yaml:"busy_timeout"`
	RetentionDays int    `yaml:"retention_days"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// TSDBConfig contains VictoriaMetrics connection settings, an alternative
// to InfluxDB for deployments already running a Prometheus stack.
type TSDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// PollConfig contains the supervisor cadence settings.
type PollConfig struct {
	// ReconcileInterval is the seconds between discovery/reconcile passes.
	ReconcileInterval int `yaml:"reconcile_interval"`
	// StartStagger is the seconds between starting successive device workers.
	StartStagger int `yaml:"start_stagger"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Output    string `yaml:"output"`
	AddSource bool   `yaml:"add_source"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ASTROLIVE_SECTION_KEY
// For example: ASTROLIVE_MQTT_HOST, ASTROLIVE_INFLUXDB_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Observatory: ObservatoryConfig{
			FriendlyName: "Observatory",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "astrolive",
			},
			QoS: 0,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Images: ImagesConfig{
			Stretch:              "stf",
			SampleResolutionBits: 16,
			PublishWidth:         1920,
			PublishHeight:        1080,
			STF: STFConfig{
				TargetBackground: 0.25,
				ClippingPoint:    -2.8,
			},
			Curve: CurveConfig{
				Function:   "asinh",
				Percentile: []float64{15, 95},
			},
		},
		History: HistoryConfig{
			Enabled:       false,
			Path:          "./data/astrolive.db",
			WALMode:       true,
			BusyTimeout:   5,
			RetentionDays: 30,
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			BatchSize:     100,
			FlushInterval: 10,
		},
		TSDB: TSDBConfig{
			Enabled:       false,
			BatchSize:     1000,
			FlushInterval: 1,
		},
		Poll: PollConfig{
			ReconcileInterval: 30,
			StartStagger:      3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ASTROLIVE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Logging
	if v := os.Getenv("ASTROLIVE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// MQTT
	if v := os.Getenv("ASTROLIVE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("ASTROLIVE_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("ASTROLIVE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("ASTROLIVE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// History
	if v := os.Getenv("ASTROLIVE_HISTORY_PATH"); v != "" {
		cfg.History.Path = v
	}

	// InfluxDB
	if v := os.Getenv("ASTROLIVE_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("ASTROLIVE_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// VictoriaMetrics
	if v := os.Getenv("ASTROLIVE_TSDB_URL"); v != "" {
		cfg.TSDB.URL = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Observatory validation
	if len(c.Observatory.Components) == 0 {
		errs = append(errs, "observatory.components must describe at least one device")
	}

	// Images validation
	switch c.Images.Stretch {
	case "stf", "curve":
	default:
		errs = append(errs, "images.stretch must be \"stf\" or \"curve\"")
	}
	if c.Images.SampleResolutionBits < 1 || c.Images.SampleResolutionBits > 32 {
		errs = append(errs, "images.sample_resolution_bits must be between 1 and 32")
	}
	if c.Images.PublishWidth < 1 || c.Images.PublishHeight < 1 {
		errs = append(errs, "images.publish_width and images.publish_height must be positive")
	}
	switch c.Images.Curve.Function {
	case "asinh", "sinh", "sqrt", "log", "linear":
	default:
		errs = append(errs, "images.curve.function must be one of asinh, sinh, sqrt, log, linear")
	}
	if p := c.Images.Curve.Percentile; len(p) != 0 && len(p) != 2 {
		errs = append(errs, "images.curve.percentile must be a [low, high] pair")
	}
	if v := c.Images.Curve.Value; len(v) != 0 && len(v) != 2 {
		errs = append(errs, "images.curve.value must be a [min, max] pair")
	}

	// History validation
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path is required when history is enabled")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb is enabled (set ASTROLIVE_INFLUXDB_TOKEN)")
		}
	}

	// VictoriaMetrics validation
	if c.TSDB.Enabled && c.TSDB.URL == "" {
		errs = append(errs, "tsdb.url is required when tsdb is enabled")
	}

	// Poll validation
	if c.Poll.ReconcileInterval < 1 {
		errs = append(errs, "poll.reconcile_interval must be at least 1 second")
	}
	if c.Poll.StartStagger < 0 {
		errs = append(errs, "poll.start_stagger must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ReconcileInterval returns the supervisor reconcile cadence as a Duration.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.Poll.ReconcileInterval) * time.Second
}

// StartStagger returns the worker start stagger as a Duration.
func (c *Config) StartStagger() time.Duration {
	return time.Duration(c.Poll.StartStagger) * time.Second
}

// RetentionPeriod returns the history retention as a Duration.
func (c *HistoryConfig) RetentionPeriod() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
