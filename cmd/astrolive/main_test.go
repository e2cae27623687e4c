package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/astrolive/core/internal/infrastructure/config"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("ASTROLIVE_CONFIG")
	defer os.Setenv("ASTROLIVE_CONFIG", originalEnv)

	os.Setenv("ASTROLIVE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_EmptyDeviceTree verifies run fails when the observatory section
// describes no components.
func TestRun_EmptyDeviceTree(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
observatory:
  friendly_name: Empty Site

mqtt:
  broker:
    host: "127.0.0.1"
    port: 1883
    client_id: "astrolive-test"
    tls: false
  qos: 0

history:
  enabled: false

influxdb:
  enabled: false

tsdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("ASTROLIVE_CONFIG")
	defer os.Setenv("ASTROLIVE_CONFIG", originalEnv)
	os.Setenv("ASTROLIVE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with no observatory components")
	}
	if !strings.Contains(err.Error(), "observatory.components") {
		t.Errorf("error = %v, want a components validation failure", err)
	}
}

// TestRun_UnreachableBroker verifies run fails when no MQTT broker answers.
// The connect attempt retries until its timeout, so this test takes a few
// seconds.
func TestRun_UnreachableBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping broker timeout test in short mode")
	}

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
observatory:
  friendly_name: Test Observatory
  protocol: alpaca
  address: http://127.0.0.1:11111/api/v1
  components:
    tele:
      kind: telescope

mqtt:
  broker:
    host: "127.0.0.1"
    port: 19999
    client_id: "astrolive-test"
    tls: false
  qos: 0
  reconnect:
    initial_delay: 1
    max_delay: 5

history:
  enabled: false

influxdb:
  enabled: false

tsdb:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("ASTROLIVE_CONFIG")
	defer os.Setenv("ASTROLIVE_CONFIG", originalEnv)
	os.Setenv("ASTROLIVE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail when the broker is unreachable")
	}
	t.Logf("run() returned error (expected): %v", err)
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("ASTROLIVE_CONFIG")
	defer os.Setenv("ASTROLIVE_CONFIG", originalEnv)

	os.Unsetenv("ASTROLIVE_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("ASTROLIVE_CONFIG")
	defer os.Setenv("ASTROLIVE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("ASTROLIVE_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestImageConfig verifies the config file section maps onto the pipeline
// parameters field for field.
func TestImageConfig(t *testing.T) {
	cfg := imageConfig(configImagesFixture())

	if cfg.Stretch != "curve" {
		t.Errorf("Stretch = %q, want curve", cfg.Stretch)
	}
	if cfg.SampleResolutionBits != 14 {
		t.Errorf("SampleResolutionBits = %d, want 14", cfg.SampleResolutionBits)
	}
	if cfg.PublishWidth != 1280 || cfg.PublishHeight != 720 {
		t.Errorf("publish bounds = %dx%d, want 1280x720", cfg.PublishWidth, cfg.PublishHeight)
	}
	if cfg.STF.TargetBackground != 0.2 || cfg.STF.ClippingPoint != -1.5 {
		t.Errorf("STF = %+v", cfg.STF)
	}
	if cfg.Curve.Function != "sqrt" {
		t.Errorf("Curve.Function = %q, want sqrt", cfg.Curve.Function)
	}
	if len(cfg.Curve.Percentile) != 2 || cfg.Curve.Percentile[1] != 99 {
		t.Errorf("Curve.Percentile = %v", cfg.Curve.Percentile)
	}
}

func configImagesFixture() config.ImagesConfig {
	return config.ImagesConfig{
		Stretch:              "curve",
		SampleResolutionBits: 14,
		PublishWidth:         1280,
		PublishHeight:        720,
		STF: config.STFConfig{
			TargetBackground: 0.2,
			ClippingPoint:    -1.5,
		},
		Curve: config.CurveConfig{
			Function:   "sqrt",
			Percentile: []float64{5, 99},
		},
	}
}
