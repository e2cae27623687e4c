// Package config handles loading and validating AstroLive Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The observatory section is deliberately loose: beyond friendly_name it is
// an opaque nested mapping describing the device tree, passed through to
// observatory.Build without interpretation here. Everything else (MQTT,
// images, history, influxdb, poll, logging) is strictly typed.
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/astrolive.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
package config
