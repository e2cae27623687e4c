// Package mqtt provides MQTT client connectivity for AstroLive.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// AstroLive uses MQTT to push observatory state towards Home Assistant
// and to receive commands back. The broker decouples the bridge from
// however many dashboards and automations consume the data.
//
//	Alpaca devices ↔ AstroLive bridge ↔ MQTT Broker ↔ Home Assistant
//
// # Topic Layout
//
//   - astrolive/<kind>/<id>/state: JSON state snapshots
//   - astrolive/<kind>/<id>/lwt: per-device availability (ON/OFF)
//   - astrolive/camera*/<id>/screen: PNG previews
//   - astrolive/<kind>/<id>/cmd, astrolive/command: inbound commands
//   - astrolive/lwt: bridge-level availability (broker LWT)
//   - homeassistant/...: retained discovery configs
//
// # Security Considerations
//
//   - TLS is available for remote brokers (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Listen for shared command messages
//	err = client.Subscribe(mqtt.Topics{}.Command(), 0,
//	    func(topic string, payload []byte) error {
//	        return dispatch(payload)
//	    })
//
//	// Publish a state snapshot
//	topic := mqtt.Topics{}.DeviceState("telescope", "obs.mount")
//	client.Publish(topic, stateJSON, 0, false)
package mqtt
