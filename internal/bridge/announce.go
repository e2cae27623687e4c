package bridge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/astrolive/core/internal/infrastructure/mqtt"
	"github.com/astrolive/core/internal/observatory"
)

// entityConfig is the announcement payload for one entity. StateClass
// and DeviceClass render as JSON null when absent, which the automation
// platform accepts as "none".
type entityConfig struct {
	Name                string     `json:"name"`
	StateTopic          string     `json:"state_topic"`
	StateClass          *string    `json:"state_class"`
	DeviceClass         *string    `json:"device_class"`
	Icon                string     `json:"icon"`
	AvailabilityTopic   string     `json:"availability_topic"`
	PayloadAvailable    string     `json:"payload_available"`
	PayloadNotAvailable string     `json:"payload_not_available"`
	PayloadOn           string     `json:"payload_on"`
	PayloadOff          string     `json:"payload_off"`
	UniqueID            string     `json:"unique_id"`
	ValueTemplate       string     `json:"value_template"`
	Device              deviceInfo `json:"device"`
	UnitOfMeasurement   string     `json:"unit_of_measurement,omitempty"`
	CommandTopic        string     `json:"command_topic,omitempty"`
}

// cameraConfig announces an MQTT camera entity fed by the screen topic.
type cameraConfig struct {
	Name                string     `json:"name"`
	Topic               string     `json:"topic"`
	AvailabilityTopic   string     `json:"availability_topic"`
	PayloadAvailable    string     `json:"payload_available"`
	PayloadNotAvailable string     `json:"payload_not_available"`
	UniqueID            string     `json:"unique_id"`
	Device              deviceInfo `json:"device"`
}

// deviceInfo groups announced entities under one device on the platform.
type deviceInfo struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
}

// objectKey lowercases a display name into its payload/object key form.
//
// Example: "CCD temperature" -> "ccd_temperature"
func objectKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// entitySetTopic returns the writable set-topic for an entity key. For
// switch ports this matches Topics.SwitchSet.
//
// Example: astrolive/switch/obs_switch/set_switch_3
func entitySetTopic(kind, sysID, key string) string {
	return fmt.Sprintf("%s/%s/%s/set_%s", mqtt.TopicPrefix, kind, mqtt.TopicID(sysID), key)
}

// announce publishes retained entity configurations for one device and
// subscribes to the set-topic of every writable entity. Announcements
// enter the outbound queue here, ahead of the device's first state
// publication from its worker.
func (b *Bridge) announce(c observatory.Component, friendly string, fns []Function) error {
	kind := c.Kind().String()
	sysID := c.SysID()
	topics := mqtt.Topics{}

	stateTopic := topics.DeviceState(kind, sysID)
	availabilityTopic := topics.DeviceAvailability(kind, sysID)
	friendlyKey := objectKey(friendly)
	dev := deviceInfo{
		Identifiers:  []string{sysID},
		Name:         "AstroLive " + friendly,
		Model:        friendly,
		Manufacturer: manufacturer,
	}

	for _, fn := range fns {
		key := objectKey(fn.Name)
		cfg := entityConfig{
			Name:                fn.Name,
			StateTopic:          stateTopic,
			StateClass:          nullable(fn.StateClass),
			DeviceClass:         nullable(fn.DeviceClass),
			Icon:                fn.Icon,
			AvailabilityTopic:   availabilityTopic,
			PayloadAvailable:    payloadAvailable,
			PayloadNotAvailable: payloadNotAvailable,
			PayloadOn:           stateOn,
			PayloadOff:          stateOff,
			UniqueID:            kind + "_" + mqtt.TopicID(sysID) + "_" + key,
			ValueTemplate:       "{{ value_json." + key + " }}",
			Device:              dev,
			UnitOfMeasurement:   fn.Unit,
		}

		if fn.DeviceClass == classSwitch {
			set := entitySetTopic(kind, sysID, key)
			cfg.CommandTopic = set
			if err := b.broker.Subscribe(set, b.qos, b.handleInbound); err != nil {
				return fmt.Errorf("subscribe %s: %w", set, err)
			}
			b.logDebug("subscribed to set topic", "topic", set)
		}

		payload, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal entity config %s: %w", fn.Name, err)
		}
		b.outbound.Enqueue(Message{
			Topic:   topics.DiscoveryConfig(fn.EntityType, friendlyKey+"_"+key),
			Payload: payload,
			Retain:  true,
		})
	}

	if k := c.Kind(); k == observatory.KindCamera || k == observatory.KindCameraFile {
		cfg := cameraConfig{
			Name:                friendly,
			Topic:               topics.DeviceScreen(kind, sysID),
			AvailabilityTopic:   availabilityTopic,
			PayloadAvailable:    payloadAvailable,
			PayloadNotAvailable: payloadNotAvailable,
			UniqueID:            kind + "_" + friendlyKey + "_" + mqtt.TopicID(sysID),
			Device:              dev,
		}
		payload, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal camera config: %w", err)
		}
		b.outbound.Enqueue(Message{
			Topic:   topics.DiscoveryCamera(friendlyKey),
			Payload: payload,
			Retain:  true,
		})
	}

	b.logDebug("announced entities", "sys_id", sysID, "kind", kind, "count", len(fns))
	return nil
}

// nullable maps the empty string to a JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
