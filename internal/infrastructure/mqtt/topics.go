package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the AstroLive bus contract.
//
// Device topics use the flat scheme: astrolive/{kind}/{sys_id}/{suffix}
// where {sys_id} is the dotted tree identifier with dots replaced by
// underscores. Entity announcements go to the automation platform's
// discovery prefix.
const (
	// TopicPrefix is the base for all AstroLive topics.
	TopicPrefix = "astrolive"

	// TopicPrefixDiscovery is the base for entity announcement topics.
	TopicPrefixDiscovery = "homeassistant"
)

// Topics provides builders for AstroLive MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("telescope", "obs.telescope")
//	// Returns: "astrolive/telescope/obs_telescope/state"
type Topics struct{}

// TopicID converts a dotted sys_id into its topic segment form.
//
// Example: "obs.telescope.camera" -> "obs_telescope_camera"
func TopicID(sysID string) string {
	return strings.ReplaceAll(sysID, ".", "_")
}

// =============================================================================
// Device Topics
// =============================================================================

// DeviceState returns the topic carrying a device's JSON state snapshot.
//
// Example: astrolive/telescope/obs_telescope/state
func (Topics) DeviceState(kind, sysID string) string {
	return fmt.Sprintf("%s/%s/%s/state", TopicPrefix, kind, TopicID(sysID))
}

// DeviceAvailability returns the availability (LWT) topic for a device.
// Payload is the literal "ON" or "OFF".
//
// Example: astrolive/camera/obs_telescope_camera/lwt
func (Topics) DeviceAvailability(kind, sysID string) string {
	return fmt.Sprintf("%s/%s/%s/lwt", TopicPrefix, kind, TopicID(sysID))
}

// DeviceScreen returns the topic carrying a camera's encoded image bytes.
//
// Example: astrolive/camera/obs_telescope_camera/screen
func (Topics) DeviceScreen(kind, sysID string) string {
	return fmt.Sprintf("%s/%s/%s/screen", TopicPrefix, kind, TopicID(sysID))
}

// DeviceCommand returns the per-device command topic.
//
// Example: astrolive/focuser/obs_telescope_focuser/cmd
func (Topics) DeviceCommand(kind, sysID string) string {
	return fmt.Sprintf("%s/%s/%s/cmd", TopicPrefix, kind, TopicID(sysID))
}

// SwitchSet returns the writable set-topic for one switch port entity.
// The automation platform publishes bare "on"/"off" payloads here.
//
// Example: astrolive/switch/obs_telescope_switch/set_switch_3
func (Topics) SwitchSet(sysID string, port int) string {
	return fmt.Sprintf("%s/switch/%s/set_switch_%d", TopicPrefix, TopicID(sysID), port)
}

// =============================================================================
// Shared Topics
// =============================================================================

// Command returns the shared structured-command topic for all components.
//
// Example: astrolive/command
func (Topics) Command() string {
	return fmt.Sprintf("%s/command", TopicPrefix)
}

// BridgeAvailability returns the bridge process's own LWT topic.
// Payload is the literal "ON" or "OFF".
//
// Example: astrolive/lwt
func (Topics) BridgeAvailability() string {
	return fmt.Sprintf("%s/lwt", TopicPrefix)
}

// =============================================================================
// Discovery Topics
// =============================================================================

// DiscoveryConfig returns the entity announcement topic for one entity.
// entityType is the platform entity class (sensor, binary_sensor, switch);
// objectID is "<friendly>_<function>" in lower snake case.
//
// Example: homeassistant/sensor/astrolive/main_camera_ccd_temperature/config
func (Topics) DiscoveryConfig(entityType, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", TopicPrefixDiscovery, entityType, TopicPrefix, objectID)
}

// DiscoveryCamera returns the announcement topic for an MQTT camera entity.
//
// Example: homeassistant/camera/astrolive/main_camera/config
func (Topics) DiscoveryCamera(objectID string) string {
	return fmt.Sprintf("%s/camera/%s/%s/config", TopicPrefixDiscovery, TopicPrefix, objectID)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllSwitchSets returns a pattern matching every switch set-topic.
//
// Pattern: astrolive/switch/+/+
func (Topics) AllSwitchSets() string {
	return fmt.Sprintf("%s/switch/+/+", TopicPrefix)
}

// AllDeviceStates returns a pattern matching every device state topic.
//
// Pattern: astrolive/+/+/state
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/+/+/state", TopicPrefix)
}

// AllTopics returns a pattern matching all AstroLive topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: astrolive/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
