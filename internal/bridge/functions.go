package bridge

import (
	"strconv"

	"github.com/astrolive/core/internal/observatory"
)

// Entity types understood by the automation platform.
const (
	entitySensor       = "sensor"
	entityBinarySensor = "binary_sensor"
	entitySwitch       = "switch"
)

// Device classes attached to announced entities. Empty means none.
const (
	classTemperature = "temperature"
	classDuration    = "duration"
	classTimestamp   = "timestamp"
	classDistance    = "distance"
	classSwitch      = "switch"
)

// stateMeasurement marks entities whose value is a current measurement.
const stateMeasurement = "measurement"

// Units of measurement used in the tables.
const (
	unitDegree       = "°"
	unitDegreePerSec = "°/s"
	unitArcsecPerSec = `"/s`
	unitMeter        = "m"
	unitMicrometer   = "µm"
	unitMillimeter   = "mm"
	unitPercent      = "%"
	unitSeconds      = "s"
	unitCelsius      = "°C"
)

// Per-kind entity icons.
const (
	iconTelescope     = "mdi:telescope"
	iconCamera        = "mdi:camera"
	iconFocuser       = "mdi:focus-auto"
	iconSwitch        = "mdi:hubspot"
	iconFilterWheel   = "mdi:image-filter-black-white"
	iconDome          = "mdi:greenhouse"
	iconRotator       = "mdi:rotate-360"
	iconSafetyMonitor = "mdi:seatbelt"
)

// manufacturer identifies announced devices on the automation platform.
const manufacturer = "AstroLive 0.5"

// Availability and binary-state payloads used in announcements.
const (
	payloadAvailable    = "ON"
	payloadNotAvailable = "OFF"
	stateOn             = "on"
	stateOff            = "off"
)

// Function describes one announced entity of a device kind. Name doubles
// as the state payload key after lowercasing and underscoring, which is
// how the value_template in the announcement finds the value.
type Function struct {
	EntityType  string
	Name        string
	Unit        string
	Icon        string
	DeviceClass string
	StateClass  string
}

// functionsByKind lists the announced entities per kind, in announcement
// order. Fields: {EntityType, Name, Unit, Icon, DeviceClass, StateClass}.
var functionsByKind = map[observatory.Kind][]Function{
	observatory.KindTelescope: {
		{entityBinarySensor, "At home", "", iconTelescope, "", ""},
		{entityBinarySensor, "At park", "", iconTelescope, "", ""},
		{entitySensor, "Altitude", unitDegree, iconTelescope, "", stateMeasurement},
		{entitySensor, "Azimuth", unitDegree, iconTelescope, "", stateMeasurement},
		{entitySensor, "Declination", unitDegree, iconTelescope, "", stateMeasurement},
		{entitySensor, "Declination rate", unitArcsecPerSec, iconTelescope, "", stateMeasurement},
		{entitySensor, "Guiderate declination", unitDegreePerSec, iconTelescope, "", stateMeasurement},
		{entitySensor, "Right ascension", unitDegree, iconTelescope, "", stateMeasurement},
		{entitySensor, "Right ascension rate", unitArcsecPerSec, iconTelescope, "", stateMeasurement},
		{entitySensor, "Guiderate right ascension", unitDegreePerSec, iconTelescope, "", stateMeasurement},
		{entitySensor, "Side of pier", "", iconTelescope, "", ""},
		{entitySensor, "Site elevation", unitMeter, iconTelescope, classDistance, stateMeasurement},
		{entitySensor, "Site Latitude", unitDegree, iconTelescope, "", stateMeasurement},
		{entitySensor, "Site Longitude", unitDegree, iconTelescope, "", stateMeasurement},
		{entityBinarySensor, "Slewing", "", iconTelescope, "", ""},
	},
	observatory.KindCamera: {
		{entitySensor, "Camera state", "", iconCamera, "", stateMeasurement},
		{entitySensor, "CCD temperature", unitCelsius, iconCamera, classTemperature, stateMeasurement},
		{entityBinarySensor, "Cooler on", "", iconCamera, "", ""},
		{entitySensor, "Cooler Power", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Image array", "", iconCamera, "", stateMeasurement},
		{entityBinarySensor, "Image ready", "", iconCamera, "", ""},
		{entitySensor, "Last exposure duration", unitSeconds, iconCamera, classDuration, stateMeasurement},
		{entitySensor, "Last exposure start time", "", iconCamera, classTimestamp, stateMeasurement},
		{entitySensor, "Percent completed", unitPercent, iconCamera, "", stateMeasurement},
		{entitySensor, "Readout mode", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Readout modes", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Sensor type", "", iconCamera, "", stateMeasurement},
	},
	observatory.KindCameraFile: {
		{entitySensor, "Image Type", "", iconCamera, "", ""},
		{entitySensor, "Exposure Duration", unitSeconds, iconCamera, classDuration, stateMeasurement},
		{entitySensor, "Time of observation", "", iconCamera, classTimestamp, ""},
		{entitySensor, "X axis binning", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Y axis binning", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Gain", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Offset", "", iconCamera, "", stateMeasurement},
		{entitySensor, "Pixel X axis size", unitMicrometer, iconCamera, "", ""},
		{entitySensor, "Pixel Y axis size", unitMicrometer, iconCamera, "", ""},
		{entitySensor, "Imaging instrument", "", iconCamera, "", ""},
		{entitySensor, "CCD temperature", unitCelsius, iconCamera, classTemperature, stateMeasurement},
		{entitySensor, "Filter", "", iconCamera, "", ""},
		{entitySensor, "Sensor readout mode", "", iconCamera, "", ""},
		{entitySensor, "Sensor Bayer pattern", "", iconCamera, "", ""},
		{entitySensor, "Telescope", "", iconCamera, "", ""},
		{entitySensor, "Focal length", unitMillimeter, iconCamera, classDistance, stateMeasurement},
		{entitySensor, "RA of telescope", unitDegree, iconCamera, "", stateMeasurement},
		{entitySensor, "Declination of telescope", unitDegree, iconCamera, "", stateMeasurement},
		{entitySensor, "Altitude of telescope", unitDegree, iconCamera, "", stateMeasurement},
		{entitySensor, "Azimuth of telescope", unitDegree, iconCamera, "", stateMeasurement},
		{entitySensor, "Object of interest", "", iconCamera, "", ""},
		{entitySensor, "RA of imaged object", "", iconCamera, "", ""},
		{entitySensor, "Declination of imaged object", "", iconCamera, "", ""},
		{entitySensor, "Rotation of imaged object", unitDegree, iconCamera, "", stateMeasurement},
		{entitySensor, "Software", "", iconCamera, "", ""},
	},
	observatory.KindFocuser: {
		{entitySensor, "Position", "", iconFocuser, "", stateMeasurement},
		{entityBinarySensor, "Is moving", "", iconFocuser, "", ""},
	},
	observatory.KindSwitch: {
		{entitySensor, "Max switch", "", iconSwitch, "", stateMeasurement},
	},
	observatory.KindFilterWheel: {
		{entitySensor, "Names", "", iconFilterWheel, "", ""},
		{entitySensor, "Position", "", iconFilterWheel, "", ""},
		{entitySensor, "Current", "", iconFilterWheel, "", ""},
	},
	observatory.KindDome: {
		{entityBinarySensor, "At home", "", iconDome, "", ""},
		{entityBinarySensor, "At park", "", iconDome, "", ""},
		{entitySensor, "Altitude", unitDegree, iconDome, "", stateMeasurement},
		{entitySensor, "Azimuth", unitDegree, iconDome, "", stateMeasurement},
		{entityBinarySensor, "Shutter status", "", iconDome, "", ""},
	},
	observatory.KindRotator: {
		{entitySensor, "Mechanical position", "", iconRotator, "", stateMeasurement},
		{entitySensor, "Position", "", iconRotator, "", stateMeasurement},
	},
	observatory.KindSafetyMonitor: {
		{entityBinarySensor, "Is safe", "", iconSafetyMonitor, "", ""},
	},
}

// Functions returns the announced entity list for a kind. The returned
// slice is a copy, so callers may append per-port entries freely.
func Functions(kind observatory.Kind) []Function {
	fns := functionsByKind[kind]
	if fns == nil {
		return nil
	}
	out := make([]Function, len(fns))
	copy(out, fns)
	return out
}

// SwitchPortFunctions returns the two entities announced for one switch
// port: the writable switch itself and its read-only value sensor. Ports
// are numbered from zero.
func SwitchPortFunctions(port int) []Function {
	n := strconv.Itoa(port)
	return []Function{
		{entitySwitch, "Switch " + n, "", iconSwitch, classSwitch, ""},
		{entitySensor, "Switch Value " + n, "", iconSwitch, "", ""},
	}
}
