package observatory

import (
	"fmt"
	"strings"
)

// Kind identifies a component type in the equipment tree.
type Kind string

// The closed set of component kinds.
const (
	KindObservatory   Kind = "observatory"
	KindTelescope     Kind = "telescope"
	KindCamera        Kind = "camera"
	KindCameraFile    Kind = "camera_file"
	KindFocuser       Kind = "focuser"
	KindFilterWheel   Kind = "filterwheel"
	KindSwitch        Kind = "switch"
	KindDome          Kind = "dome"
	KindRotator       Kind = "rotator"
	KindSafetyMonitor Kind = "safetymonitor"
)

// ParseKind normalises a configured kind string. Legacy spellings for
// file-backed cameras ("file", "camerafile") map to KindCameraFile.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "observatory":
		return KindObservatory, nil
	case "telescope":
		return KindTelescope, nil
	case "camera":
		return KindCamera, nil
	case "camera_file", "camerafile", "file":
		return KindCameraFile, nil
	case "focuser":
		return KindFocuser, nil
	case "filterwheel":
		return KindFilterWheel, nil
	case "switch":
		return KindSwitch, nil
	case "dome":
		return KindDome, nil
	case "rotator":
		return KindRotator, nil
	case "safetymonitor":
		return KindSafetyMonitor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) String() string { return string(k) }

// CameraStates maps Alpaca CameraStates codes to display labels.
var CameraStates = []string{
	"Camera idle",
	"Camera waiting",
	"Camera exposing",
	"Camera reading",
	"Camera download",
	"Camera error",
}

// CameraSensorTypes maps Alpaca SensorType codes to display labels.
var CameraSensorTypes = []string{
	"Monochrome",
	"Colour not requiring Bayer decoding",
	"RGGB Bayer encoding",
	"CMYG Bayer encoding",
	"CMYG2 Bayer encoding",
	"LRGB TRUESENSE Bayer encoding",
}

// CameraStateLabel returns the display label for a camera state code.
// Codes outside the table are rendered numerically rather than dropped.
func CameraStateLabel(code int) string {
	if code >= 0 && code < len(CameraStates) {
		return CameraStates[code]
	}
	return fmt.Sprintf("Camera state %d", code)
}

// SensorTypeLabel returns the display label for a sensor type code.
func SensorTypeLabel(code int) string {
	if code >= 0 && code < len(CameraSensorTypes) {
		return CameraSensorTypes[code]
	}
	return fmt.Sprintf("Sensor type %d", code)
}
