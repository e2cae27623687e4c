package bridge

import (
	"testing"

	"github.com/astrolive/core/internal/observatory"
)

// ===== TABLE SHAPE =====

func TestFunctionCounts(t *testing.T) {
	tests := []struct {
		kind observatory.Kind
		want int
	}{
		{observatory.KindTelescope, 15},
		{observatory.KindCamera, 12},
		{observatory.KindCameraFile, 25},
		{observatory.KindFocuser, 2},
		{observatory.KindSwitch, 1},
		{observatory.KindFilterWheel, 3},
		{observatory.KindDome, 5},
		{observatory.KindRotator, 2},
		{observatory.KindSafetyMonitor, 1},
	}
	for _, tt := range tests {
		if got := len(Functions(tt.kind)); got != tt.want {
			t.Errorf("Functions(%s) has %d entries, want %d", tt.kind, got, tt.want)
		}
	}

	if Functions(observatory.KindObservatory) != nil {
		t.Error("Functions(observatory) should be nil, the root is not announced")
	}
}

func TestFunctionsReturnsCopy(t *testing.T) {
	fns := Functions(observatory.KindFocuser)
	fns[0].Name = "mutated"
	fns = append(fns, Function{})

	fresh := Functions(observatory.KindFocuser)
	if len(fresh) != 2 {
		t.Fatalf("Functions(focuser) has %d entries after caller append, want 2", len(fresh))
	}
	if fresh[0].Name != "Position" {
		t.Errorf("Functions(focuser)[0].Name = %q, caller mutation leaked", fresh[0].Name)
	}
}

func TestFunctionDetails(t *testing.T) {
	byName := func(kind observatory.Kind, name string) Function {
		t.Helper()
		for _, fn := range Functions(kind) {
			if fn.Name == name {
				return fn
			}
		}
		t.Fatalf("%s has no function %q", kind, name)
		return Function{}
	}

	rate := byName(observatory.KindTelescope, "Declination rate")
	if rate.Unit != `"/s` {
		t.Errorf("Declination rate unit = %q, want arcseconds per second", rate.Unit)
	}
	if rate.StateClass != stateMeasurement {
		t.Errorf("Declination rate state class = %q, want measurement", rate.StateClass)
	}

	ccd := byName(observatory.KindCamera, "CCD temperature")
	if ccd.Unit != "°C" || ccd.DeviceClass != classTemperature {
		t.Errorf("CCD temperature = unit %q class %q, want °C temperature", ccd.Unit, ccd.DeviceClass)
	}

	obsTime := byName(observatory.KindCameraFile, "Time of observation")
	if obsTime.DeviceClass != classTimestamp {
		t.Errorf("Time of observation device class = %q, want timestamp", obsTime.DeviceClass)
	}
	if obsTime.StateClass != "" {
		t.Errorf("Time of observation state class = %q, want none", obsTime.StateClass)
	}

	home := byName(observatory.KindTelescope, "At home")
	if home.EntityType != entityBinarySensor {
		t.Errorf("At home entity type = %q, want binary_sensor", home.EntityType)
	}
	if home.Icon != iconTelescope {
		t.Errorf("At home icon = %q, want %q", home.Icon, iconTelescope)
	}

	safe := byName(observatory.KindSafetyMonitor, "Is safe")
	if safe.EntityType != entityBinarySensor || safe.Icon != iconSafetyMonitor {
		t.Errorf("Is safe = %q %q, want binary_sensor with monitor icon", safe.EntityType, safe.Icon)
	}
}

// ===== SWITCH PORTS =====

func TestSwitchPortFunctions(t *testing.T) {
	fns := SwitchPortFunctions(3)
	if len(fns) != 2 {
		t.Fatalf("SwitchPortFunctions(3) has %d entries, want 2", len(fns))
	}

	port := fns[0]
	if port.EntityType != entitySwitch || port.Name != "Switch 3" {
		t.Errorf("port entity = %q %q, want switch %q", port.EntityType, port.Name, "Switch 3")
	}
	if port.DeviceClass != classSwitch {
		t.Errorf("port device class = %q, want switch", port.DeviceClass)
	}

	value := fns[1]
	if value.EntityType != entitySensor || value.Name != "Switch Value 3" {
		t.Errorf("value entity = %q %q, want sensor %q", value.EntityType, value.Name, "Switch Value 3")
	}
	if value.DeviceClass != "" {
		t.Errorf("value device class = %q, want none", value.DeviceClass)
	}
}
