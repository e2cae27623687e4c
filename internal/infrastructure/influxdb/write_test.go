package influxdb

import "testing"

// numericFields decides which state attributes chart; it needs no server.
func TestNumericFields(t *testing.T) {
	state := map[string]any{
		"ccd_temperature":     -10.54321,
		"percent_completed":   100,
		"maxswitch":           int64(3),
		"cooler_on":           "on",
		"at_park":             "off",
		"issafe":              true,
		"athome":              false,
		"camera_state":        "Camera idle",
		"time_of_observation": "2022-02-28T22:30:33Z",
	}

	fields := numericFields(state)

	want := map[string]any{
		"ccd_temperature":   -10.54321,
		"percent_completed": 100,
		"maxswitch":         int64(3),
		"cooler_on":         1.0,
		"at_park":           0.0,
		"issafe":            1.0,
		"athome":            0.0,
	}
	if len(fields) != len(want) {
		t.Fatalf("numericFields() kept %d fields, want %d: %v", len(fields), len(want), fields)
	}
	for key, wantValue := range want {
		got, ok := fields[key]
		if !ok {
			t.Errorf("numericFields() dropped %q", key)
			continue
		}
		if got != wantValue {
			t.Errorf("fields[%q] = %v (%T), want %v (%T)", key, got, got, wantValue, wantValue)
		}
	}
	if _, ok := fields["camera_state"]; ok {
		t.Error("numericFields() kept the camera_state label")
	}
}

func TestNumericFieldsEmpty(t *testing.T) {
	fields := numericFields(map[string]any{
		"current_filter": "Green",
		"image_type":     "LIGHT",
	})
	if len(fields) != 0 {
		t.Errorf("numericFields() = %v, want empty", fields)
	}
}
