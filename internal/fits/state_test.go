package fits

import (
	"math"
	"testing"
	"time"
)

func stateFloat(t *testing.T, state map[string]any, key string) float64 {
	t.Helper()
	v, ok := state[key].(float64)
	if !ok {
		t.Fatalf("state[%q] = %v (%T), want float64", key, state[key], state[key])
	}
	return v
}

func stateString(t *testing.T, state map[string]any, key string) string {
	t.Helper()
	v, ok := state[key].(string)
	if !ok {
		t.Fatalf("state[%q] = %v (%T), want string", key, state[key], state[key])
	}
	return v
}

// ===== STATE FIELDS =====

func TestStateFieldsFullHeader(t *testing.T) {
	header := map[string]any{
		"IMAGETYP": "LIGHT",
		"EXPOSURE": 300.0,
		"DATE-OBS": "2022-02-28T22:30:33.562",
		"XBINNING": 1,
		"YBINNING": 1,
		"GAIN":     26,
		"OFFSET":   0,
		"XPIXSZ":   3.76,
		"YPIXSZ":   3.76,
		"INSTRUME": "QHY268C",
		"CCD-TEMP": -10.0,
		"FILTER":   "L",
		"READOUTM": "PhotoGraphic DSO",
		"BAYERPAT": "RGGB",
		"TELESCOP": "Skywatcher 250PDS",
		"FOCALLEN": 1200.0,
		"RA":       98.1345762698888,
		"DEC":      4.979375,
		"CENTALT":  54.32149,
		"CENTAZ":   123.45678,
		"OBJECT":   "NGC 2244",
		"OBJCTRA":  "06 31 35",
		"OBJCTDEC": "+04 58 40",
		"OBJCTROT": 88.11,
		"SWCREATE": "N.I.N.A. 2.0.0.2044  ",
	}

	state := StateFields(header)
	if len(state) != 25 {
		t.Fatalf("StateFields() returned %d attributes, want 25", len(state))
	}

	strings := map[string]string{
		"image_type":           "LIGHT",
		"time_of_observation":  "2022-02-28T22:30:33Z",
		"imaging_instrument":   "QHY268C",
		"filter":               "L",
		"sensor_readout_mode":  "PhotoGraphic DSO",
		"sensor_bayer_pattern": "RGGB",
		"telescope":            "Skywatcher 250PDS",
		"object_of_interest":   "NGC 2244",
		"software":             "N.I.N.A. 2.0.0.2044",
	}
	for key, want := range strings {
		if got := stateString(t, state, key); got != want {
			t.Errorf("state[%q] = %q, want %q", key, got, want)
		}
	}

	floats := map[string]float64{
		"exposure_duration":         300,
		"x_axis_binning":            1,
		"y_axis_binning":            1,
		"gain":                      26,
		"offset":                    0,
		"pixel_x_axis_size":         3.76,
		"pixel_y_axis_size":         3.76,
		"ccd_temperature":           -10,
		"focal_length":              1200,
		"ra_of_telescope":           98.135,
		"declination_of_telescope":  4.979,
		"altitude_of_telescope":     54.321,
		"azimuth_of_telescope":      123.457,
		"rotation_of_imaged_object": 88.11,
	}
	for key, want := range floats {
		if got := stateFloat(t, state, key); got != want {
			t.Errorf("state[%q] = %v, want %v", key, got, want)
		}
	}

	// The imaged-object coordinates keep full precision.
	wantRA := (6 + 31.0/60 + 35.0/3600) * 15
	if got := stateFloat(t, state, "ra_of_imaged_object"); math.Abs(got-wantRA) > 1e-9 {
		t.Errorf("ra_of_imaged_object = %v, want %v", got, wantRA)
	}
	wantDec := 4 + 58.0/60 + 40.0/3600
	if got := stateFloat(t, state, "declination_of_imaged_object"); math.Abs(got-wantDec) > 1e-9 {
		t.Errorf("declination_of_imaged_object = %v, want %v", got, wantDec)
	}
}

func TestStateFieldsThinHeader(t *testing.T) {
	state := StateFields(map[string]any{})
	if len(state) != 25 {
		t.Fatalf("StateFields() returned %d attributes, want 25", len(state))
	}
	for _, key := range []string{
		"image_type", "imaging_instrument", "filter", "sensor_readout_mode",
		"sensor_bayer_pattern", "telescope", "object_of_interest", "software",
		"ra_of_imaged_object", "declination_of_imaged_object",
	} {
		if got := stateString(t, state, key); got != "n/a" {
			t.Errorf("state[%q] = %q, want %q", key, got, "n/a")
		}
	}
	for _, key := range []string{
		"exposure_duration", "x_axis_binning", "y_axis_binning", "gain",
		"offset", "ccd_temperature", "focal_length", "ra_of_telescope",
	} {
		if got := stateFloat(t, state, key); got != 0 {
			t.Errorf("state[%q] = %v, want 0", key, got)
		}
	}

	// Without DATE-OBS the observation time is the time the state was built.
	obs, err := time.Parse(time.RFC3339, stateString(t, state, "time_of_observation"))
	if err != nil {
		t.Fatalf("time_of_observation did not parse: %v", err)
	}
	if d := time.Since(obs); d < 0 || d > time.Minute {
		t.Errorf("time_of_observation = %v, want close to now", obs)
	}
}

// ===== OBSERVATION TIME =====

func TestObservationTimeVariants(t *testing.T) {
	tests := []struct {
		name    string
		dateObs string
		want    string
	}{
		{"fractional seconds dropped", "2022-02-28T22:30:33.562", "2022-02-28T22:30:33Z"},
		{"whole seconds", "2022-03-01T00:00:00", "2022-03-01T00:00:00Z"},
		{"zoned converts to UTC", "2022-02-28T22:30:33+01:00", "2022-02-28T21:30:33Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := observationTime(map[string]any{"DATE-OBS": tt.dateObs})
			if got != tt.want {
				t.Errorf("observationTime(%q) = %q, want %q", tt.dateObs, got, tt.want)
			}
		})
	}
}

func TestObservationTimeUnparseable(t *testing.T) {
	got := observationTime(map[string]any{"DATE-OBS": "last tuesday"})
	obs, err := time.Parse(time.RFC3339, got)
	if err != nil {
		t.Fatalf("observationTime() = %q, did not parse: %v", got, err)
	}
	if d := time.Since(obs); d < 0 || d > time.Minute {
		t.Errorf("observationTime() = %v, want close to now", obs)
	}
}

// ===== IMAGED OBJECT COORDINATES =====

func TestImagedObjectNumericCards(t *testing.T) {
	state := StateFields(map[string]any{
		"OBJCTRA":  6.5,
		"OBJCTDEC": -5,
	})
	if got := stateFloat(t, state, "ra_of_imaged_object"); got != 97.5 {
		t.Errorf("ra_of_imaged_object = %v, want 97.5", got)
	}
	if got := stateFloat(t, state, "declination_of_imaged_object"); got != -5 {
		t.Errorf("declination_of_imaged_object = %v, want -5", got)
	}
}

func TestImagedObjectMalformedCards(t *testing.T) {
	state := StateFields(map[string]any{
		"OBJCTRA":  "due east",
		"OBJCTDEC": "up a bit",
	})
	if got := stateString(t, state, "ra_of_imaged_object"); got != "n/a" {
		t.Errorf("ra_of_imaged_object = %q, want %q", got, "n/a")
	}
	if got := stateString(t, state, "declination_of_imaged_object"); got != "n/a" {
		t.Errorf("declination_of_imaged_object = %q, want %q", got, "n/a")
	}
}
