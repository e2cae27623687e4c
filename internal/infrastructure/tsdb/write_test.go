package tsdb

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestFormatLineProtocol verifies tag/field ordering and value formatting.
func TestFormatLineProtocol(t *testing.T) {
	tags := map[string]string{
		"kind":      "dome",
		"component": "obs.dome",
	}
	fields := map[string]any{
		"slewing":  false,
		"azimuth":  123.4,
		"shutter":  "open",
		"slew_cnt": 42,
	}
	ts := time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

	got := formatLineProtocol("component_state", tags, fields, ts)

	// Tags and fields must be sorted for deterministic output.
	want := fmt.Sprintf(
		`component_state,component=obs.dome,kind=dome azimuth=123.4,shutter="open",slew_cnt=42i,slewing=false %d`,
		ts.UnixNano(),
	)
	if got != want {
		t.Errorf("formatLineProtocol() = %q, want %q", got, want)
	}
}

// TestFormatLineProtocol_Escaping verifies special characters are escaped.
func TestFormatLineProtocol_Escaping(t *testing.T) {
	tags := map[string]string{
		"component": "obs scope,main=primary",
	}
	fields := map[string]any{
		"value": 1.0,
	}
	ts := time.Unix(0, 1000)

	got := formatLineProtocol("frame meta", tags, fields, ts)

	want := `frame\ meta,component=obs\ scope\,main\=primary value=1 1000`
	if got != want {
		t.Errorf("formatLineProtocol() = %q, want %q", got, want)
	}
}

// TestFormatFieldValue verifies each supported value type.
func TestFormatFieldValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"float64", 21.5, "21.5"},
		{"float32", float32(2.5), "2.5"},
		{"int", 42, "42i"},
		{"int64", int64(7), "7i"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"string", "tracking", `"tracking"`},
		{"fallback", []int{1}, `"[1]"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatFieldValue(tt.value); got != tt.want {
				t.Errorf("formatFieldValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// TestNumericFields verifies state value extraction for time-series storage.
func TestNumericFields(t *testing.T) {
	state := map[string]any{
		"ccd_temperature": -10.54321,
		"gain":            100,
		"offset":          int64(3),
		"cooler_on":       "on",
		"at_park":         "off",
		"connected":       true,
		"slewing":         false,
		"camera_state":    "idle",
		"timestamp":       "2026-08-20T21:30:00Z",
	}

	fields := numericFields(state)

	if len(fields) != 7 {
		t.Fatalf("numericFields() returned %d fields, want 7: %v", len(fields), fields)
	}
	if fields["ccd_temperature"] != -10.54321 {
		t.Errorf("ccd_temperature = %v, want -10.54321", fields["ccd_temperature"])
	}
	if fields["gain"] != 100 {
		t.Errorf("gain = %v, want 100", fields["gain"])
	}
	if fields["offset"] != int64(3) {
		t.Errorf("offset = %v, want 3", fields["offset"])
	}
	if fields["cooler_on"] != 1.0 {
		t.Errorf("cooler_on = %v, want 1.0", fields["cooler_on"])
	}
	if fields["at_park"] != 0.0 {
		t.Errorf("at_park = %v, want 0.0", fields["at_park"])
	}
	if fields["connected"] != 1.0 {
		t.Errorf("connected = %v, want 1.0", fields["connected"])
	}
	if fields["slewing"] != 0.0 {
		t.Errorf("slewing = %v, want 0.0", fields["slewing"])
	}
	if _, ok := fields["camera_state"]; ok {
		t.Error("camera_state should be dropped, it is not numeric")
	}
	if _, ok := fields["timestamp"]; ok {
		t.Error("timestamp should be dropped, it is not numeric")
	}
}

// TestWriteStateMetrics_PostsLineProtocol verifies the full write path
// against a fake /write endpoint.
func TestWriteStateMetrics_PostsLineProtocol(t *testing.T) {
	var mu sync.Mutex
	var bodies []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/write" {
			t.Fatalf("path = %q, want /write", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server)

	client.WriteStateMetrics("obs.tele.ccd", "camera", map[string]any{
		"ccd_temperature": -10.5,
		"cooler_on":       "on",
	})
	client.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) == 0 {
		t.Fatal("no write request received")
	}
	wantPrefix := "component_state,component=obs.tele.ccd,kind=camera ccd_temperature=-10.5,cooler_on=1 "
	if !strings.HasPrefix(bodies[0], wantPrefix) {
		t.Errorf("write body = %q, want prefix %q", bodies[0], wantPrefix)
	}
}

// TestWriteStateMetrics_SkipsNonNumeric verifies states with no numeric
// content produce no write.
func TestWriteStateMetrics_SkipsNonNumeric(t *testing.T) {
	var mu sync.Mutex
	requests := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server)

	client.WriteStateMetrics("obs.tele.ccd", "camera", map[string]any{
		"camera_state": "idle",
		"image_type":   "LIGHT",
	})
	client.Flush()

	mu.Lock()
	defer mu.Unlock()
	if requests != 0 {
		t.Errorf("got %d write requests, want 0 for all-string state", requests)
	}
}
