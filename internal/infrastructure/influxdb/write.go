package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStateMetrics records the numeric attributes of one published state
// as a single point.
//
// The point lands in the component_state measurement, tagged with the
// component system identifier and its kind. Every numeric attribute
// becomes a field; "on"/"off" strings and raw booleans are recorded as
// 1/0 so park state and moving flags chart alongside temperatures and
// positions. Other strings (labels, timestamps, filter names) are
// skipped. A state with no numeric attributes writes nothing.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - component: component system identifier, e.g. "obs.tele.ccd"
//   - kind: component kind, e.g. "camera"
//   - state: the attribute map as published
func (c *Client) WriteStateMetrics(component, kind string, state map[string]any) {
	if !c.IsConnected() {
		return
	}

	fields := numericFields(state)
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"component_state",
		map[string]string{
			"component": component,
			"kind":      kind,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// numericFields filters a state map down to chartable values.
func numericFields(state map[string]any) map[string]any {
	fields := make(map[string]any, len(state))
	for key, value := range state {
		switch v := value.(type) {
		case float64:
			fields[key] = v
		case float32:
			fields[key] = float64(v)
		case int:
			fields[key] = v
		case int64:
			fields[key] = v
		case bool:
			fields[key] = boolValue(v)
		case string:
			switch v {
			case "on":
				fields[key] = 1.0
			case "off":
				fields[key] = 0.0
			}
		}
	}
	return fields
}

func boolValue(v bool) float64 {
	if v {
		return 1.0
	}
	return 0.0
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the state helper, such as
// supervisor counters.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("worker_restarts",
//	    map[string]string{"component": "obs.tele.ccd"},
//	    map[string]any{"count": 3})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now", such as backfilling a frame's
// observation time.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
