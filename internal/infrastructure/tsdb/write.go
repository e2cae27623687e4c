package tsdb

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WriteStateMetrics records the numeric fields of a component state map.
//
// The state map is the same one published to MQTT. Numeric values are
// written as-is, booleans and the strings "on"/"off" become 1.0/0.0,
// and all other strings are skipped. States with no numeric content
// produce no write.
//
// The write is batched and flushed asynchronously. Errors are delivered
// via the SetOnError callback.
//
// Parameters:
//   - component: Component sys_id (e.g., "obs.tele.ccd")
//   - kind: Component kind (e.g., "camera")
//   - state: State map as published to MQTT
func (c *Client) WriteStateMetrics(component, kind string, state map[string]any) {
	fields := numericFields(state)
	if len(fields) == 0 {
		return
	}

	tags := map[string]string{
		"component": component,
		"kind":      kind,
	}

	c.addLine(formatLineProtocol("component_state", tags, fields, time.Now()))
}

// numericFields extracts the values from a state map that can be stored
// as time-series samples.
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

// boolValue converts a bool to a storable float (1.0 or 0.0).
func boolValue(v bool) float64 {
	if v {
		return 1.0
	}
	return 0.0
}

// WritePoint writes a generic metric point with the current timestamp.
//
// Use this for metrics that don't fit the component-state helper,
// such as bridge counters.
//
// Parameters:
//   - measurement: Metric name (e.g., "worker_restarts")
//   - tags: Tag key-value pairs (indexed, for filtering)
//   - fields: Field key-value pairs (the actual values)
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	c.addLine(formatLineProtocol(measurement, tags, fields, time.Now()))
}

// WritePointWithTime writes a generic metric point with an explicit timestamp.
//
// Use this for backfilling or when the sample time differs from now,
// such as recording a frame against its observation time.
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	c.addLine(formatLineProtocol(measurement, tags, fields, ts))
}

// formatLineProtocol builds an InfluxDB line protocol string.
//
// Format: measurement,tag1=val1,tag2=val2 field1=val1,field2=val2 timestamp
//
// Tags and fields are sorted for deterministic output. Tag values have
// spaces, commas and equals signs escaped per the line protocol spec.
func formatLineProtocol(measurement string, tags map[string]string, fields map[string]any, ts time.Time) string {
	var sb strings.Builder

	sb.WriteString(escapeMeasurement(measurement))

	tagKeys := make([]string, 0, len(tags))
	for k := range tags {
		tagKeys = append(tagKeys, k)
	}
	sort.Strings(tagKeys)
	for _, k := range tagKeys {
		sb.WriteByte(',')
		sb.WriteString(escapeTag(k))
		sb.WriteByte('=')
		sb.WriteString(escapeTag(tags[k]))
	}

	sb.WriteByte(' ')

	fieldKeys := make([]string, 0, len(fields))
	for k := range fields {
		fieldKeys = append(fieldKeys, k)
	}
	sort.Strings(fieldKeys)
	for i, k := range fieldKeys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(escapeTag(k))
		sb.WriteByte('=')
		sb.WriteString(formatFieldValue(fields[k]))
	}

	sb.WriteByte(' ')
	sb.WriteString(fmt.Sprintf("%d", ts.UnixNano()))

	return sb.String()
}

// formatFieldValue formats a field value per line protocol rules.
//
// Floats are bare, integers get an 'i' suffix, booleans are true/false,
// strings are double-quoted.
func formatFieldValue(value any) string {
	switch v := value.(type) {
	case float64:
		return fmt.Sprintf("%g", v)
	case float32:
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%di", v)
	case int64:
		return fmt.Sprintf("%di", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%q", fmt.Sprintf("%v", v))
	}
}

// escapeTag escapes special characters in tag keys and values.
// Line protocol requires escaping spaces, commas and equals signs.
func escapeTag(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, " ", `\ `)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "=", `\=`)
	return s
}

// escapeMeasurement escapes special characters in measurement names.
// Measurements need spaces and commas escaped but not equals signs.
func escapeMeasurement(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, " ", `\ `)
	s = strings.ReplaceAll(s, ",", `\,`)
	return s
}
