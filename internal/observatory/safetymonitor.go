package observatory

import "context"

// SafetyMonitor reports whether conditions are safe for imaging.
type SafetyMonitor struct {
	device
}

// State snapshots the safety flag.
func (s *SafetyMonitor) State(ctx context.Context) (map[string]any, error) {
	safe, err := s.getBool(ctx, "issafe")
	if err != nil {
		return nil, err
	}
	return map[string]any{"issafe": safe}, nil
}
