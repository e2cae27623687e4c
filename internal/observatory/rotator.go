package observatory

import "context"

// Rotator is a camera rotator.
type Rotator struct {
	device
}

// State snapshots the rotator's mechanical and sky positions.
func (r *Rotator) State(ctx context.Context) (map[string]any, error) {
	f := &fetcher{d: &r.device, ctx: ctx}
	state := map[string]any{
		"mechanicalposition": f.floatAttr("mechanicalposition"),
		"position":           f.floatAttr("position"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return state, nil
}
