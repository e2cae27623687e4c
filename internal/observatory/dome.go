package observatory

import "context"

// Dome is an observatory dome or roll-off roof controller.
type Dome struct {
	device
}

// State snapshots the dome pointing and shutter fields.
func (d *Dome) State(ctx context.Context) (map[string]any, error) {
	f := &fetcher{d: &d.device, ctx: ctx}
	state := map[string]any{
		"altitude":      f.floatAttr("altitude"),
		"athome":        f.boolAttr("athome"),
		"atpark":        f.boolAttr("atpark"),
		"azimuth":       f.floatAttr("azimuth"),
		"shutterstatus": f.intAttr("shutterstatus"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return state, nil
}
