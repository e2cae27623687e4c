package observatory

import (
	"context"
	"net/url"
	"strconv"
)

// Focuser is a motorised focuser.
type Focuser struct {
	device
}

// Move drives the focuser to a position (absolute or relative, depending
// on the device's Absolute property).
func (f *Focuser) Move(ctx context.Context, position int) error {
	params := url.Values{}
	params.Set("Position", strconv.Itoa(position))
	return f.putAttr(ctx, "move", params)
}

// State snapshots the focuser position and motion flag.
func (f *Focuser) State(ctx context.Context) (map[string]any, error) {
	fet := &fetcher{d: &f.device, ctx: ctx}
	state := map[string]any{
		"position":  fet.intAttr("position"),
		"is_moving": onOff(fet.boolAttr("ismoving")),
	}
	if fet.err != nil {
		return nil, fet.err
	}
	return state, nil
}
