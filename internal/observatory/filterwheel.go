package observatory

import (
	"context"
	"net/url"
	"strconv"
)

// FilterWheel is a motorised filter wheel.
type FilterWheel struct {
	device
}

// Names returns the configured filter names, one per slot.
func (w *FilterWheel) Names(ctx context.Context) ([]string, error) {
	return w.getStrings(ctx, "names")
}

// SetPosition rotates the wheel to the given slot.
func (w *FilterWheel) SetPosition(ctx context.Context, position int) error {
	params := url.Values{}
	params.Set("Position", strconv.Itoa(position))
	return w.putAttr(ctx, "position", params)
}

// State snapshots the wheel. A device reporting no filter names yields
// ErrNoFilterNames; publishers treat that as offline rather than as a
// fault. While the wheel is moving the device reports position -1 and the
// current filter is unknown.
func (w *FilterWheel) State(ctx context.Context) (map[string]any, error) {
	names, err := w.Names(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoFilterNames
	}
	position, err := w.getInt(ctx, "position")
	if err != nil {
		return nil, err
	}
	current := "Unknown"
	if position >= 0 && position < len(names) {
		current = names[position]
	}
	return map[string]any{
		"names":    names,
		"position": position,
		"current":  current,
	}, nil
}
