package observatory

import (
	"context"
	"net/url"
	"strconv"
)

// Switch is a multi-port switch device (power distribution, dew heaters,
// USB hubs). Ports are numbered 0 to MaxSwitch-1.
type Switch struct {
	device
}

// MaxSwitch returns the number of ports the device manages.
func (s *Switch) MaxSwitch(ctx context.Context) (int, error) {
	return s.getInt(ctx, "maxswitch")
}

// SetSwitch drives one port on or off.
func (s *Switch) SetSwitch(ctx context.Context, id int, on bool) error {
	params := url.Values{}
	params.Set("Id", strconv.Itoa(id))
	params.Set("State", strconv.FormatBool(on))
	return s.putAttr(ctx, "setswitch", params)
}

// State snapshots every port. A port that cannot be read is skipped, not
// fatal: mixed controllers routinely reject reads on analogue-only ports.
func (s *Switch) State(ctx context.Context) (map[string]any, error) {
	max, err := s.MaxSwitch(ctx)
	if err != nil {
		return nil, err
	}
	state := map[string]any{"max_switch": max}
	for id := 0; id < max; id++ {
		on, err := s.portBool(ctx, "getswitch", id)
		if err != nil {
			continue
		}
		state["switch_"+strconv.Itoa(id)] = onOff(on)
		value, err := s.portFloat(ctx, "getswitchvalue", id)
		if err != nil {
			continue
		}
		state["switch_value_"+strconv.Itoa(id)] = value
	}
	return state, nil
}

func (s *Switch) portBool(ctx context.Context, attribute string, id int) (bool, error) {
	v, err := s.portAttr(ctx, attribute, id)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(s.sysID, attribute, v)
	}
	return b, nil
}

func (s *Switch) portFloat(ctx context.Context, attribute string, id int) (float64, error) {
	v, err := s.portAttr(ctx, attribute, id)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, typeError(s.sysID, attribute, v)
	}
	return f, nil
}

func (s *Switch) portAttr(ctx context.Context, attribute string, id int) (any, error) {
	params := url.Values{}
	params.Set("Id", strconv.Itoa(id))
	return s.getAttr(ctx, attribute, params)
}
