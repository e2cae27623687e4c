package observatory

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/astrolive/core/internal/alpaca"
)

// Device is the surface shared by every remote-controlled kind. camera_file
// components do not implement it; they have no endpoint to ask.
type Device interface {
	Component

	// Connected reports whether the device hardware is connected.
	Connected(ctx context.Context) (bool, error)

	// Name returns the device's short name.
	Name(ctx context.Context) (string, error)

	// Description returns the device's long description.
	Description(ctx context.Context) (string, error)

	// DriverVersion returns the driver's major.minor version string.
	DriverVersion(ctx context.Context) (string, error)
}

// StateProvider is implemented by kinds that can snapshot themselves into
// the flat state mapping published on the bus.
type StateProvider interface {
	State(ctx context.Context) (map[string]any, error)
}

// device gives the remote kinds their Alpaca plumbing. The endpoint is
// assembled per call: the address resolves through the ancestor chain, the
// device number is local with a zero default.
type device struct {
	*node
}

func (d *device) target() (alpaca.Device, error) {
	address, ok := StringOption(d, "address")
	if !ok || d.connector() == nil {
		return alpaca.Device{}, fmt.Errorf("%w: %s", ErrNotConfigured, d.sysID)
	}
	return alpaca.Device{
		Address: address,
		Kind:    string(d.kind),
		Number:  LocalInt(d, "device_number", 0),
	}, nil
}

func (d *device) getAttr(ctx context.Context, attribute string, params url.Values) (any, error) {
	dev, err := d.target()
	if err != nil {
		return nil, err
	}
	return d.connector().Get(ctx, dev, attribute, params)
}

func (d *device) putAttr(ctx context.Context, attribute string, params url.Values) error {
	dev, err := d.target()
	if err != nil {
		return err
	}
	_, err = d.connector().Put(ctx, dev, attribute, params)
	return err
}

func (d *device) getBool(ctx context.Context, attribute string) (bool, error) {
	v, err := d.getAttr(ctx, attribute, nil)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(d.sysID, attribute, v)
	}
	return b, nil
}

func (d *device) getFloat(ctx context.Context, attribute string) (float64, error) {
	v, err := d.getAttr(ctx, attribute, nil)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, typeError(d.sysID, attribute, v)
	}
	return f, nil
}

func (d *device) getInt(ctx context.Context, attribute string) (int, error) {
	f, err := d.getFloat(ctx, attribute)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func (d *device) getString(ctx context.Context, attribute string) (string, error) {
	v, err := d.getAttr(ctx, attribute, nil)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(d.sysID, attribute, v)
	}
	return s, nil
}

func (d *device) getStrings(ctx context.Context, attribute string) ([]string, error) {
	v, err := d.getAttr(ctx, attribute, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, typeError(d.sysID, attribute, v)
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, typeError(d.sysID, attribute, item)
		}
		out[i] = s
	}
	return out, nil
}

func typeError(sysID, attribute string, v any) error {
	return fmt.Errorf("%w: %s/%s returned %T", ErrUnexpectedValue, sysID, attribute, v)
}

// ===== SHARED DEVICE OPERATIONS =====

// Connected reports whether the device hardware is connected.
func (d *device) Connected(ctx context.Context) (bool, error) {
	return d.getBool(ctx, "connected")
}

// SetConnected connects or disconnects the device hardware.
func (d *device) SetConnected(ctx context.Context, connected bool) error {
	params := url.Values{}
	params.Set("Connected", strconv.FormatBool(connected))
	return d.putAttr(ctx, "connected", params)
}

// Name returns the device's short name.
func (d *device) Name(ctx context.Context) (string, error) {
	return d.getString(ctx, "name")
}

// Description returns the device's long description.
func (d *device) Description(ctx context.Context) (string, error) {
	return d.getString(ctx, "description")
}

// DriverInfo returns the driver's descriptive strings.
func (d *device) DriverInfo(ctx context.Context) ([]string, error) {
	s, err := d.getString(ctx, "driverinfo")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// DriverVersion returns the driver's major.minor version string.
func (d *device) DriverVersion(ctx context.Context) (string, error) {
	return d.getString(ctx, "driverversion")
}

// InterfaceVersion returns the ASCOM interface version the device
// implements.
func (d *device) InterfaceVersion(ctx context.Context) (int, error) {
	return d.getInt(ctx, "interfaceversion")
}

// ===== STATE HELPERS =====

// fetcher batches attribute reads for a state snapshot. The first error
// sticks; later reads are skipped and return zero values.
type fetcher struct {
	d   *device
	ctx context.Context
	err error
}

func (f *fetcher) boolAttr(attribute string) bool {
	if f.err != nil {
		return false
	}
	v, err := f.d.getBool(f.ctx, attribute)
	if err != nil {
		f.err = err
	}
	return v
}

func (f *fetcher) floatAttr(attribute string) float64 {
	if f.err != nil {
		return 0
	}
	v, err := f.d.getFloat(f.ctx, attribute)
	if err != nil {
		f.err = err
	}
	return v
}

func (f *fetcher) intAttr(attribute string) int {
	if f.err != nil {
		return 0
	}
	v, err := f.d.getInt(f.ctx, attribute)
	if err != nil {
		f.err = err
	}
	return v
}

func (f *fetcher) stringsAttr(attribute string) []string {
	if f.err != nil {
		return nil
	}
	v, err := f.d.getStrings(f.ctx, attribute)
	if err != nil {
		f.err = err
	}
	return v
}

// onOff renders booleans the way binary sensors expect them.
func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
