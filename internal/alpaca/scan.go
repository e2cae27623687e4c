package alpaca

import (
	"context"
	"errors"
)

// scanKinds are the device types the protocol can host. Device numbers
// are probed per kind until the server rejects one.
var scanKinds = []string{
	"telescope",
	"camera",
	"focuser",
	"filterwheel",
	"switch",
	"dome",
	"rotator",
	"safetymonitor",
}

// maxDevicesPerKind guards against servers that never reject a probe.
const maxDevicesPerKind = 16

// DeviceInfo describes one device found during a scan.
type DeviceInfo struct {
	Kind             string
	Number           int
	Name             string
	Description      string
	Connected        bool
	DriverInfo       string
	DriverVersion    string
	InterfaceVersion int
}

// Scan enumerates every device the server at address exposes.
//
// Device numbers are probed in order per kind; the first rejection ends
// that kind's enumeration. A transport failure aborts the whole scan and
// returns the devices found so far together with the error.
//
// Used at startup to log what the observatory actually offers before the
// configured tree is built against it.
func (c *Client) Scan(ctx context.Context, address string) ([]DeviceInfo, error) {
	var devices []DeviceInfo

	for _, kind := range scanKinds {
		for number := 0; number < maxDevicesPerKind; number++ {
			info, err := c.probe(ctx, Device{Address: address, Kind: kind, Number: number})
			if err != nil {
				if errors.Is(err, ErrConnectionFailure) || errors.Is(err, context.Canceled) {
					return devices, err
				}
				break
			}
			devices = append(devices, info)
		}
	}

	return devices, nil
}

// probe reads the standard description attributes of one device slot.
func (c *Client) probe(ctx context.Context, dev Device) (DeviceInfo, error) {
	info := DeviceInfo{Kind: dev.Kind, Number: dev.Number}

	name, err := c.Get(ctx, dev, "name", nil)
	if err != nil {
		return info, err
	}
	info.Name, _ = name.(string)

	description, err := c.Get(ctx, dev, "description", nil)
	if err != nil {
		return info, err
	}
	info.Description, _ = description.(string)

	connected, err := c.Get(ctx, dev, "connected", nil)
	if err != nil {
		return info, err
	}
	info.Connected, _ = connected.(bool)

	driverInfo, err := c.Get(ctx, dev, "driverinfo", nil)
	if err != nil {
		return info, err
	}
	info.DriverInfo, _ = driverInfo.(string)

	driverVersion, err := c.Get(ctx, dev, "driverversion", nil)
	if err != nil {
		return info, err
	}
	info.DriverVersion, _ = driverVersion.(string)

	interfaceVersion, err := c.Get(ctx, dev, "interfaceversion", nil)
	if err != nil {
		return info, err
	}
	if v, ok := interfaceVersion.(float64); ok {
		info.InterfaceVersion = int(v)
	}

	return info, nil
}
