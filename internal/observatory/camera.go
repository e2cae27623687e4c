package observatory

import (
	"context"
)

// Camera is a live imaging camera reached over the wire.
type Camera struct {
	device
}

// ImageEnabled reports whether this component is configured to read and
// publish image frames (local "image" option).
func (c *Camera) ImageEnabled() bool {
	return LocalBool(c, "image", false)
}

// ImageReady reports whether an exposure is ready for download.
func (c *Camera) ImageReady(ctx context.Context) (bool, error) {
	return c.getBool(ctx, "imageready")
}

// ImageArray downloads the last exposure as raw sample rows. Colour
// (rank 3) arrays are not supported by the publishing pipeline and are
// rejected.
func (c *Camera) ImageArray(ctx context.Context) ([][]float64, error) {
	v, err := c.getAttr(ctx, "imagearray", nil)
	if err != nil {
		return nil, err
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, typeError(c.sysID, "imagearray", v)
	}
	out := make([][]float64, len(rows))
	for i, rawRow := range rows {
		row, ok := rawRow.([]any)
		if !ok {
			return nil, typeError(c.sysID, "imagearray", rawRow)
		}
		out[i] = make([]float64, len(row))
		for j, cell := range row {
			sample, ok := cell.(float64)
			if !ok {
				return nil, typeError(c.sysID, "imagearray", cell)
			}
			out[i][j] = sample
		}
	}
	return out, nil
}

// State snapshots the camera. Cooler fields appear only when the device
// can report cooler power; exposure bookkeeping appears only when image
// publishing is enabled for this component, and is dropped silently when
// the device cannot answer yet (no exposure taken).
func (c *Camera) State(ctx context.Context) (map[string]any, error) {
	f := &fetcher{d: &c.device, ctx: ctx}
	modes := f.stringsAttr("readoutmodes")
	state := map[string]any{
		"camera_state":    CameraStateLabel(f.intAttr("camerastate")),
		"ccd_temperature": f.floatAttr("ccdtemperature"),
		"image_ready":     onOff(f.boolAttr("imageready")),
		"readout_mode":    readoutLabel(modes, f.intAttr("readoutmode")),
		"sensor_type":     SensorTypeLabel(f.intAttr("sensortype")),
	}
	if f.err != nil {
		return nil, f.err
	}

	canCooler, err := c.getBool(ctx, "cangetcoolerpower")
	if err != nil {
		return nil, err
	}
	if canCooler {
		coolerOn, err := c.getBool(ctx, "cooleron")
		if err != nil {
			return nil, err
		}
		coolerPower, err := c.getFloat(ctx, "coolerpower")
		if err != nil {
			return nil, err
		}
		state["cooler_on"] = coolerOn
		state["cooler_power"] = coolerPower
	}

	if c.ImageEnabled() {
		if v, err := c.getFloat(ctx, "lastexposureduration"); err == nil {
			state["last_exposure_duration"] = v
		}
		if v, err := c.getString(ctx, "lastexposurestarttime"); err == nil {
			state["last_exposure_start_time"] = v
		}
		if v, err := c.getInt(ctx, "percentcompleted"); err == nil {
			state["percent_completed"] = v
		}
	}
	return state, nil
}

// readoutLabel resolves the active readout mode to its display name.
func readoutLabel(modes []string, index int) string {
	if index >= 0 && index < len(modes) {
		return modes[index]
	}
	return "Unknown"
}
