package observatory

import (
	"context"
	"fmt"
	"net/url"

	"github.com/astrolive/core/internal/astro"
)

// Telescope is a mount. Right ascension crosses the wire in hours; every
// value this type returns or accepts is in degrees.
type Telescope struct {
	device
}

// RightAscension returns the current right ascension in degrees.
func (t *Telescope) RightAscension(ctx context.Context) (float64, error) {
	hours, err := t.getFloat(ctx, "rightascension")
	if err != nil {
		return 0, err
	}
	return astro.HoursToDegrees(hours), nil
}

// Declination returns the current declination in degrees.
func (t *Telescope) Declination(ctx context.Context) (float64, error) {
	return t.getFloat(ctx, "declination")
}

// Park parks the mount.
func (t *Telescope) Park(ctx context.Context) error {
	return t.putAttr(ctx, "park", nil)
}

// Unpark unparks the mount.
func (t *Telescope) Unpark(ctx context.Context) error {
	return t.putAttr(ctx, "unpark", nil)
}

// SlewToCoordinates slews synchronously to the given equatorial
// coordinates. Strings parse as sexagesimal (RA as an hour angle, Dec as
// degrees); numbers are degrees. Targets outside [0, 360) x [-90, 90]
// are rejected before anything reaches the mount.
func (t *Telescope) SlewToCoordinates(ctx context.Context, ra, dec any) error {
	raDeg, decDeg, err := astro.EquatorialDegrees(ra, dec)
	if err != nil {
		return err
	}
	if raDeg < 0 || raDeg >= 360 || decDeg < -90 || decDeg > 90 {
		return fmt.Errorf("%w: ra=%v dec=%v", ErrInvalidCoordinates, raDeg, decDeg)
	}
	params := url.Values{}
	params.Set("RightAscension", formatFloat(astro.DegreesToHours(raDeg)))
	params.Set("Declination", formatFloat(decDeg))
	return t.putAttr(ctx, "slewtocoordinates", params)
}

// State snapshots the mount's pointing and site fields.
func (t *Telescope) State(ctx context.Context) (map[string]any, error) {
	f := &fetcher{d: &t.device, ctx: ctx}
	rightAscension, err := t.RightAscension(ctx)
	if err != nil {
		return nil, err
	}
	state := map[string]any{
		"at_home":                   onOff(f.boolAttr("athome")),
		"at_park":                   onOff(f.boolAttr("atpark")),
		"altitude":                  round3(f.floatAttr("altitude")),
		"azimuth":                   round3(f.floatAttr("azimuth")),
		"declination":               round3(f.floatAttr("declination")),
		"declination_rate":          round3(f.floatAttr("declinationrate")),
		"guiderate_declination":     round3(f.floatAttr("guideratedeclination")),
		"right_ascension":           round3(rightAscension),
		"right_ascension_rate":      round3(f.floatAttr("rightascensionrate")),
		"guiderate_right_ascension": round3(f.floatAttr("guideraterightascension")),
		"side_of_pier":              f.intAttr("sideofpier"),
		"site_elevation":            round3(f.floatAttr("siteelevation")),
		"site_latitude":             round3(f.floatAttr("sitelatitude")),
		"site_longitude":            round3(f.floatAttr("sitelongitude")),
		"slewing":                   onOff(f.boolAttr("slewing")),
	}
	if f.err != nil {
		return nil, f.err
	}
	return state, nil
}
