package fits

import (
	"math"
	"strings"
	"time"

	"github.com/astrolive/core/internal/astro"
)

// dateObsLayouts covers the DATE-OBS habits of capture programs: an ISO
// timestamp with or without fractional seconds, naive or zoned. Naive
// values are taken as UTC.
var dateObsLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
}

// StateFields maps the header cards of a frame onto the state attributes
// published for a file-backed camera.
//
// Every attribute is always present. String cards default to "n/a" and
// numeric cards to 0 when the capture program did not write them, so a
// frame with a thin header still publishes a complete state. Angles are
// rounded to three decimals except the imaged-object coordinates, which
// keep full precision for plate-solving consumers; OBJCTRA is converted
// from a sexagesimal hour angle to degrees and OBJCTDEC from sexagesimal
// degrees.
//
// Parameters:
//   - header: card map of a decoded Frame
//
// Returns:
//   - map[string]any: flat state attributes keyed by published field name
func StateFields(header map[string]any) map[string]any {
	return map[string]any{
		"image_type":                   headerString(header, "IMAGETYP"),
		"exposure_duration":            round3(headerFloat(header, "EXPOSURE", 0)),
		"time_of_observation":          observationTime(header),
		"x_axis_binning":               math.Round(headerFloat(header, "XBINNING", 0)),
		"y_axis_binning":               math.Round(headerFloat(header, "YBINNING", 0)),
		"gain":                         math.Round(headerFloat(header, "GAIN", 0)),
		"offset":                       round3(headerFloat(header, "OFFSET", 0)),
		"pixel_x_axis_size":            round3(headerFloat(header, "XPIXSZ", 0)),
		"pixel_y_axis_size":            round3(headerFloat(header, "YPIXSZ", 0)),
		"imaging_instrument":           headerString(header, "INSTRUME"),
		"ccd_temperature":              round3(headerFloat(header, "CCD-TEMP", 0)),
		"filter":                       headerString(header, "FILTER"),
		"sensor_readout_mode":          headerString(header, "READOUTM"),
		"sensor_bayer_pattern":         headerString(header, "BAYERPAT"),
		"telescope":                    headerString(header, "TELESCOP"),
		"focal_length":                 round3(headerFloat(header, "FOCALLEN", 0)),
		"ra_of_telescope":              round3(headerFloat(header, "RA", 0)),
		"declination_of_telescope":     round3(headerFloat(header, "DEC", 0)),
		"altitude_of_telescope":        round3(headerFloat(header, "CENTALT", 0)),
		"azimuth_of_telescope":         round3(headerFloat(header, "CENTAZ", 0)),
		"object_of_interest":           headerString(header, "OBJECT"),
		"ra_of_imaged_object":          imagedObjectRA(header),
		"declination_of_imaged_object": imagedObjectDec(header),
		"rotation_of_imaged_object":    round3(headerFloat(header, "OBJCTROT", 0)),
		"software":                     headerString(header, "SWCREATE"),
	}
}

// observationTime formats DATE-OBS as an RFC 3339 UTC timestamp truncated
// to whole seconds. Frames without a parseable card report the time the
// state was built, which for a file monitor is close to the time the frame
// appeared.
func observationTime(header map[string]any) string {
	if s, ok := header["DATE-OBS"].(string); ok {
		for _, layout := range dateObsLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t.UTC().Truncate(time.Second).Format(time.RFC3339)
			}
		}
	}
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// imagedObjectRA converts OBJCTRA to degrees at full precision. The card
// is a sexagesimal hour angle in most capture programs; a bare number is
// taken as decimal hours. Missing or unparseable cards report "n/a".
func imagedObjectRA(header map[string]any) any {
	switch v := header["OBJCTRA"].(type) {
	case string:
		if deg, err := astro.ParseRA(v); err == nil {
			return deg
		}
	case float64:
		return astro.HoursToDegrees(v)
	case int:
		return astro.HoursToDegrees(float64(v))
	}
	return "n/a"
}

// imagedObjectDec converts OBJCTDEC to degrees at full precision. Missing
// or unparseable cards report "n/a".
func imagedObjectDec(header map[string]any) any {
	switch v := header["OBJCTDEC"].(type) {
	case string:
		if deg, err := astro.ParseDec(v); err == nil {
			return deg
		}
	case float64:
		return v
	case int:
		return float64(v)
	}
	return "n/a"
}

// headerString returns the named card trimmed of the padding FITS string
// values carry, or "n/a" when the card is absent or not a string.
func headerString(header map[string]any, key string) string {
	if s, ok := header[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return "n/a"
}

// headerFloat returns the named card as a float64, accepting the integer
// card types FITS readers produce. Absent or non-numeric cards return the
// fallback.
func headerFloat(header map[string]any, key string, fallback float64) float64 {
	switch v := header[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
