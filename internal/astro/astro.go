// Package astro converts between the coordinate representations used by
// imaging software and the decimal degrees the rest of the service works in.
//
// FITS headers and slew commands carry angles in two habits: right ascension
// as a sexagesimal hour angle ("05 34 31.94") and declination as sexagesimal
// degrees ("+22 00 52.2"). Numeric values are taken to be decimal degrees
// already and pass through unchanged. All parsing is locale-independent and
// allocation-free beyond the field split.
package astro

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAngle is returned when an angle string cannot be parsed.
var ErrMalformedAngle = errors.New("astro: malformed angle")

// HoursToDegrees converts an hour angle to degrees (1h = 15 deg).
func HoursToDegrees(hours float64) float64 {
	return hours * 15
}

// DegreesToHours converts degrees to an hour angle (15 deg = 1h).
func DegreesToHours(degrees float64) float64 {
	return degrees / 15
}

// ParseRA parses a right ascension given as a sexagesimal hour angle and
// returns decimal degrees.
//
// Accepted forms include "05 34 31.94", "05:34:31.94", "5h34m31.94s" and a
// plain decimal hour count. Minutes and seconds must be below 60.
//
// Parameters:
//   - s: hour-angle string
//
// Returns:
//   - float64: right ascension in degrees
//   - error: ErrMalformedAngle (wrapped) if the string cannot be parsed
func ParseRA(s string) (float64, error) {
	hours, err := parseSexagesimal(s)
	if err != nil {
		return 0, err
	}
	return HoursToDegrees(hours), nil
}

// ParseDec parses a declination given as sexagesimal degrees and returns
// decimal degrees. A leading sign applies to all terms, so "-05 30 00"
// is -5.5 degrees, not -4.5.
//
// Parameters:
//   - s: degree string such as "+22 00 52.2" or "-05:30:00"
//
// Returns:
//   - float64: declination in degrees
//   - error: ErrMalformedAngle (wrapped) if the string cannot be parsed
func ParseDec(s string) (float64, error) {
	return parseSexagesimal(s)
}

// EquatorialDegrees coerces a right ascension / declination pair to decimal
// degrees. Strings are parsed (RA as an hour angle, Dec as degrees); numeric
// values are assumed to be degrees already and pass through.
//
// Parameters:
//   - ra: right ascension as string, float or integer
//   - dec: declination as string, float or integer
//
// Returns:
//   - float64: right ascension in degrees
//   - float64: declination in degrees
//   - error: ErrMalformedAngle (wrapped) on unparseable or unsupported input
func EquatorialDegrees(ra, dec any) (float64, float64, error) {
	raDeg, err := coerce(ra, ParseRA)
	if err != nil {
		return 0, 0, fmt.Errorf("right ascension: %w", err)
	}
	decDeg, err := coerce(dec, ParseDec)
	if err != nil {
		return 0, 0, fmt.Errorf("declination: %w", err)
	}
	return raDeg, decDeg, nil
}

// HorizontalDegrees coerces an azimuth / altitude pair to decimal degrees.
// Both axes parse as plain degrees; numeric values pass through.
func HorizontalDegrees(az, alt any) (float64, float64, error) {
	azDeg, err := coerce(az, ParseDec)
	if err != nil {
		return 0, 0, fmt.Errorf("azimuth: %w", err)
	}
	altDeg, err := coerce(alt, ParseDec)
	if err != nil {
		return 0, 0, fmt.Errorf("altitude: %w", err)
	}
	return azDeg, altDeg, nil
}

// coerce applies parse to strings and passes numeric types through.
func coerce(v any, parse func(string) (float64, error)) (float64, error) {
	switch t := v.(type) {
	case string:
		return parse(t)
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrMalformedAngle, v)
	}
}

// parseSexagesimal parses up to three whole/minute/second terms separated by
// whitespace, colons or unit letters. The leading sign applies to the whole
// value. The result is in the unit of the first term.
func parseSexagesimal(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty string", ErrMalformedAngle)
	}

	negative := false
	switch trimmed[0] {
	case '+':
		trimmed = trimmed[1:]
	case '-':
		negative = true
		trimmed = trimmed[1:]
	}

	fields := strings.FieldsFunc(trimmed, isSeparator)
	if len(fields) == 0 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAngle, s)
	}

	value := 0.0
	scale := 1.0
	for i, field := range fields {
		term, err := strconv.ParseFloat(field, 64)
		if err != nil || term < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedAngle, s)
		}
		// minutes and seconds live in [0, 60)
		if i > 0 && term >= 60 {
			return 0, fmt.Errorf("%w: term %q out of range in %q", ErrMalformedAngle, field, s)
		}
		value += term / scale
		scale *= 60
	}

	if negative {
		value = -value
	}
	return value, nil
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', ':', 'h', 'H', 'm', 'M', 's', 'S', 'd', 'D', '°', '\'', '"':
		return true
	}
	return false
}
