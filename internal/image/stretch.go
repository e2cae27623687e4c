package image

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Stretch algorithm identifiers, as they appear in configuration.
const (
	AlgorithmSTF   = "stf"
	AlgorithmCurve = "curve"
)

// Curve function names accepted by CurveStretch.
const (
	CurveAsinh  = "asinh"
	CurveSinh   = "sinh"
	CurveSqrt   = "sqrt"
	CurveLog    = "log"
	CurveLinear = "linear"
)

// Softening factors for the named curves.
const (
	asinhSoftening = 0.1
	sinhSoftening  = 1.0 / 3
	logExponent    = 1000.0
)

// madnScale relates the median absolute deviation to the standard
// deviation of a normal distribution.
const madnScale = 1.4826

// Domain-specific errors for the image pipeline.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEmptyImage is returned when a frame has no sample rows.
	ErrEmptyImage = errors.New("image: empty sample array")

	// ErrUnknownCurve is returned for a curve function name outside
	// asinh, sinh, sqrt, log, linear.
	ErrUnknownCurve = errors.New("image: unknown curve function")
)

// Config holds the pipeline parameters.
type Config struct {
	// Stretch selects the algorithm: AlgorithmSTF or AlgorithmCurve.
	Stretch string

	// SampleResolutionBits is the camera's sample depth.
	SampleResolutionBits int

	// PublishWidth and PublishHeight bound the published frame.
	PublishWidth  int
	PublishHeight int

	STF   STFParams
	Curve CurveParams
}

// STFParams tunes AutoStretch.
type STFParams struct {
	// TargetBackground is the level the sky background is mapped to.
	TargetBackground float64

	// ClippingPoint is the shadows clipping point in MADN units,
	// measured from the median (negative: below it).
	ClippingPoint float64
}

// CurveParams tunes CurveStretch.
type CurveParams struct {
	// Function is one of the Curve* names.
	Function string

	// Percentile is an optional [low, high] percentile interval.
	Percentile []float64

	// Value is an optional fixed [min, max] sample interval, consulted
	// only when Percentile is unset.
	Value []float64
}

// DefaultConfig returns the parameters the service ships with: 16-bit
// samples, 1920x1080 publish bounds, auto stretch with a 0.25 background.
func DefaultConfig() Config {
	return Config{
		Stretch:              AlgorithmSTF,
		SampleResolutionBits: 16,
		PublishWidth:         1920,
		PublishHeight:        1080,
		STF: STFParams{
			TargetBackground: 0.25,
			ClippingPoint:    -2.8,
		},
		Curve: CurveParams{
			Function:   CurveAsinh,
			Percentile: []float64{15, 95},
		},
	}
}

// Normalize scales raw sample counts into [0, 1] for the given sample
// depth in bits.
func Normalize(samples [][]float64, bits int) [][]float64 {
	full := math.Pow(2, float64(bits))
	out := make([][]float64, len(samples))
	for i, row := range samples {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v / full
		}
	}
	return out
}

// MTF is the midtones transfer function with midtones balance m. Fixed
// points: MTF(0, m) = 0, MTF(m, m) = 0.5, MTF(1, m) = 1.
func MTF(x, m float64) float64 {
	den := (2*m-1)*x - m
	if den == 0 {
		if x >= 1 {
			return 1
		}
		return 0
	}
	return (m - 1) * x / den
}

// AutoStretch applies a screen transfer function to normalized samples.
//
// With median M and MADN = 1.4826 * median(|x - M|), the shadows and
// highlights clipping points are clamp(M + C*MADN) and clamp(M - C*MADN).
// For a dark frame (M <= 0.5) the midtones balance is MTF(M - shadows, B),
// otherwise MTF(B, highlights - M), so the background lands on the target
// level B. Every sample then passes through MTF with that balance and is
// clipped to [0, 1].
//
// Parameters:
//   - samples: Normalized sample rows in [0, 1]
//   - targetBackground: B, the output background level
//   - clippingPoint: C, in MADN units from the median
//
// Returns:
//   - [][]float64: Stretched rows, same shape as the input
func AutoStretch(samples [][]float64, targetBackground, clippingPoint float64) [][]float64 {
	flat := flatten(samples)
	if len(flat) == 0 {
		return [][]float64{}
	}
	median := medianOf(flat)
	for i, v := range flat {
		flat[i] = math.Abs(v - median)
	}
	madn := madnScale * medianOf(flat)

	shadows := clamp01(median + clippingPoint*madn)
	highlights := clamp01(median - clippingPoint*madn)

	var balance float64
	if median <= 0.5 {
		balance = MTF(median-shadows, targetBackground)
	} else {
		balance = MTF(targetBackground, highlights-median)
	}

	out := make([][]float64, len(samples))
	for i, row := range samples {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = clamp01(MTF(v, balance))
		}
	}
	return out
}

// CurveStretch rescales samples through an interval and maps them through
// a named curve. Interval priority: the percentile pair, then the fixed
// value pair, then the full data range.
func CurveStretch(samples [][]float64, params CurveParams) ([][]float64, error) {
	curve, err := curveFunc(params.Function)
	if err != nil {
		return nil, err
	}
	flat := flatten(samples)
	if len(flat) == 0 {
		return [][]float64{}, nil
	}
	vmin, vmax := intervalOf(flat, params)
	span := vmax - vmin

	out := make([][]float64, len(samples))
	for i, row := range samples {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			y := 0.0
			if span > 0 {
				y = clamp01((v - vmin) / span)
			}
			out[i][j] = curve(y)
		}
	}
	return out, nil
}

func curveFunc(name string) (func(float64) float64, error) {
	switch name {
	case CurveAsinh:
		scale := math.Asinh(1 / asinhSoftening)
		return func(y float64) float64 { return math.Asinh(y/asinhSoftening) / scale }, nil
	case CurveSinh:
		scale := math.Sinh(1 / sinhSoftening)
		return func(y float64) float64 { return math.Sinh(y/sinhSoftening) / scale }, nil
	case CurveSqrt:
		return math.Sqrt, nil
	case CurveLog:
		scale := math.Log(logExponent + 1)
		return func(y float64) float64 { return math.Log(logExponent*y+1) / scale }, nil
	case CurveLinear:
		return func(y float64) float64 { return y }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}

// intervalOf picks the scaling interval. xs is sorted as a side effect.
func intervalOf(xs []float64, params CurveParams) (vmin, vmax float64) {
	sort.Float64s(xs)
	switch {
	case len(params.Percentile) == 2:
		return percentileOf(xs, params.Percentile[0]), percentileOf(xs, params.Percentile[1])
	case len(params.Value) == 2:
		return params.Value[0], params.Value[1]
	default:
		return xs[0], xs[len(xs)-1]
	}
}

// percentileOf returns the p'th percentile of sorted xs, interpolating
// linearly between ranks.
func percentileOf(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	if rank <= 0 {
		return sorted[0]
	}
	if rank >= float64(len(sorted)-1) {
		return sorted[len(sorted)-1]
	}
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

func flatten(samples [][]float64) []float64 {
	n := 0
	for _, row := range samples {
		n += len(row)
	}
	flat := make([]float64, 0, n)
	for _, row := range samples {
		flat = append(flat, row...)
	}
	return flat
}

// medianOf sorts xs in place and returns the median, averaging the two
// middle elements for even lengths.
func medianOf(xs []float64) float64 {
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 0 {
		return (xs[mid-1] + xs[mid]) / 2
	}
	return xs[mid]
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
