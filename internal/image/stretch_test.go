package image

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ===== NORMALIZE =====

func TestNormalize(t *testing.T) {
	out := Normalize([][]float64{{0, 32768, 65536}}, 16)
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if !almostEqual(out[0][i], w) {
			t.Errorf("Normalize 16-bit [%d] = %v, want %v", i, out[0][i], w)
		}
	}

	out = Normalize([][]float64{{128}}, 8)
	if !almostEqual(out[0][0], 0.5) {
		t.Errorf("Normalize 8-bit = %v, want 0.5", out[0][0])
	}
}

// ===== MIDTONES TRANSFER FUNCTION =====

func TestMTFFixedPoints(t *testing.T) {
	for _, m := range []float64{0.1, 0.25, 0.3, 0.75} {
		if got := MTF(0, m); got != 0 {
			t.Errorf("MTF(0, %v) = %v, want 0", m, got)
		}
		if got := MTF(m, m); !almostEqual(got, 0.5) {
			t.Errorf("MTF(m, m) with m=%v = %v, want 0.5", m, got)
		}
		if got := MTF(1, m); !almostEqual(got, 1) {
			t.Errorf("MTF(1, %v) = %v, want 1", m, got)
		}
	}

	// degenerate balances produced by flat frames
	if got := MTF(0, 0); got != 0 {
		t.Errorf("MTF(0, 0) = %v, want 0", got)
	}
	if got := MTF(1, 1); got != 1 {
		t.Errorf("MTF(1, 1) = %v, want 1", got)
	}
}

// ===== AUTO STRETCH =====

func TestAutoStretchDarkFrame(t *testing.T) {
	// median 0.5, MADN 0.29652: both clipping points clamp, the balance
	// becomes MTF(0.5, 0.25) = 0.75 and the curve is x/(3-2x)
	samples := [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
		{0.7, 0.8, 0.9},
	}
	out := AutoStretch(samples, 0.25, -2.8)

	if !almostEqual(out[1][1], 0.25) {
		t.Errorf("median sample stretched to %v, want the 0.25 target", out[1][1])
	}
	if !almostEqual(out[0][0], 0.1/2.8) {
		t.Errorf("out[0][0] = %v, want %v", out[0][0], 0.1/2.8)
	}
	if !almostEqual(out[2][2], 0.75) {
		t.Errorf("out[2][2] = %v, want 0.75", out[2][2])
	}
}

func TestAutoStretchBrightFrame(t *testing.T) {
	// median 0.6 > 0.5 flips to the highlights branch:
	// balance MTF(0.25, 0.4) = 1/3
	samples := [][]float64{
		{0.2, 0.3, 0.4},
		{0.5, 0.6, 0.7},
		{0.8, 0.9, 1.0},
	}
	out := AutoStretch(samples, 0.25, -2.8)

	if !almostEqual(out[1][1], 0.75) {
		t.Errorf("median sample stretched to %v, want 0.75", out[1][1])
	}
	if !almostEqual(out[0][0], 1.0/3) {
		t.Errorf("out[0][0] = %v, want 1/3", out[0][0])
	}
	if !almostEqual(out[2][2], 1) {
		t.Errorf("out[2][2] = %v, want 1", out[2][2])
	}
}

func TestAutoStretchStaysInUnitRange(t *testing.T) {
	samples := [][]float64{{0.0001, 0.0002, 0.0003, 0.9, 0.95, 1.0}}
	out := AutoStretch(samples, 0.25, -2.8)
	for i, v := range out[0] {
		if v < 0 || v > 1 {
			t.Errorf("out[%d] = %v outside [0, 1]", i, v)
		}
	}
}

func TestAutoStretchPreservesOrder(t *testing.T) {
	samples := [][]float64{{0.01, 0.02, 0.05, 0.1, 0.3, 0.6, 0.9}}
	out := AutoStretch(samples, 0.25, -2.8)
	for i := 1; i < len(out[0]); i++ {
		if out[0][i] < out[0][i-1] {
			t.Errorf("stretch broke ordering at %d: %v < %v", i, out[0][i], out[0][i-1])
		}
	}
}

func TestAutoStretchDeterministic(t *testing.T) {
	samples := [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
		{0.7, 0.8, 0.9},
	}
	first := AutoStretch(samples, 0.25, -2.8)
	second := AutoStretch(samples, 0.25, -2.8)
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("re-run diverged at [%d][%d]: %v != %v", i, j, first[i][j], second[i][j])
			}
		}
	}

	// Restretching a stretched frame is not a no-op, but its clip-point
	// computation is just as reproducible.
	again := AutoStretch(first, 0.25, -2.8)
	repeat := AutoStretch(first, 0.25, -2.8)
	for i := range again {
		for j := range again[i] {
			if again[i][j] != repeat[i][j] {
				t.Fatalf("restretch diverged at [%d][%d]: %v != %v", i, j, again[i][j], repeat[i][j])
			}
			if again[i][j] < 0 || again[i][j] > 1 {
				t.Errorf("restretch out of range at [%d][%d]: %v", i, j, again[i][j])
			}
		}
	}
}

func TestAutoStretchEmpty(t *testing.T) {
	if out := AutoStretch(nil, 0.25, -2.8); len(out) != 0 {
		t.Errorf("AutoStretch(nil) = %v, want empty", out)
	}
}

// ===== CURVE STRETCH =====

func TestCurveStretchLinearMinMax(t *testing.T) {
	out, err := CurveStretch([][]float64{{0, 5, 10}}, CurveParams{Function: CurveLinear})
	if err != nil {
		t.Fatalf("CurveStretch() error = %v", err)
	}
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if !almostEqual(out[0][i], w) {
			t.Errorf("out[%d] = %v, want %v", i, out[0][i], w)
		}
	}
}

func TestCurveStretchSqrtFixedInterval(t *testing.T) {
	out, err := CurveStretch([][]float64{{0, 1, 4, 9}}, CurveParams{
		Function: CurveSqrt,
		Value:    []float64{0, 4},
	})
	if err != nil {
		t.Fatalf("CurveStretch() error = %v", err)
	}
	want := []float64{0, 0.5, 1, 1}
	for i, w := range want {
		if !almostEqual(out[0][i], w) {
			t.Errorf("out[%d] = %v, want %v", i, out[0][i], w)
		}
	}
}

func TestCurveStretchPercentileInterval(t *testing.T) {
	row := make([]float64, 101)
	for i := range row {
		row[i] = float64(i)
	}
	out, err := CurveStretch([][]float64{row}, CurveParams{
		Function:   CurveLinear,
		Percentile: []float64{10, 90},
	})
	if err != nil {
		t.Fatalf("CurveStretch() error = %v", err)
	}

	// interval [10, 90]: below clips to 0, above to 1
	if !almostEqual(out[0][5], 0) {
		t.Errorf("out[5] = %v, want 0", out[0][5])
	}
	if !almostEqual(out[0][50], 0.5) {
		t.Errorf("out[50] = %v, want 0.5", out[0][50])
	}
	if !almostEqual(out[0][30], 0.25) {
		t.Errorf("out[30] = %v, want 0.25", out[0][30])
	}
	if !almostEqual(out[0][95], 1) {
		t.Errorf("out[95] = %v, want 1", out[0][95])
	}
}

func TestCurveStretchPercentileInterpolates(t *testing.T) {
	// 50th percentile of {1,2,3,4} interpolates to 2.5
	out, err := CurveStretch([][]float64{{1, 2, 3, 4}}, CurveParams{
		Function:   CurveLinear,
		Percentile: []float64{50, 100},
	})
	if err != nil {
		t.Fatalf("CurveStretch() error = %v", err)
	}
	if !almostEqual(out[0][0], 0) || !almostEqual(out[0][1], 0) {
		t.Errorf("values below the interval = %v, %v, want 0", out[0][0], out[0][1])
	}
	if !almostEqual(out[0][2], 1.0/3) {
		t.Errorf("out[2] = %v, want 1/3", out[0][2])
	}
	if !almostEqual(out[0][3], 1) {
		t.Errorf("out[3] = %v, want 1", out[0][3])
	}
}

func TestCurveShapes(t *testing.T) {
	stretchAt := func(fn string) float64 {
		t.Helper()
		out, err := CurveStretch([][]float64{{0, 0.25, 1}}, CurveParams{
			Function: fn,
			Value:    []float64{0, 1},
		})
		if err != nil {
			t.Fatalf("CurveStretch(%s) error = %v", fn, err)
		}
		if !almostEqual(out[0][0], 0) {
			t.Errorf("%s(0) = %v, want 0", fn, out[0][0])
		}
		if !almostEqual(out[0][2], 1) {
			t.Errorf("%s(1) = %v, want 1", fn, out[0][2])
		}
		return out[0][1]
	}

	logMid := stretchAt(CurveLog)
	asinhMid := stretchAt(CurveAsinh)
	sqrtMid := stretchAt(CurveSqrt)
	linearMid := stretchAt(CurveLinear)
	sinhMid := stretchAt(CurveSinh)

	// at 0.25: log lifts hardest, sinh suppresses
	if !(logMid > asinhMid && asinhMid > sqrtMid && sqrtMid > linearMid && linearMid > sinhMid) {
		t.Errorf("curve ordering broken: log=%v asinh=%v sqrt=%v linear=%v sinh=%v",
			logMid, asinhMid, sqrtMid, linearMid, sinhMid)
	}
	if !almostEqual(sqrtMid, 0.5) {
		t.Errorf("sqrt(0.25) = %v, want 0.5", sqrtMid)
	}
	if !almostEqual(linearMid, 0.25) {
		t.Errorf("linear(0.25) = %v, want 0.25", linearMid)
	}
}

func TestCurveStretchUnknownFunction(t *testing.T) {
	_, err := CurveStretch([][]float64{{1}}, CurveParams{Function: "gamma"})
	if !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("CurveStretch() error = %v, want ErrUnknownCurve", err)
	}
}

func TestCurveStretchFlatFrame(t *testing.T) {
	out, err := CurveStretch([][]float64{{3, 3}, {3, 3}}, CurveParams{Function: CurveLinear})
	if err != nil {
		t.Fatalf("CurveStretch() error = %v", err)
	}
	for i, row := range out {
		for j, v := range row {
			if v != 0 {
				t.Errorf("out[%d][%d] = %v, want 0 for a flat frame", i, j, v)
			}
		}
	}
}
