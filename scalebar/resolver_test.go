package scalebar

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ByLCY/scalebar/dimension"
)

func TestBestLengthSnapsBelow(t *testing.T) {
	r, err := BestLength(10, 1, dimension.SILength(), "m")
	if err != nil {
		t.Fatalf("BestLength: %v", err)
	}
	if r.Value != 5 || r.Unit != "m" || !scalar.EqualWithinAbs(r.LengthPx, 5, 1e-9) {
		t.Fatalf("BestLength(10) = %+v, want 5 m over 5px", r)
	}
}

func TestBestLengthConvertsUnits(t *testing.T) {
	cases := []struct {
		name      string
		lengthPx  float64
		dx        float64
		dim       *dimension.Dimension
		unit      string
		wantValue float64
		wantUnit  string
		wantPx    float64
	}{
		{"decimetre", 0.6, 0.5, dimension.SILength(), "m", 2, "dm", 0.4},
		{"nanometre", 100, 0.5, dimension.SILength(), "nm", 25, "nm", 50},
		{"micrometre", 50, 100, dimension.SILength(), "nm", 2, "um", 20},
		{"kilometre", 30, 100, dimension.SILength(), "m", 2, "km", 20},
		{"imperial", 30, 1, dimension.ImperialLength(), "in", 2, "ft", 24},
		{"below ladder", 0.02, 1, dimension.PixelLength(), "px", 1, "px", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := BestLength(tc.lengthPx, tc.dx, tc.dim, tc.unit)
			if err != nil {
				t.Fatalf("BestLength: %v", err)
			}
			if r.Unit != tc.wantUnit || !scalar.EqualWithinAbs(r.Value, tc.wantValue, 1e-9) {
				t.Fatalf("value = %g %s, want %g %s", r.Value, r.Unit, tc.wantValue, tc.wantUnit)
			}
			if !scalar.EqualWithinRel(r.LengthPx, tc.wantPx, 1e-9) {
				t.Fatalf("lengthPx = %g, want %g", r.LengthPx, tc.wantPx)
			}
		})
	}
}

// TestBestLengthNeverOvershoots 检查自动模式下的长度不超过请求长度，且数值取自阶梯。
func TestBestLengthNeverOvershoots(t *testing.T) {
	ladder := map[float64]bool{}
	for _, v := range PreferredValues() {
		ladder[v] = true
	}
	dim := dimension.SILength()
	for _, dx := range []float64{1e-9, 3.7e-4, 0.5, 1, 42} {
		for _, lengthPx := range []float64{3, 7, 13, 42, 99, 480, 999, 12345} {
			r, err := BestLength(lengthPx, dx, dim, "m")
			if err != nil {
				t.Fatalf("BestLength(%g, %g): %v", lengthPx, dx, err)
			}
			if r.LengthPx > lengthPx*(1+1e-9) {
				t.Fatalf("BestLength(%g, %g) overshoots: %g", lengthPx, dx, r.LengthPx)
			}
			if !ladder[r.Value] {
				t.Fatalf("BestLength(%g, %g) value %g not on the ladder", lengthPx, dx, r.Value)
			}
			back, err := dim.Convert(r.Value, r.Unit, "m")
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if !scalar.EqualWithinRel(back/dx, r.LengthPx, 1e-9) {
				t.Fatalf("lengthPx %g does not match %g %s at dx=%g", r.LengthPx, r.Value, r.Unit, dx)
			}
		}
	}
}

func TestBestLengthErrors(t *testing.T) {
	if _, err := BestLength(10, 0, dimension.SILength(), "m"); !errors.Is(err, ErrZeroCalibration) {
		t.Fatalf("expected ErrZeroCalibration, got %v", err)
	}
	if _, err := BestLength(0, 1, dimension.SILength(), "m"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := BestLength(10, 1, dimension.SILength(), "ft"); !errors.Is(err, dimension.ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := BestLength(10, -0.5, dimension.SILength(), "m"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("negative dx: expected ErrInvalidRange, got %v", err)
	}
}

// TestBestLengthSameRungAcrossSourceUnits 检查同一物理量无论以哪个单位给出，都吸附到同一阶梯值。
func TestBestLengthSameRungAcrossSourceUnits(t *testing.T) {
	dim := dimension.SILength()
	cases := []struct {
		lengthPx float64
		unit     string
		wantUnit string
	}{
		{5, "m", "m"},
		{5000, "nm", "um"},
		{5000, "mm", "m"},
		{0.005, "km", "m"},
		{75000, "nm", "um"},
	}
	for _, tc := range cases {
		r, err := BestLength(tc.lengthPx, 1, dim, tc.unit)
		if err != nil {
			t.Fatalf("BestLength(%g %s): %v", tc.lengthPx, tc.unit, err)
		}
		want := 2.0
		if tc.lengthPx == 75000 {
			want = 50
		}
		if r.Value != want || r.Unit != tc.wantUnit {
			t.Fatalf("BestLength(%g %s) = %g %s, want %g %s", tc.lengthPx, tc.unit, r.Value, r.Unit, want, tc.wantUnit)
		}
	}
}

func TestExactLength(t *testing.T) {
	got, err := ExactLength(200, "nm", 0.5, dimension.SILength(), "um")
	if err != nil {
		t.Fatalf("ExactLength: %v", err)
	}
	if !scalar.EqualWithinRel(got, 0.4, 1e-9) {
		t.Fatalf("ExactLength = %g, want 0.4", got)
	}

	got, err = ExactLength(3, "", 0.5, dimension.SILength(), "um")
	if err != nil {
		t.Fatalf("ExactLength: %v", err)
	}
	if got != 6 {
		t.Fatalf("empty unit should fall back to source unit, got %g", got)
	}

	if _, err := ExactLength(1, "ft", 1, dimension.SILength(), "m"); !errors.Is(err, dimension.ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := ExactLength(1, "m", 0, dimension.SILength(), "m"); !errors.Is(err, ErrZeroCalibration) {
		t.Fatalf("expected ErrZeroCalibration, got %v", err)
	}
	if _, err := ExactLength(1, "m", -1, dimension.SILength(), "m"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("negative dx: expected ErrInvalidRange, got %v", err)
	}
}

func TestPreferredValuesReturnsCopy(t *testing.T) {
	v := PreferredValues()
	v[0] = 99
	if PreferredValues()[0] != 1 {
		t.Fatalf("ladder was mutated through the returned slice")
	}
}

func TestSnap(t *testing.T) {
	cases := map[float64]float64{
		0.3: 1, 1: 1, 1.5: 1, 2: 1, 3: 2, 10: 5, 12: 10, 760: 750, 999: 750,
		5.0000000000000009: 2, 4.9999999999999991: 2, 25 * (1 + 1e-12): 20, 5.001: 5,
	}
	for in, want := range cases {
		if got := snap(in); got != want {
			t.Fatalf("snap(%g) = %g, want %g", in, got, want)
		}
	}
}
