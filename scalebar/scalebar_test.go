package scalebar

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ByLCY/scalebar/dimension"
)

// imageView 模拟 imshow 一张 w×h 像素的图：数据范围为 [-0.5, w-0.5]，纵横比一致。
func imageView(w, h float64) View {
	return View{XMin: -0.5, XMax: w - 0.5, YMin: h - 0.5, YMax: -0.5, Width: w * 10, Height: h * 10}
}

func TestComputeSmallImage(t *testing.T) {
	sb, err := New(0.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, ok, err := sb.Compute(imageView(3, 3))
	if err != nil || !ok {
		t.Fatalf("Compute: ok=%v err=%v", ok, err)
	}
	if !scalar.EqualWithinAbs(info.LengthPx, 0.4, 1e-9) {
		t.Fatalf("LengthPx = %g, want 0.4", info.LengthPx)
	}
	if info.Value != 2 || info.Units != "dm" || info.ScaleText != "2 dm" {
		t.Fatalf("unexpected info %+v", info)
	}
	if !scalar.EqualWithinAbs(info.BarWidthPx, 0.03, 1e-12) {
		t.Fatalf("BarWidthPx = %g, want 0.03", info.BarWidthPx)
	}
	if info.AspectMismatch {
		t.Fatalf("square image must not report an aspect mismatch")
	}
}

func TestComputeTenPixels(t *testing.T) {
	sb, err := New(1, WithLengthFraction(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, ok, err := sb.Compute(View{XMax: 10, YMax: 10})
	if err != nil || !ok {
		t.Fatalf("Compute: ok=%v err=%v", ok, err)
	}
	if info.LengthPx != 5 || info.ScaleText != "5 m" {
		t.Fatalf("want 5px labelled \"5 m\", got %+v", info)
	}
}

func TestComputeSkips(t *testing.T) {
	sb, err := New(0)
	if err != nil {
		t.Fatalf("zero calibration must be accepted: %v", err)
	}
	if _, ok, err := sb.Compute(imageView(10, 10)); ok || err != nil {
		t.Fatalf("dx=0 should skip, got ok=%v err=%v", ok, err)
	}

	sb, _ = New(1)
	if _, ok, err := sb.Compute(View{XMin: 3, XMax: 3, YMax: 10}); ok || err != nil {
		t.Fatalf("empty extent should skip, got ok=%v err=%v", ok, err)
	}
}

func TestComputeFixedValue(t *testing.T) {
	sb, err := New(0.5, WithUnits("um"), WithFixedValue(200, "nm"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, ok, err := sb.Compute(imageView(256, 256))
	if err != nil || !ok {
		t.Fatalf("Compute: ok=%v err=%v", ok, err)
	}
	if !scalar.EqualWithinRel(info.LengthPx, 0.4, 1e-9) || info.Value != 200 || info.ScaleText != "200 nm" {
		t.Fatalf("unexpected fixed info %+v", info)
	}

	sb, err = New(0.5, WithUnits("um"), WithFixedValue(3, ""))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, _, _ = sb.Compute(imageView(256, 256))
	if info.Units != "um" || !scalar.EqualWithinRel(info.LengthPx, 6, 1e-9) || info.ScaleText != "3 µm" {
		t.Fatalf("fixed value without units should use calibration units, got %+v", info)
	}
}

func TestComputeVertical(t *testing.T) {
	sb, err := New(1, WithRotation("vertical"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	view := View{XMax: 100, YMax: 50, Width: 100, Height: 100}
	info, ok, err := sb.Compute(view)
	if err != nil || !ok {
		t.Fatalf("Compute: ok=%v err=%v", ok, err)
	}
	if !info.Vertical || info.LengthPx != 5 || !scalar.EqualWithinAbs(info.BarWidthPx, 1, 1e-12) {
		t.Fatalf("unexpected vertical info %+v", info)
	}
	if !info.AspectMismatch {
		t.Fatalf("expected aspect mismatch for 100x50 data in a square box")
	}

	only, _ := sb.With(WithRotation("vertical-only"))
	info, _, _ = only.Compute(view)
	if info.AspectMismatch {
		t.Fatalf("vertical-only must not report aspect mismatch")
	}
}

func TestScaleFormatter(t *testing.T) {
	sb, err := New(1, WithScaleFormatter(func(v float64, unit string) string {
		return fmt.Sprintf("%s [%g]", unit, v)
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, _, _ := sb.Compute(View{XMax: 50, YMax: 50})
	if info.ScaleText != "m [5]" {
		t.Fatalf("ScaleText = %q", info.ScaleText)
	}
}

func TestAngleScaleText(t *testing.T) {
	sb, err := New(1.0/60, WithDimension(dimension.FamilyAngle), WithUnits("deg"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, _, err := sb.Compute(View{XMax: 200, YMax: 200})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if info.ScaleText != "25′" {
		t.Fatalf("ScaleText = %q, want 25′", info.ScaleText)
	}
}

func TestOptionValidation(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
		want error
	}{
		{"zero length fraction", []Option{WithLengthFraction(0)}, ErrInvalidRange},
		{"length fraction above one", []Option{WithLengthFraction(1.5)}, ErrInvalidRange},
		{"width fraction", []Option{WithWidthFraction(-0.1)}, ErrInvalidRange},
		{"alpha", []Option{WithBoxAlpha(1.2)}, ErrInvalidRange},
		{"fixed value", []Option{WithFixedValue(0, "m")}, ErrInvalidRange},
		{"location", []Option{WithLocation("somewhere")}, ErrInvalidOption},
		{"rotation", []Option{WithRotation("diagonal")}, ErrInvalidOption},
		{"scale loc", []Option{WithScaleLoc("middle")}, ErrInvalidOption},
		{"loc conflict", []Option{WithLocation("upper right"), WithLoc("lower left")}, ErrConflictingConfiguration},
		{"height conflict", []Option{WithWidthFraction(0.02), WithHeightFraction(0.03)}, ErrConflictingConfiguration},
		{"units", []Option{WithUnits("ft")}, dimension.ErrUnknownUnit},
		{"fixed units", []Option{WithFixedValue(1, "ft")}, dimension.ErrUnknownUnit},
		{"dimension", []Option{WithDimension("volume")}, dimension.ErrUnknownFamily},
		{"y axis on single bar", []Option{ForAxis(AxisY, WithUnits("cm"))}, ErrInvalidOption},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(1, tc.opts...); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if _, err := New(-1); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("negative dx: expected ErrInvalidRange, got %v", err)
	}
}

func TestOptionAliases(t *testing.T) {
	sb, err := New(1, WithLocation("lower left"), WithLoc("3"))
	if err != nil {
		t.Fatalf("matching loc/location must be accepted: %v", err)
	}
	if sb.Settings().Location != LowerLeft {
		t.Fatalf("Location = %v", sb.Settings().Location)
	}

	sb, err = New(1, WithHeightFraction(0.05))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sb.Settings().WidthFraction != 0.05 {
		t.Fatalf("height_fraction should set the bar width, got %g", sb.Settings().WidthFraction)
	}
}

func TestSettingsDefaults(t *testing.T) {
	sb, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := sb.Settings()
	if s.Axis.LengthFraction != 0.2 || s.WidthFraction != 0.01 || s.Location != UpperRight {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if s.ScaleLoc != TextBottom || s.LabelLoc != TextTop || s.Rotation != Horizontal || !s.FrameOn {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if s.Axis.Units != "m" || s.Axis.Dimension.BaseUnit() != "m" {
		t.Fatalf("default calibration should be metres, got %s", s.Axis.Units)
	}

	d := NewDefaults()
	d.LengthFraction = 0.5
	d.Location = "center"
	sb, err = New(1, WithDefaults(d))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sb.Settings().Axis.LengthFraction != 0.5 || sb.Settings().Location != Center {
		t.Fatalf("WithDefaults not applied: %+v", sb.Settings())
	}
}

func TestDefaultsValidate(t *testing.T) {
	if err := NewDefaults().Validate(); err != nil {
		t.Fatalf("built-in defaults must validate: %v", err)
	}
	d := NewDefaults()
	d.WidthFraction = 0
	if err := d.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	d = NewDefaults()
	d.BorderPad, d.Sep = -1, -2
	for i := 0; i < 20; i++ {
		err := d.Validate()
		if !errors.Is(err, ErrInvalidRange) || !strings.Contains(err.Error(), "border_pad") {
			t.Fatalf("expected border_pad to be reported first, got %v", err)
		}
	}
	d = NewDefaults()
	d.DualScaleLoc = []string{"lower center"}
	if err := d.Validate(); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := New(1, WithDefaults(d)); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("WithDefaults must validate, got %v", err)
	}
}

func TestWithLeavesOriginalUntouched(t *testing.T) {
	sb, _ := New(1)
	other, err := sb.With(WithLengthFraction(0.5), WithLabel("scan"))
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if sb.Settings().Axis.LengthFraction != 0.2 || sb.Settings().Axis.Label != "" {
		t.Fatalf("original settings changed: %+v", sb.Settings().Axis)
	}
	if other.Settings().Axis.LengthFraction != 0.5 || other.Settings().Axis.Label != "scan" {
		t.Fatalf("With not applied: %+v", other.Settings().Axis)
	}
	if _, err := sb.With(WithLengthFraction(2)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("With must validate, got %v", err)
	}
}

func TestCustomDimension(t *testing.T) {
	dim := dimension.New("pt")
	if err := dim.AddUnit("in", 72, ""); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	sb, err := New(1, WithCustomDimension(dim), WithUnits("pt"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	info, _, err := sb.Compute(View{XMax: 1000, YMax: 1000})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// 200pt = 2.78in → 2in = 144pt
	if info.ScaleText != "2 in" || !scalar.EqualWithinRel(info.LengthPx, 144, 1e-9) {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestParseLocation(t *testing.T) {
	cases := map[string]Location{
		"upper right":  UpperRight,
		"Centre Left":  CenterLeft,
		"lower-center": LowerCenter,
		"7":            CenterRight,
		"10":           Center,
	}
	for in, want := range cases {
		got, err := ParseLocation(in)
		if err != nil || got != want {
			t.Fatalf("ParseLocation(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"", "0", "11", "top"} {
		if _, err := ParseLocation(in); !errors.Is(err, ErrInvalidOption) {
			t.Fatalf("ParseLocation(%q): expected ErrInvalidOption, got %v", in, err)
		}
	}
	if LowerLeft.String() != "lower left" {
		t.Fatalf("String() = %q", LowerLeft.String())
	}
}
