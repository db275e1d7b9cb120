package scalebar

import (
	"fmt"
	"math"

	"github.com/ByLCY/scalebar/dimension"
)

// Style 是单根与双向比例尺共用的外观参数，均已校验。
type Style struct {
	WidthFraction float64   `json:"widthFraction"`
	Location      Location  `json:"location"`
	BBoxToAnchor  *Anchor   `json:"bboxToAnchor,omitempty"`
	Pad           float64   `json:"pad"`
	BorderPad     float64   `json:"borderPad"`
	Sep           float64   `json:"sep"`
	FrameOn       bool      `json:"frameOn"`
	Color         string    `json:"color"`
	BoxColor      string    `json:"boxColor"`
	BoxAlpha      float64   `json:"boxAlpha"`
	FontSize      float64   `json:"fontSize"`
	Formatter     Formatter `json:"-"`
}

// AxisSettings 是一根尺的标定与取值方式。
type AxisSettings struct {
	Dx             float64              `json:"dx"`
	Units          string               `json:"units"`
	Dimension      *dimension.Dimension `json:"-"`
	LengthFraction float64              `json:"lengthFraction"`
	Label          string               `json:"label,omitempty"`
	Fixed          bool                 `json:"fixed"`
	FixedValue     float64              `json:"fixedValue,omitempty"`
	FixedUnits     string               `json:"fixedUnits,omitempty"`
}

// Resolve 根据坐标轴范围（与 dx 同一像素坐标系）求出尺的长度、数值与单位。
func (a AxisSettings) Resolve(extentPx float64) (Resolved, error) {
	if a.Fixed {
		length, err := ExactLength(a.FixedValue, a.FixedUnits, a.Dx, a.Dimension, a.Units)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{LengthPx: length, Value: a.FixedValue, Unit: a.FixedUnits}, nil
	}
	return BestLength(extentPx*a.LengthFraction, a.Dx, a.Dimension, a.Units)
}

// ScaleText 生成刻度文本，返回单位显示串与完整文本。
func (a AxisSettings) ScaleText(style Style, r Resolved) (string, string, error) {
	display, err := a.Dimension.Display(r.Unit)
	if err != nil {
		return "", "", err
	}
	if style.Formatter != nil {
		return display, style.Formatter(r.Value, display), nil
	}
	return display, a.Dimension.FormatLabel(r.Value, display), nil
}

func (c *config) style() (Style, error) {
	d := c.defaults
	s := Style{
		WidthFraction: d.WidthFraction,
		Pad:           pick(c.pad, d.Pad),
		BorderPad:     pick(c.borderPad, d.BorderPad),
		Sep:           pick(c.sep, d.Sep),
		FrameOn:       pick(c.frameOn, d.FrameOn),
		Color:         pick(c.color, d.Color),
		BoxColor:      pick(c.boxColor, d.BoxColor),
		BoxAlpha:      pick(c.boxAlpha, d.BoxAlpha),
		FontSize:      pick(c.fontSize, d.FontSize),
		Formatter:     c.formatter,
		BBoxToAnchor:  c.anchor,
	}

	switch {
	case c.widthFraction != nil && c.heightFraction != nil && *c.widthFraction != *c.heightFraction:
		return Style{}, fmt.Errorf("%w: width_fraction=%g 与 height_fraction=%g 不一致",
			ErrConflictingConfiguration, *c.widthFraction, *c.heightFraction)
	case c.widthFraction != nil:
		s.WidthFraction = *c.widthFraction
	case c.heightFraction != nil:
		s.WidthFraction = *c.heightFraction
	}

	location := d.Location
	if c.location != nil {
		location = *c.location
	}
	loc, err := ParseLocation(location)
	if err != nil {
		return Style{}, err
	}
	if c.loc != nil {
		alias, err := ParseLocation(*c.loc)
		if err != nil {
			return Style{}, err
		}
		if c.location != nil && alias != loc {
			return Style{}, fmt.Errorf("%w: loc=%q 与 location=%q 不一致",
				ErrConflictingConfiguration, *c.loc, *c.location)
		}
		loc = alias
	}
	s.Location = loc
	return s, nil
}

func (c *config) axis(axis Axis, dx float64) (AxisSettings, error) {
	ac := c.axes[axis]
	if math.IsNaN(dx) || math.IsInf(dx, 0) || dx < 0 {
		return AxisSettings{}, fmt.Errorf("%w: %s 轴标定必须为非负有限数，实际 %g", ErrInvalidRange, axis, dx)
	}

	dim := ac.custom
	if dim == nil {
		family := ac.family
		if family == "" {
			family = dimension.FamilySILength
		}
		var err error
		if dim, err = dimension.Lookup(family); err != nil {
			return AxisSettings{}, err
		}
	}

	units := ac.units
	if units == "" {
		units = dim.BaseUnit()
	}
	if !dim.IsValidUnit(units) {
		return AxisSettings{}, fmt.Errorf("%w: %q 不属于基准单位为 %s 的物理量族", dimension.ErrUnknownUnit, units, dim.BaseUnit())
	}

	s := AxisSettings{
		Dx:             dx,
		Units:          units,
		Dimension:      dim,
		LengthFraction: pick(ac.lengthFraction, c.defaults.LengthFraction),
		Label:          ac.label,
	}
	if ac.fixedValue != nil {
		s.Fixed = true
		s.FixedValue = *ac.fixedValue
		s.FixedUnits = ac.fixedUnits
		if s.FixedUnits == "" {
			s.FixedUnits = units
		}
		if !dim.IsValidUnit(s.FixedUnits) {
			return AxisSettings{}, fmt.Errorf("%w: 固定单位 %q 不属于基准单位为 %s 的物理量族", dimension.ErrUnknownUnit, s.FixedUnits, dim.BaseUnit())
		}
	}
	return s, nil
}

func pick[T any](v *T, fallback T) T {
	if v != nil {
		return *v
	}
	return fallback
}
