package scalebar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// View 描述绘制比例尺时坐标区的状态：数据坐标范围与设备尺寸（任意统一单位）。
type View struct {
	XMin, XMax float64
	YMin, YMax float64
	Width      float64
	Height     float64
}

func (v View) XExtent() float64 { return math.Abs(v.XMax - v.XMin) }
func (v View) YExtent() float64 { return math.Abs(v.YMax - v.YMin) }

// AspectMismatch 报告 x、y 方向每设备单位对应的数据量是否不同。
// 设备尺寸未知时返回 false。
func (v View) AspectMismatch() bool {
	if v.Width <= 0 || v.Height <= 0 {
		return false
	}
	return !scalar.EqualWithinRel(v.XExtent()/v.Width, v.YExtent()/v.Height, 1e-6)
}

// Settings 是单根比例尺校验后的全部参数。
type Settings struct {
	Style
	Axis     AxisSettings `json:"axis"`
	ScaleLoc TextLocation `json:"scaleLoc"`
	LabelLoc TextLocation `json:"labelLoc"`
	Rotation Rotation     `json:"rotation"`
}

// Info 是一次绘制所需的全部计算结果，长度以数据坐标（像素）表示。
type Info struct {
	LengthPx       float64 `json:"lengthPx"`
	Value          float64 `json:"value"`
	Units          string  `json:"units"`
	Display        string  `json:"display"`
	ScaleText      string  `json:"scaleText"`
	Label          string  `json:"label,omitempty"`
	Vertical       bool    `json:"vertical"`
	BarWidthPx     float64 `json:"barWidthPx"`
	AspectMismatch bool    `json:"aspectMismatch"`
}

// ScaleBar 是不可变的单根比例尺。并发调用 Compute 是安全的。
type ScaleBar struct {
	cfg      *config
	dx       float64
	settings Settings
}

// New 以像素标定 dx（每像素对应多少 units）创建比例尺。dx 为 0 时 Compute 不产生结果。
func New(dx float64, opts ...Option) (*ScaleBar, error) {
	c := newConfig()
	if err := c.apply(opts); err != nil {
		return nil, err
	}
	return build(c, dx)
}

// With 返回应用了额外选项的新比例尺，原比例尺不变。
func (sb *ScaleBar) With(opts ...Option) (*ScaleBar, error) {
	c := sb.cfg.clone()
	if err := c.apply(opts); err != nil {
		return nil, err
	}
	return build(c, sb.dx)
}

func build(c *config, dx float64) (*ScaleBar, error) {
	if c.touchedY {
		return nil, fmt.Errorf("%w: 单根比例尺不支持 y 轴选项", ErrInvalidOption)
	}
	style, err := c.style()
	if err != nil {
		return nil, err
	}
	axis, err := c.axis(AxisX, dx)
	if err != nil {
		return nil, err
	}
	s := Settings{Style: style, Axis: axis}
	if s.ScaleLoc, err = ParseTextLocation(pick(c.axes[AxisX].scaleLoc, c.defaults.ScaleLoc)); err != nil {
		return nil, fmt.Errorf("scale_loc: %w", err)
	}
	if s.LabelLoc, err = ParseTextLocation(pick(c.axes[AxisX].labelLoc, c.defaults.LabelLoc)); err != nil {
		return nil, fmt.Errorf("label_loc: %w", err)
	}
	if s.Rotation, err = ParseRotation(pick(c.rotation, c.defaults.Rotation)); err != nil {
		return nil, err
	}
	return &ScaleBar{cfg: c, dx: dx, settings: s}, nil
}

// Settings 返回校验后的参数。
func (sb *ScaleBar) Settings() Settings { return sb.settings }

// Compute 根据当前视图求比例尺。第二个返回值为 false 表示本次不绘制
// （标定为 0 或坐标轴范围为 0）。
func (sb *ScaleBar) Compute(v View) (Info, bool, error) {
	s := sb.settings
	if s.Axis.Dx == 0 {
		return Info{}, false, nil
	}
	vertical := s.Rotation.IsVertical()
	extent, across := v.XExtent(), v.YExtent()
	if vertical {
		extent, across = across, extent
	}
	if extent == 0 && !s.Axis.Fixed {
		return Info{}, false, nil
	}

	r, err := s.Axis.Resolve(extent)
	if err != nil {
		return Info{}, false, err
	}
	display, text, err := s.Axis.ScaleText(s.Style, r)
	if err != nil {
		return Info{}, false, err
	}
	info := Info{
		LengthPx:   r.LengthPx,
		Value:      r.Value,
		Units:      r.Unit,
		Display:    display,
		ScaleText:  text,
		Label:      s.Axis.Label,
		Vertical:   vertical,
		BarWidthPx: across * s.WidthFraction,
	}
	if s.Rotation.ChecksAspect() {
		info.AspectMismatch = v.AspectMismatch()
	}
	return info, true, nil
}
