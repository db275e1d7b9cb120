package scalebar

import (
	"fmt"

	"github.com/ByLCY/scalebar/dimension"
)

// Axis 选择双向比例尺中的一根尺。
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Formatter 根据数值与单位显示串生成刻度文本，替换物理量族自带的格式。
type Formatter func(value float64, display string) string

// Option 配置比例尺。取值错误在构造时立即返回。
type Option func(*config) error

type axisConfig struct {
	units          string
	family         string
	custom         *dimension.Dimension
	label          string
	lengthFraction *float64
	fixedValue     *float64
	fixedUnits     string
	scaleLoc       *string
	labelLoc       *string
}

// config 收集尚未校验的选项；指针字段为 nil 表示使用默认值。
type config struct {
	defaults Defaults
	axes     [2]axisConfig
	target   []Axis
	touchedY bool

	widthFraction  *float64
	heightFraction *float64
	location       *string
	loc            *string
	anchor         *Anchor
	pad            *float64
	borderPad      *float64
	sep            *float64
	frameOn        *bool
	color          *string
	boxColor       *string
	boxAlpha       *float64
	rotation       *string
	arrangement    *string
	fontSize       *float64
	formatter      Formatter
}

func newConfig() *config {
	return &config{
		defaults: NewDefaults(),
		target:   []Axis{AxisX, AxisY},
	}
}

func (c *config) clone() *config {
	cp := *c
	return &cp
}

func (c *config) apply(opts []Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *config) eachAxis(fn func(*axisConfig)) {
	for _, a := range c.target {
		fn(&c.axes[a])
	}
}

func ptr[T any](v T) *T { return &v }

// WithDefaults 替换整组默认值。
func WithDefaults(d Defaults) Option {
	return func(c *config) error {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("默认值无效: %w", err)
		}
		c.defaults = d
		return nil
	}
}

// WithUnits 设置标定单位（dx 的单位），默认为物理量族的基准单位。
func WithUnits(units string) Option {
	return func(c *config) error {
		c.eachAxis(func(a *axisConfig) { a.units = units })
		return nil
	}
}

// WithDimension 按名称选择内置或已注册的物理量族，例如 "imperial-length"。
func WithDimension(name string) Option {
	return func(c *config) error {
		if _, err := dimension.Lookup(name); err != nil {
			return err
		}
		c.eachAxis(func(a *axisConfig) {
			a.family = name
			a.custom = nil
		})
		return nil
	}
}

// WithCustomDimension 直接使用调用方构造的物理量族。
func WithCustomDimension(dim *dimension.Dimension) Option {
	return func(c *config) error {
		if dim == nil {
			return fmt.Errorf("%w: dimension 不能为空", ErrInvalidOption)
		}
		c.eachAxis(func(a *axisConfig) {
			a.custom = dim
			a.family = ""
		})
		return nil
	}
}

// WithLabel 设置比例尺旁的说明文字。
func WithLabel(label string) Option {
	return func(c *config) error {
		c.eachAxis(func(a *axisConfig) { a.label = label })
		return nil
	}
}

// WithLengthFraction 设置比例尺期望长度占坐标轴范围的比例，取值 (0, 1]。
func WithLengthFraction(f float64) Option {
	return func(c *config) error {
		if err := checkFraction("length_fraction", f); err != nil {
			return err
		}
		c.eachAxis(func(a *axisConfig) { a.lengthFraction = ptr(f) })
		return nil
	}
}

// WithWidthFraction 设置比例尺粗细占坐标轴范围的比例，取值 (0, 1]。
func WithWidthFraction(f float64) Option {
	return func(c *config) error {
		if err := checkFraction("width_fraction", f); err != nil {
			return err
		}
		c.widthFraction = ptr(f)
		return nil
	}
}

// WithHeightFraction 是 WithWidthFraction 的旧名称。
//
// Deprecated: 使用 WithWidthFraction。
func WithHeightFraction(f float64) Option {
	return func(c *config) error {
		if err := checkFraction("height_fraction", f); err != nil {
			return err
		}
		c.heightFraction = ptr(f)
		return nil
	}
}

// WithLocation 设置比例尺框的位置（名称或 1..10 的编码）。
func WithLocation(location string) Option {
	return func(c *config) error {
		if _, err := ParseLocation(location); err != nil {
			return err
		}
		c.location = ptr(location)
		return nil
	}
}

// WithLoc 是 WithLocation 的别名；两者同时给出且不一致时构造失败。
func WithLoc(loc string) Option {
	return func(c *config) error {
		if _, err := ParseLocation(loc); err != nil {
			return err
		}
		c.loc = ptr(loc)
		return nil
	}
}

// Anchor 是以坐标区比例（0..1，原点在左下角）表示的锚点。
type Anchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WithBBoxToAnchor 把比例尺框的 Location 角固定到坐标区内的给定点。
func WithBBoxToAnchor(x, y float64) Option {
	return func(c *config) error {
		c.anchor = &Anchor{X: x, Y: y}
		return nil
	}
}

// WithPad 设置框内边距（字号的倍数）。
func WithPad(pad float64) Option {
	return func(c *config) error {
		if pad < 0 {
			return fmt.Errorf("%w: pad 不能为负数，实际 %g", ErrInvalidRange, pad)
		}
		c.pad = ptr(pad)
		return nil
	}
}

// WithBorderPad 设置框与坐标区边缘的距离（字号的倍数）。
func WithBorderPad(pad float64) Option {
	return func(c *config) error {
		if pad < 0 {
			return fmt.Errorf("%w: border_pad 不能为负数，实际 %g", ErrInvalidRange, pad)
		}
		c.borderPad = ptr(pad)
		return nil
	}
}

// WithSep 设置尺与文字之间的间距（pt）。
func WithSep(sep float64) Option {
	return func(c *config) error {
		if sep < 0 {
			return fmt.Errorf("%w: sep 不能为负数，实际 %g", ErrInvalidRange, sep)
		}
		c.sep = ptr(sep)
		return nil
	}
}

func WithFrameOn(on bool) Option {
	return func(c *config) error {
		c.frameOn = ptr(on)
		return nil
	}
}

// WithColor 设置尺与文字颜色。
func WithColor(color string) Option {
	return func(c *config) error {
		c.color = ptr(color)
		return nil
	}
}

// WithBoxColor 设置背景框颜色。
func WithBoxColor(color string) Option {
	return func(c *config) error {
		c.boxColor = ptr(color)
		return nil
	}
}

// WithBoxAlpha 设置背景框不透明度，取值 [0, 1]。
func WithBoxAlpha(alpha float64) Option {
	return func(c *config) error {
		if err := checkAlpha(alpha); err != nil {
			return err
		}
		c.boxAlpha = ptr(alpha)
		return nil
	}
}

// WithScaleLoc 设置刻度文本位置。单根尺接受 top/bottom/left/right/none，
// 双向尺接受 "upper left"、"lower center" 等。
func WithScaleLoc(loc string) Option {
	return func(c *config) error {
		c.eachAxis(func(a *axisConfig) { a.scaleLoc = ptr(loc) })
		return nil
	}
}

// WithLabelLoc 设置说明文字位置，取值同 WithScaleLoc。
func WithLabelLoc(loc string) Option {
	return func(c *config) error {
		c.eachAxis(func(a *axisConfig) { a.labelLoc = ptr(loc) })
		return nil
	}
}

// WithRotation 设置单根比例尺的方向。
func WithRotation(rotation string) Option {
	return func(c *config) error {
		if _, err := ParseRotation(rotation); err != nil {
			return err
		}
		c.rotation = ptr(rotation)
		return nil
	}
}

// WithScaleFormatter 替换刻度文本的格式。
func WithScaleFormatter(fn Formatter) Option {
	return func(c *config) error {
		c.formatter = fn
		return nil
	}
}

// WithFixedValue 固定比例尺数值，不再自动吸附。units 为空时使用标定单位。
func WithFixedValue(value float64, units string) Option {
	return func(c *config) error {
		if !(value > 0) {
			return fmt.Errorf("%w: fixed_value 必须为正数，实际 %g", ErrInvalidRange, value)
		}
		c.eachAxis(func(a *axisConfig) {
			a.fixedValue = ptr(value)
			a.fixedUnits = units
		})
		return nil
	}
}

// WithArrangement 设置双向比例尺两根尺相交的角。
func WithArrangement(arrangement string) Option {
	return func(c *config) error {
		if _, err := ParseArrangement(arrangement); err != nil {
			return err
		}
		c.arrangement = ptr(arrangement)
		return nil
	}
}

// WithFontSize 设置文字字号（pt），同时是 pad 与 border_pad 的计量单位。
func WithFontSize(size float64) Option {
	return func(c *config) error {
		if !(size > 0) {
			return fmt.Errorf("%w: font_size 必须为正数，实际 %g", ErrInvalidRange, size)
		}
		c.fontSize = ptr(size)
		return nil
	}
}

// ForAxis 只对双向比例尺的一根尺应用 opts 中的按轴选项
// （单位、物理量族、说明文字、长度比例、固定值、文本位置）。
func ForAxis(axis Axis, opts ...Option) Option {
	return func(c *config) error {
		if axis != AxisX && axis != AxisY {
			return fmt.Errorf("%w: 未知坐标轴 %d", ErrInvalidOption, int(axis))
		}
		if axis == AxisY {
			c.touchedY = true
		}
		prev := c.target
		c.target = []Axis{axis}
		defer func() { c.target = prev }()
		return c.apply(opts)
	}
}
