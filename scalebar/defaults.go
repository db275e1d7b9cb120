package scalebar

import "fmt"

// Defaults 汇总所有可省略参数的默认值。构造比例尺时显式传入（WithDefaults），
// 未传入时使用 NewDefaults()；config 包负责从文件加载。
type Defaults struct {
	LengthFraction float64  `mapstructure:"length_fraction" json:"lengthFraction"`
	WidthFraction  float64  `mapstructure:"width_fraction" json:"widthFraction"`
	Location       string   `mapstructure:"location" json:"location"`
	Pad            float64  `mapstructure:"pad" json:"pad"`
	BorderPad      float64  `mapstructure:"border_pad" json:"borderPad"`
	Sep            float64  `mapstructure:"sep" json:"sep"`
	FrameOn        bool     `mapstructure:"frameon" json:"frameOn"`
	Color          string   `mapstructure:"color" json:"color"`
	BoxColor       string   `mapstructure:"box_color" json:"boxColor"`
	BoxAlpha       float64  `mapstructure:"box_alpha" json:"boxAlpha"`
	ScaleLoc       string   `mapstructure:"scale_loc" json:"scaleLoc"`
	LabelLoc       string   `mapstructure:"label_loc" json:"labelLoc"`
	Rotation       string   `mapstructure:"rotation" json:"rotation"`
	Arrangement    string   `mapstructure:"arrangement" json:"arrangement"`
	DualScaleLoc   []string `mapstructure:"dual_scale_loc" json:"dualScaleLoc"`
	DualLabelLoc   []string `mapstructure:"dual_label_loc" json:"dualLabelLoc"`
	FontSize       float64  `mapstructure:"font_size" json:"fontSize"`
}

// NewDefaults 返回内置默认值。
func NewDefaults() Defaults {
	return Defaults{
		LengthFraction: 0.2,
		WidthFraction:  0.01,
		Location:       "upper right",
		Pad:            0.2,
		BorderPad:      0.1,
		Sep:            5,
		FrameOn:        true,
		Color:          "#000000",
		BoxColor:       "#ffffff",
		BoxAlpha:       1.0,
		ScaleLoc:       string(TextBottom),
		LabelLoc:       string(TextTop),
		Rotation:       string(Horizontal),
		Arrangement:    string(ArrangeLowerLeft),
		DualScaleLoc:   []string{"lower center", "upper center"},
		DualLabelLoc:   []string{"upper center", "lower center"},
		FontSize:       10,
	}
}

// Validate 检查默认值本身是否合法，错误会指出字段名。
func (d Defaults) Validate() error {
	if err := checkFraction("length_fraction", d.LengthFraction); err != nil {
		return err
	}
	if err := checkFraction("width_fraction", d.WidthFraction); err != nil {
		return err
	}
	if err := checkAlpha(d.BoxAlpha); err != nil {
		return err
	}
	for _, f := range []struct {
		name  string
		value float64
	}{{"pad", d.Pad}, {"border_pad", d.BorderPad}, {"sep", d.Sep}} {
		if f.value < 0 {
			return fmt.Errorf("%w: %s 不能为负数，实际 %g", ErrInvalidRange, f.name, f.value)
		}
	}
	if d.FontSize <= 0 {
		return fmt.Errorf("%w: font_size 必须为正数，实际 %g", ErrInvalidRange, d.FontSize)
	}
	if _, err := ParseLocation(d.Location); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	if _, err := ParseTextLocation(d.ScaleLoc); err != nil {
		return fmt.Errorf("scale_loc: %w", err)
	}
	if _, err := ParseTextLocation(d.LabelLoc); err != nil {
		return fmt.Errorf("label_loc: %w", err)
	}
	if _, err := ParseRotation(d.Rotation); err != nil {
		return fmt.Errorf("rotation: %w", err)
	}
	if _, err := ParseArrangement(d.Arrangement); err != nil {
		return fmt.Errorf("arrangement: %w", err)
	}
	if _, err := parseAxisPair("dual_scale_loc", d.DualScaleLoc); err != nil {
		return err
	}
	if _, err := parseAxisPair("dual_label_loc", d.DualLabelLoc); err != nil {
		return err
	}
	return nil
}

func parseAxisPair(name string, values []string) ([2]AxisTextLocation, error) {
	var out [2]AxisTextLocation
	if len(values) != 2 {
		return out, fmt.Errorf("%w: %s 需要两个取值，实际 %d 个", ErrInvalidOption, name, len(values))
	}
	for i, v := range values {
		loc, err := ParseAxisTextLocation(v)
		if err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		out[i] = loc
	}
	return out, nil
}

func checkFraction(name string, v float64) error {
	if !(v > 0 && v <= 1) {
		return fmt.Errorf("%w: %s 必须在 (0, 1] 区间内，实际 %g", ErrInvalidRange, name, v)
	}
	return nil
}

func checkAlpha(v float64) error {
	if !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: box_alpha 必须在 [0, 1] 区间内，实际 %g", ErrInvalidRange, v)
	}
	return nil
}
