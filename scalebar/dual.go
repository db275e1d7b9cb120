package scalebar

import "fmt"

// DualSettings 是双向比例尺校验后的全部参数。下标 0 为 x 轴，1 为 y 轴。
type DualSettings struct {
	Style
	X           AxisSettings        `json:"x"`
	Y           AxisSettings        `json:"y"`
	ScaleLoc    [2]AxisTextLocation `json:"scaleLoc"`
	LabelLoc    [2]AxisTextLocation `json:"labelLoc"`
	Arrangement Arrangement         `json:"arrangement"`
}

// DualInfo 是双向比例尺一次绘制的计算结果。
//
// BarWidthX 是竖直尺在 x 方向的粗细，BarWidthY 是水平尺在 y 方向的粗细，
// 后者乘以坐标区宽高比，使两根尺在纸面上一样粗。
type DualInfo struct {
	X         Info    `json:"x"`
	Y         Info    `json:"y"`
	BarWidthX float64 `json:"barWidthX"`
	BarWidthY float64 `json:"barWidthY"`
}

// DualScaleBar 在同一角上同时绘制水平与竖直两根比例尺。
type DualScaleBar struct {
	cfg      *config
	dx, dy   float64
	settings DualSettings
}

// NewDual 以 x、y 两个方向的像素标定创建双向比例尺。
func NewDual(dx, dy float64, opts ...Option) (*DualScaleBar, error) {
	c := newConfig()
	if err := c.apply(opts); err != nil {
		return nil, err
	}
	return buildDual(c, dx, dy)
}

// With 返回应用了额外选项的新双向比例尺。
func (db *DualScaleBar) With(opts ...Option) (*DualScaleBar, error) {
	c := db.cfg.clone()
	if err := c.apply(opts); err != nil {
		return nil, err
	}
	return buildDual(c, db.dx, db.dy)
}

func buildDual(c *config, dx, dy float64) (*DualScaleBar, error) {
	style, err := c.style()
	if err != nil {
		return nil, err
	}
	s := DualSettings{Style: style}
	if s.X, err = c.axis(AxisX, dx); err != nil {
		return nil, err
	}
	if s.Y, err = c.axis(AxisY, dy); err != nil {
		return nil, err
	}
	for _, axis := range []Axis{AxisX, AxisY} {
		ac := c.axes[axis]
		if s.ScaleLoc[axis], err = axisTextLocation(ac.scaleLoc, c.defaults.DualScaleLoc, axis); err != nil {
			return nil, fmt.Errorf("scale_loc: %w", err)
		}
		if s.LabelLoc[axis], err = axisTextLocation(ac.labelLoc, c.defaults.DualLabelLoc, axis); err != nil {
			return nil, fmt.Errorf("label_loc: %w", err)
		}
	}
	if s.Arrangement, err = ParseArrangement(pick(c.arrangement, c.defaults.Arrangement)); err != nil {
		return nil, err
	}
	return &DualScaleBar{cfg: c, dx: dx, dy: dy, settings: s}, nil
}

func axisTextLocation(v *string, defaults []string, axis Axis) (AxisTextLocation, error) {
	if v != nil {
		return ParseAxisTextLocation(*v)
	}
	pair, err := parseAxisPair("defaults", defaults)
	if err != nil {
		return AxisTextLocation{}, err
	}
	return pair[axis], nil
}

// Settings 返回校验后的参数。
func (db *DualScaleBar) Settings() DualSettings { return db.settings }

// Compute 独立解析两根尺。任一方向标定为 0 或范围为 0 时整体不绘制。
func (db *DualScaleBar) Compute(v View) (DualInfo, bool, error) {
	s := db.settings
	if s.X.Dx == 0 || s.Y.Dx == 0 {
		return DualInfo{}, false, nil
	}
	xExtent, yExtent := v.XExtent(), v.YExtent()
	if (xExtent == 0 && !s.X.Fixed) || (yExtent == 0 && !s.Y.Fixed) {
		return DualInfo{}, false, nil
	}

	var out DualInfo
	for _, axis := range []struct {
		settings AxisSettings
		extent   float64
		info     *Info
	}{
		{s.X, xExtent, &out.X},
		{s.Y, yExtent, &out.Y},
	} {
		r, err := axis.settings.Resolve(axis.extent)
		if err != nil {
			return DualInfo{}, false, err
		}
		display, text, err := axis.settings.ScaleText(s.Style, r)
		if err != nil {
			return DualInfo{}, false, err
		}
		*axis.info = Info{
			LengthPx:  r.LengthPx,
			Value:     r.Value,
			Units:     r.Unit,
			Display:   display,
			ScaleText: text,
			Label:     axis.settings.Label,
		}
	}
	out.Y.Vertical = true

	ratio := 1.0
	if v.Width > 0 && v.Height > 0 {
		ratio = v.Width / v.Height
	}
	out.BarWidthX = xExtent * s.WidthFraction
	out.BarWidthY = yExtent * s.WidthFraction * ratio
	out.X.BarWidthPx = out.BarWidthY
	out.Y.BarWidthPx = out.BarWidthX
	return out, true, nil
}
