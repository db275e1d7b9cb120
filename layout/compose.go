package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/scalebar/scalebar"
)

// Group 是一组已定位的比例尺元素（纸面坐标，mm）。Frame 在关闭背景框时为空。
type Group struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Frame  *Rect     `json:"frame,omitempty"`
	Bars   []Rect    `json:"bars"`
	Texts  []TextBox `json:"texts"`
}

// Rects 按绘制顺序返回背景框与尺。
func (g Group) Rects() []Rect {
	out := make([]Rect, 0, len(g.Bars)+1)
	if g.Frame != nil {
		out = append(out, *g.Frame)
	}
	return append(out, g.Bars...)
}

// View 把坐标区换算为比例尺计算所需的视图。
func (a Area) View() scalebar.View {
	return scalebar.View{
		XMin: a.XLim[0], XMax: a.XLim[1],
		YMin: a.YLim[0], YMax: a.YLim[1],
		Width: a.Width, Height: a.Height,
	}
}

// ComposeScaleBar 把单根比例尺的计算结果排成纸面元素：尺、刻度文本、说明文字与背景框。
// 竖直比例尺先按水平方向排好，再整体逆时针旋转 90°。
func ComposeScaleBar(info scalebar.Info, s scalebar.Settings, area Area, m Measurer) (Group, error) {
	if m == nil {
		return Group{}, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}
	colors, err := parseStyleColors(s.Style)
	if err != nil {
		return Group{}, err
	}

	sx, sy := area.MMPerUnitX(), area.MMPerUnitY()
	length, thickness := info.LengthPx*sx, info.BarWidthPx*sy
	if info.Vertical {
		length, thickness = info.LengthPx*sy, info.BarWidthPx*sx
	}
	sep := s.Sep * PtToMm

	core := block{w: length, h: thickness}
	core.rects = append(core.rects, barRect(0, 0, length, thickness, colors.fg))

	for _, t := range []struct {
		content string
		loc     scalebar.TextLocation
		role    string
	}{
		{info.ScaleText, s.ScaleLoc, "scale"},
		{info.Label, s.LabelLoc, "label"},
	} {
		if t.content == "" || t.loc == scalebar.TextNone {
			continue
		}
		tb, err := textBlock(m, t.content, s.FontSize, colors.fg, t.role)
		if err != nil {
			return Group{}, err
		}
		core = attach(core, tb, t.loc, sep)
	}

	if info.Vertical {
		core.rotate()
	}
	return finish(core, s.Style, area, colors), nil
}

// ComposeDualScaleBar 排列双向比例尺：两根尺在 Arrangement 指定的角相交，
// x 轴文本水平放在水平尺上下，y 轴文本旋转 90° 放在竖直尺左右。
func ComposeDualScaleBar(info scalebar.DualInfo, s scalebar.DualSettings, area Area, m Measurer) (Group, error) {
	if m == nil {
		return Group{}, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}
	colors, err := parseStyleColors(s.Style)
	if err != nil {
		return Group{}, err
	}

	sx, sy := area.MMPerUnitX(), area.MMPerUnitY()
	lx, ly := info.X.LengthPx*sx, info.Y.LengthPx*sy
	tx, ty := info.BarWidthY*sy, info.BarWidthX*sx
	sep := s.Sep * PtToMm
	arr := s.Arrangement

	xbar := barRect(0, 0, lx, tx, colors.fg)
	ybar := barRect(0, 0, ty, ly, colors.fg)
	if !arr.IsUpper() {
		xbar.Y = ly - tx
	}
	if arr.IsRight() {
		ybar.X = lx - ty
	}
	b := block{rects: []Rect{xbar, ybar}}

	// 同一侧的多段文本依次向外堆叠
	var stack [2]map[string]float64
	stack[scalebar.AxisX] = map[string]float64{}
	stack[scalebar.AxisY] = map[string]float64{}

	for _, axis := range []scalebar.Axis{scalebar.AxisX, scalebar.AxisY} {
		ai := info.X
		if axis == scalebar.AxisY {
			ai = info.Y
		}
		for _, t := range []struct {
			content string
			loc     scalebar.AxisTextLocation
			role    string
		}{
			{ai.ScaleText, s.ScaleLoc[axis], "scale"},
			{ai.Label, s.LabelLoc[axis], "label"},
		} {
			if t.content == "" || t.loc.None {
				continue
			}
			w, h, err := m.Measure(t.content, s.FontSize)
			if err != nil {
				return Group{}, fmt.Errorf("测量文本 %q 失败: %w", t.content, err)
			}
			offset := stack[axis][t.loc.Side]
			stack[axis][t.loc.Side] = offset + h + sep

			tb := TextBox{
				Content:  t.content,
				Width:    w,
				Height:   h,
				FontSize: s.FontSize,
				Color:    colors.fg,
				Role:     t.role,
			}
			if axis == scalebar.AxisX {
				x := alignAlong(xbar.X, lx, w, t.loc.Align)
				switch {
				case t.loc.Align == "left" && !arr.IsRight():
					x += ty + sep
				case t.loc.Align == "right" && arr.IsRight():
					x -= ty + sep
				}
				y := xbar.Y + tx + sep + offset
				if t.loc.Side == "upper" {
					y = xbar.Y - sep - h - offset
				}
				tb.CX, tb.CY = x+w/2, y+h/2
			} else {
				// 竖直文本自下而上阅读：left 对齐尺的下端，right 对齐上端。
				var y float64
				switch t.loc.Align {
				case "left":
					y = ybar.Y + ly - w
					if !arr.IsUpper() {
						y -= tx + sep
					}
				case "right":
					y = ybar.Y
					if arr.IsUpper() {
						y += tx + sep
					}
				default:
					y = ybar.Y + (ly-w)/2
				}
				x := ybar.X + ty + sep + offset
				if t.loc.Side == "upper" {
					x = ybar.X - sep - h - offset
				}
				tb.CX, tb.CY = x+h/2, y+w/2
				tb.Rotation = 90
			}
			b.texts = append(b.texts, tb)
		}
	}

	b.normalize()
	return finish(b, s.Style, area, colors), nil
}

func alignAlong(start, length, size float64, align string) float64 {
	switch align {
	case "left":
		return start
	case "right":
		return start + length - size
	default:
		return start + (length-size)/2
	}
}

type styleColors struct {
	fg, box Color
}

func parseStyleColors(s scalebar.Style) (styleColors, error) {
	fg, err := ParseColor(s.Color)
	if err != nil {
		return styleColors{}, fmt.Errorf("color: %w", err)
	}
	box, err := ParseColor(s.BoxColor)
	if err != nil {
		return styleColors{}, fmt.Errorf("box_color: %w", err)
	}
	return styleColors{fg: fg, box: box}, nil
}

func barRect(x, y, w, h float64, c Color) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h, FillColor: &c, Opacity: 1, Role: "bar"}
}

// finish 为块加上内边距与背景框，并按 Location 锚定到坐标区内。
func finish(b block, style scalebar.Style, area Area, colors styleColors) Group {
	fontMM := style.FontSize * PtToMm
	pad := style.Pad * fontMM
	b.translate(pad, pad)
	w, h := b.w+2*pad, b.h+2*pad

	x, y := anchor(area, style.Location, style.BBoxToAnchor, style.BorderPad*fontMM, w, h)
	b.translate(x, y)

	g := Group{X: x, Y: y, Width: w, Height: h, Bars: b.rects, Texts: b.texts}
	if style.FrameOn {
		box := colors.box
		g.Frame = &Rect{X: x, Y: y, Width: w, Height: h, FillColor: &box, Opacity: style.BoxAlpha, Role: "frame"}
	}
	return g
}

// anchor 返回尺寸为 w×h 的框左上角位置。给出 BBoxToAnchor 时，框的 loc 角对齐该点。
func anchor(area Area, loc scalebar.Location, at *scalebar.Anchor, borderPad, w, h float64) (float64, float64) {
	rx, ry, rw, rh := area.X, area.Y, area.Width, area.Height
	if at != nil {
		rx, ry = area.X+at.X*area.Width, area.Y+(1-at.Y)*area.Height
		rw, rh = 0, 0
	}
	var x, y float64
	switch {
	case loc.IsLeft():
		x = rx + borderPad
	case loc.IsRight():
		x = rx + rw - borderPad - w
	default:
		x = rx + (rw-w)/2
	}
	switch {
	case loc.IsUpper():
		y = ry + borderPad
	case loc.IsLower():
		y = ry + rh - borderPad - h
	default:
		y = ry + (rh-h)/2
	}
	return x, y
}

// block 是排版中的中间结果：局部坐标下的一组元素及其包围尺寸。
type block struct {
	w, h  float64
	rects []Rect
	texts []TextBox
}

func textBlock(m Measurer, content string, fontSize float64, c Color, role string) (block, error) {
	w, h, err := m.Measure(content, fontSize)
	if err != nil {
		return block{}, fmt.Errorf("测量文本 %q 失败: %w", content, err)
	}
	tb := TextBox{Content: content, CX: w / 2, CY: h / 2, Width: w, Height: h, FontSize: fontSize, Color: c, Role: role}
	return block{w: w, h: h, texts: []TextBox{tb}}, nil
}

func (b *block) translate(dx, dy float64) {
	for i := range b.rects {
		b.rects[i].X += dx
		b.rects[i].Y += dy
	}
	for i := range b.texts {
		b.texts[i].CX += dx
		b.texts[i].CY += dy
	}
}

// rotate 把块逆时针旋转 90°（y 轴向下时 (x, y) → (y, w-x)）。
func (b *block) rotate() {
	w := b.w
	for i, r := range b.rects {
		b.rects[i].X, b.rects[i].Y = r.Y, w-r.X-r.Width
		b.rects[i].Width, b.rects[i].Height = r.Height, r.Width
	}
	for i, t := range b.texts {
		b.texts[i].CX, b.texts[i].CY = t.CY, w-t.CX
		b.texts[i].Rotation = math.Mod(t.Rotation+90, 360)
	}
	b.w, b.h = b.h, b.w
}

// normalize 平移元素使包围盒左上角位于原点，并据此更新尺寸。
func (b *block) normalize() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	extend := func(x, y, w, h float64) {
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x+w), math.Max(maxY, y+h)
	}
	for _, r := range b.rects {
		extend(r.X, r.Y, r.Width, r.Height)
	}
	for _, t := range b.texts {
		extend(t.Bounds())
	}
	if math.IsInf(minX, 1) {
		return
	}
	b.translate(-minX, -minY)
	b.w, b.h = maxX-minX, maxY-minY
}

// attach 把 text 放在 core 的 loc 一侧并合并，两者在垂直于排列方向上居中。
func attach(core, text block, loc scalebar.TextLocation, sep float64) block {
	var w, h float64
	switch loc {
	case scalebar.TextTop, scalebar.TextBottom:
		w, h = math.Max(core.w, text.w), core.h+text.h+sep
		if loc == scalebar.TextTop {
			text.translate((w-text.w)/2, 0)
			core.translate((w-core.w)/2, text.h+sep)
		} else {
			core.translate((w-core.w)/2, 0)
			text.translate((w-text.w)/2, core.h+sep)
		}
	case scalebar.TextLeft, scalebar.TextRight:
		w, h = core.w+text.w+sep, math.Max(core.h, text.h)
		if loc == scalebar.TextLeft {
			text.translate(0, (h-text.h)/2)
			core.translate(text.w+sep, (h-core.h)/2)
		} else {
			core.translate(0, (h-core.h)/2)
			text.translate(core.w+sep, (h-text.h)/2)
		}
	default:
		return core
	}
	return block{
		w:     w,
		h:     h,
		rects: append(core.rects, text.rects...),
		texts: append(core.texts, text.texts...),
	}
}
