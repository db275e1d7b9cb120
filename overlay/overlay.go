// Package overlay 把比例尺画进 gonum/plot 图的数据区。
package overlay

import (
	"image/color"
	"math"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ByLCY/scalebar/layout"
	"github.com/ByLCY/scalebar/scalebar"
)

// ScaleBar 实现 plot.Plotter。每次绘制时按当前坐标范围重新求比例尺，
// 因此缩放或修改 X/Y 范围后再次保存即可得到新的尺。
type ScaleBar struct {
	bar  *scalebar.ScaleBar
	dual *scalebar.DualScaleBar

	// Font 为文本字体，字号由比例尺的 FontSize 决定。
	Font font.Font
}

var _ plot.Plotter = (*ScaleBar)(nil)

// New 包装单根比例尺。
func New(sb *scalebar.ScaleBar) *ScaleBar {
	return &ScaleBar{bar: sb, Font: plot.DefaultFont}
}

// NewDual 包装双向比例尺。
func NewDual(db *scalebar.DualScaleBar) *ScaleBar {
	return &ScaleBar{dual: db, Font: plot.DefaultFont}
}

// Plot implements plot.Plotter.
func (s *ScaleBar) Plot(c draw.Canvas, plt *plot.Plot) {
	handler := plt.TextHandler
	if handler == nil {
		handler = plot.DefaultTextHandler
	}
	m := measurer{font: s.Font, handler: handler}
	area := dataArea(c, plt)

	group, ok, err := s.compose(area, m)
	if err != nil {
		log.WithError(err).Warn("比例尺绘制失败")
		return
	}
	if !ok {
		return
	}
	drawGroup(c, group, m)
}

func (s *ScaleBar) compose(area layout.Area, m measurer) (layout.Group, bool, error) {
	view := area.View()
	if s.dual != nil {
		info, ok, err := s.dual.Compute(view)
		if err != nil || !ok {
			return layout.Group{}, ok, err
		}
		g, err := layout.ComposeDualScaleBar(info, s.dual.Settings(), area, m)
		return g, err == nil, err
	}
	if s.bar == nil {
		return layout.Group{}, false, nil
	}
	info, ok, err := s.bar.Compute(view)
	if err != nil || !ok {
		return layout.Group{}, ok, err
	}
	if info.AspectMismatch {
		log.WithField("rotation", s.bar.Settings().Rotation).
			Warn("坐标区纵横比不一致；请使用 horizontal-only / vertical-only")
	}
	g, err := layout.ComposeScaleBar(info, s.bar.Settings(), area, m)
	return g, err == nil, err
}

// dataArea 把数据区画布换算成 mm 坐标区，原点在数据区左上角。
func dataArea(c draw.Canvas, plt *plot.Plot) layout.Area {
	return layout.Area{
		Width:  float64(c.Max.X-c.Min.X) * layout.PtToMm,
		Height: float64(c.Max.Y-c.Min.Y) * layout.PtToMm,
		XLim:   [2]float64{plt.X.Min, plt.X.Max},
		YLim:   [2]float64{plt.Y.Max, plt.Y.Min},
	}
}

// toPoint 把 mm 坐标（y 轴向下）换算为画布坐标（pt，y 轴向上）。
func toPoint(c draw.Canvas, x, y float64) vg.Point {
	return vg.Point{
		X: c.Min.X + vg.Length(x*layout.MmToPt),
		Y: c.Max.Y - vg.Length(y*layout.MmToPt),
	}
}

func drawGroup(c draw.Canvas, g layout.Group, m measurer) {
	for _, r := range g.Rects() {
		if r.FillColor == nil {
			continue
		}
		c.FillPolygon(toColor(*r.FillColor, r.Opacity), []vg.Point{
			toPoint(c, r.X, r.Y),
			toPoint(c, r.X+r.Width, r.Y),
			toPoint(c, r.X+r.Width, r.Y+r.Height),
			toPoint(c, r.X, r.Y+r.Height),
		})
	}
	for _, tb := range g.Texts {
		sty := m.style(tb.FontSize)
		sty.Color = toColor(tb.Color, 1)
		sty.Rotation = tb.Rotation * math.Pi / 180
		sty.XAlign = text.XCenter
		sty.YAlign = text.YCenter
		c.FillText(sty, toPoint(c, tb.CX, tb.CY), tb.Content)
	}
}

func toColor(c layout.Color, alpha float64) color.Color {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: uint8(math.Round(alpha * 255))}
}

// measurer 用 plot 的文本处理器测量文本，实现 layout.Measurer。
type measurer struct {
	font    font.Font
	handler text.Handler
}

func (m measurer) style(fontSize float64) text.Style {
	f := m.font
	f.Size = vg.Points(fontSize)
	return text.Style{Font: f, Handler: m.handler}
}

func (m measurer) Measure(txt string, fontSize float64) (float64, float64, error) {
	sty := m.style(fontSize)
	return float64(sty.Width(txt)) * layout.PtToMm, float64(sty.Height(txt)) * layout.PtToMm, nil
}
