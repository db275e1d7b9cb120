package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"
	"gonum.org/v1/plot"

	"github.com/ByLCY/scalebar/fonts"
	"github.com/ByLCY/scalebar/layout"
	"github.com/ByLCY/scalebar/renderer"
)

const defaultStrokeWidth = 0.2

// Format 是输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// FormatFromPath 根据扩展名推断输出格式。
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "pdf", "svg", "png":
		return Format(ext), nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可用：pdf、svg、png）", ext)
	}
}

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var (
	_ renderer.Renderer     = (*Renderer)(nil)
	_ renderer.TextRenderer = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  Format
	// Font 为 "embed:<name>" 或相对 BaseDir 的字体文件路径，为空时使用 fonts.Default。
	Font string
	// DPMM 是 PNG 输出的分辨率（点/毫米）。
	DPMM float64
}

// NewRenderer creates a PDF renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with explicit options.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatPDF
	}
	if opts.DPMM <= 0 {
		opts.DPMM = 8
	}
	return &Renderer{opts: opts}
}

// Render renders the result into the configured format.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("图的尺寸无效：%gx%gmm", result.Width, result.Height)
	}

	c := canvas.New(result.Width, result.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	r.drawAxes(ctx, result.Axes)
	r.drawRects(ctx, result.Rects)
	r.drawLines(ctx, result.Lines)
	for _, tb := range result.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return nil, err
		}
	}

	return r.encode(c, result.Meta)
}

// RenderPlot 通过 canvas 的 gonum/plot 适配器输出整张 plot 图，width/height 为 mm。
func (r *Renderer) RenderPlot(p *plot.Plot, width, height float64) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("plot 为空")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("图的尺寸无效：%gx%gmm", width, height)
	}
	c := canvas.New(width, height)
	p.Draw(renderers.NewGonumPlot(c))
	return r.encode(c, layout.DocumentMeta{Title: p.Title.Text})
}

func (r *Renderer) encode(c *canvas.Canvas, meta layout.DocumentMeta) ([]byte, error) {
	var buf bytes.Buffer
	switch r.opts.Format {
	case FormatPDF:
		writer := pdf.New(&buf, c.W, c.H, nil)
		applyMeta(writer, meta)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatSVG:
		if err := svg.Writer(&buf, c); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPNG:
		if err := renderers.PNG(canvas.DPMM(r.opts.DPMM))(&buf, c); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.opts.Format)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// Measure 实现 layout.Measurer：fontSize 为 pt，返回的宽高为 mm。
func (r *Renderer) Measure(text string, fontSize float64) (float64, float64, error) {
	face, err := r.fontFace(fontSize, layout.Color{})
	if err != nil {
		return 0, 0, err
	}
	return face.TextWidth(text), face.Metrics().LineHeight, nil
}

func (r *Renderer) drawAxes(ctx *canvas.Context, axes []layout.AxesBox) {
	for _, ax := range axes {
		a := ax.Area
		rc := layout.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height, FillColor: ax.Background, Opacity: 1}
		if ax.FrameWidth > 0 {
			frame := ax.FrameColor
			rc.StrokeColor = &frame
			rc.StrokeWidth = ax.FrameWidth
		}
		r.drawRects(ctx, []layout.Rect{rc})
	}
}

// drawRects 绘制矩形；描边与填充任一为空时跳过对应部分。
func (r *Renderer) drawRects(ctx *canvas.Context, rects []layout.Rect) {
	for _, rc := range rects {
		if rc.FillColor == nil && rc.StrokeColor == nil {
			continue
		}
		ctx.SetFillColor(canvas.Transparent)
		if rc.FillColor != nil {
			ctx.SetFillColor(colorFromLayout(*rc.FillColor, rc.Opacity))
		}
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetStrokeWidth(0)
		if rc.StrokeColor != nil {
			w := rc.StrokeWidth
			if w <= 0 {
				w = defaultStrokeWidth
			}
			ctx.SetStrokeColor(colorFromLayout(*rc.StrokeColor, 1))
			ctx.SetStrokeWidth(w)
		}
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(colorFromLayout(ln.Color, 1))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

// drawTextBox 以文本框中心为锚点绘制单行文本；Rotation 为逆时针角度。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	face, err := r.fontFace(tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	// 字形上升部与下降部关于中心对称放置
	baseline := tb.CY + (metrics.Ascent-metrics.Descent)/2
	line := canvas.NewTextLine(face, tb.Content, canvas.Center)

	ctx.Push()
	if tb.Rotation != 0 {
		// y 轴向下，视觉上的逆时针对应负角度
		ctx.RotateAbout(-tb.Rotation, tb.CX, tb.CY)
	}
	ctx.DrawText(tb.CX, baseline, line)
	ctx.Pop()
	return nil
}

// fontFace 按 pt 字号创建字体面。
func (r *Renderer) fontFace(sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col, 1), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}

	data, err := r.loadFontBytes()
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("scalebar")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	r.family = family
	return family, nil
}

func (r *Renderer) loadFontBytes() ([]byte, error) {
	src := r.opts.Font
	if src == "" || strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.opts.BaseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", src)
		}
		path = filepath.Join(r.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func colorFromLayout(c layout.Color, alpha float64) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, alpha)
}
