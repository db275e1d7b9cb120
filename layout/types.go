package layout

import "math"

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。所有长度单位均为 mm，
// 坐标原点在图的左上角，y 轴向下。

// Result 保存一张图布局后的全部元素。
type Result struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Axes   []AxesBox    `json:"axes"`
	Rects  []Rect       `json:"rects,omitempty"`
	Texts  []TextBox    `json:"texts,omitempty"`
	Lines  []Line       `json:"lines,omitempty"`
	Bars   []BarDebug   `json:"bars,omitempty"`
	Meta   DocumentMeta `json:"meta"`
}

// AxesBox 是一个坐标区：纸面上的矩形及其数据范围。
type AxesBox struct {
	Name       string  `json:"name,omitempty"`
	Area       Area    `json:"area"`
	Background *Color  `json:"background,omitempty"`
	FrameColor Color   `json:"frameColor"`
	FrameWidth float64 `json:"frameWidth"`
}

// Area 描述坐标区的纸面位置与数据范围。XLim/YLim 按 [起点, 终点] 保存，允许反向。
type Area struct {
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	XLim   [2]float64 `json:"xlim"`
	YLim   [2]float64 `json:"ylim"`
}

// MMPerUnitX 返回 x 方向每个数据单位对应的毫米数。
func (a Area) MMPerUnitX() float64 {
	if d := math.Abs(a.XLim[1] - a.XLim[0]); d > 0 {
		return a.Width / d
	}
	return 0
}

// MMPerUnitY 返回 y 方向每个数据单位对应的毫米数。
func (a Area) MMPerUnitY() float64 {
	if d := math.Abs(a.YLim[1] - a.YLim[0]); d > 0 {
		return a.Height / d
	}
	return 0
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// TextBox 表示一个已经定位的单行文本。CX/CY 为文本框中心，Width/Height 为未旋转时的尺寸，
// Rotation 为逆时针角度（0 或 90）。
type TextBox struct {
	Content  string  `json:"content"`
	CX       float64 `json:"cx"`
	CY       float64 `json:"cy"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
	FontSize float64 `json:"fontSize"` // pt
	Color    Color   `json:"color"`
	Role     string  `json:"role,omitempty"` // scale | label | title
}

// Bounds 返回旋转后文本在纸面上占据的矩形。
func (tb TextBox) Bounds() (x, y, w, h float64) {
	w, h = tb.Width, tb.Height
	if math.Mod(math.Abs(tb.Rotation), 180) == 90 {
		w, h = h, w
	}
	return tb.CX - w/2, tb.CY - h/2, w, h
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// Rect 表示一个矩形（不包含圆角）。
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor *Color  `json:"strokeColor,omitempty"` // 为空表示不描边
	StrokeWidth float64 `json:"strokeWidth"`           // mm
	FillColor   *Color  `json:"fillColor,omitempty"`   // 为空表示不填充
	Opacity     float64 `json:"opacity"`               // 填充不透明度，0..1
	Role        string  `json:"role,omitempty"`        // frame | bar
}

// BarDebug 记录一根比例尺的解析结果，便于在调试 JSON 中核对。
type BarDebug struct {
	Axes      string  `json:"axes,omitempty"`
	Kind      string  `json:"kind"` // scalebar | dual-scalebar/x | dual-scalebar/y
	LengthPx  float64 `json:"lengthPx"`
	LengthMM  float64 `json:"lengthMM"`
	Value     float64 `json:"value"`
	Units     string  `json:"units"`
	ScaleText string  `json:"scaleText"`
	Label     string  `json:"label,omitempty"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
