package scalebar

import (
	"fmt"
	"strconv"
	"strings"
)

// Location 是比例尺框在坐标区内的锚定位置，编号与图例位置编码一致。
type Location int

const (
	UpperRight Location = iota + 1
	UpperLeft
	LowerLeft
	LowerRight
	Right
	CenterLeft
	CenterRight
	LowerCenter
	UpperCenter
	Center
)

var locationNames = map[string]Location{
	"upper right":  UpperRight,
	"upper left":   UpperLeft,
	"lower left":   LowerLeft,
	"lower right":  LowerRight,
	"right":        Right,
	"center left":  CenterLeft,
	"center right": CenterRight,
	"lower center": LowerCenter,
	"upper center": UpperCenter,
	"center":       Center,
}

// normalizeName 统一大小写、连字符与 centre 拼写，使 "Lower-Right" 与 "lower right" 等价。
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ", "centre", "center").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// ParseLocation 解析位置名称或 1..10 的位置编码。
func ParseLocation(s string) (Location, error) {
	name := normalizeName(s)
	if loc, ok := locationNames[name]; ok {
		return loc, nil
	}
	if code, err := strconv.Atoi(name); err == nil && code >= int(UpperRight) && code <= int(Center) {
		return Location(code), nil
	}
	return 0, fmt.Errorf("%w: 未知位置 %q", ErrInvalidOption, s)
}

func (l Location) String() string {
	for name, loc := range locationNames {
		if loc == l {
			return name
		}
	}
	return "Location(" + strconv.Itoa(int(l)) + ")"
}

// IsUpper / IsLower / IsLeft / IsRight 描述锚点所在的边。
func (l Location) IsUpper() bool { return l == UpperRight || l == UpperLeft || l == UpperCenter }
func (l Location) IsLower() bool { return l == LowerLeft || l == LowerRight || l == LowerCenter }
func (l Location) IsLeft() bool  { return l == UpperLeft || l == LowerLeft || l == CenterLeft }
func (l Location) IsRight() bool {
	return l == UpperRight || l == LowerRight || l == Right || l == CenterRight
}

// TextLocation 是刻度文本或标签相对于单根比例尺的位置。
type TextLocation string

const (
	TextTop    TextLocation = "top"
	TextBottom TextLocation = "bottom"
	TextLeft   TextLocation = "left"
	TextRight  TextLocation = "right"
	TextNone   TextLocation = "none"
)

// ParseTextLocation 解析 top/bottom/left/right/none。
func ParseTextLocation(s string) (TextLocation, error) {
	switch loc := TextLocation(normalizeName(s)); loc {
	case TextTop, TextBottom, TextLeft, TextRight, TextNone:
		return loc, nil
	}
	return "", fmt.Errorf("%w: 未知文本位置 %q", ErrInvalidOption, s)
}

// Rotation 决定比例尺沿 x 轴（horizontal）还是 y 轴（vertical）测量。
// 带 -only 后缀的取值在坐标轴纵横比不一致时不做提示。
type Rotation string

const (
	Horizontal     Rotation = "horizontal"
	Vertical       Rotation = "vertical"
	HorizontalOnly Rotation = "horizontal-only"
	VerticalOnly   Rotation = "vertical-only"
)

// ParseRotation 解析旋转名称。
func ParseRotation(s string) (Rotation, error) {
	r := Rotation(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case Horizontal, Vertical, HorizontalOnly, VerticalOnly:
		return r, nil
	}
	return "", fmt.Errorf("%w: 未知旋转 %q", ErrInvalidOption, s)
}

func (r Rotation) IsVertical() bool { return r == Vertical || r == VerticalOnly }
func (r Rotation) ChecksAspect() bool { return r == Horizontal || r == Vertical }

// Arrangement 是双向比例尺两根尺相交的角。
type Arrangement string

const (
	ArrangeLowerLeft  Arrangement = "lower left"
	ArrangeLowerRight Arrangement = "lower right"
	ArrangeUpperRight Arrangement = "upper right"
	ArrangeUpperLeft  Arrangement = "upper left"
)

// ParseArrangement 解析双向比例尺的拐角位置。
func ParseArrangement(s string) (Arrangement, error) {
	switch a := Arrangement(normalizeName(s)); a {
	case ArrangeLowerLeft, ArrangeLowerRight, ArrangeUpperRight, ArrangeUpperLeft:
		return a, nil
	}
	return "", fmt.Errorf("%w: 未知排列 %q", ErrInvalidOption, s)
}

func (a Arrangement) IsUpper() bool { return a == ArrangeUpperLeft || a == ArrangeUpperRight }
func (a Arrangement) IsRight() bool { return a == ArrangeUpperRight || a == ArrangeLowerRight }

// AxisTextLocation 是双向比例尺中文本相对于各自尺的位置：
// upper/lower 表示尺的哪一侧，left/center/right 表示沿尺方向的对齐。
type AxisTextLocation struct {
	Side  string // "upper" | "lower"
	Align string // "left" | "center" | "right"
	None  bool
}

// ParseAxisTextLocation 解析 "upper left"、"lower centre"、"none" 等取值。
func ParseAxisTextLocation(s string) (AxisTextLocation, error) {
	name := normalizeName(s)
	if name == "none" {
		return AxisTextLocation{None: true}, nil
	}
	parts := strings.Fields(name)
	if len(parts) == 2 && (parts[0] == "upper" || parts[0] == "lower") {
		switch parts[1] {
		case "left", "center", "right":
			return AxisTextLocation{Side: parts[0], Align: parts[1]}, nil
		}
	}
	return AxisTextLocation{}, fmt.Errorf("%w: 未知文本位置 %q", ErrInvalidOption, s)
}

func (l AxisTextLocation) String() string {
	if l.None {
		return "none"
	}
	return l.Side + " " + l.Align
}
