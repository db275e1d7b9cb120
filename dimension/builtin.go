package dimension

// 内置物理量族。每个工厂函数都返回新的实例，调用方可以继续追加单位。

type prefix struct {
	symbol string
	factor float64
}

// siPrefixes 保持固定顺序：µ 与 u 的系数相同，二分选择时取后注册的 u。
var siPrefixes = []prefix{
	{"Y", 1e24},
	{"Z", 1e21},
	{"E", 1e18},
	{"P", 1e15},
	{"T", 1e12},
	{"G", 1e9},
	{"M", 1e6},
	{"k", 1e3},
	{"d", 1e-1},
	{"c", 1e-2},
	{"m", 1e-3},
	{"µ", 1e-6},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
	{"f", 1e-15},
	{"a", 1e-18},
	{"z", 1e-21},
	{"y", 1e-24},
}

const (
	angstromSymbol = "A"
	angstromFactor = 1e-10
	microGlyph     = "µ"
	reciprocalMark = "⁻¹"
)

func isMicro(p prefix) bool { return p.symbol == "µ" || p.symbol == "u" }

// addPrefixed 为 base 追加全部 SI 前缀单位；µ 与 u 都显示为 µ。
func addPrefixed(d *Dimension, base string) {
	for _, p := range siPrefixes {
		display := ""
		if isMicro(p) {
			display = microGlyph + base
		}
		d.mustAdd(p.symbol+base, p.factor, display)
	}
}

// SILength 返回以米为基准的长度量族（含埃 Å）。
func SILength() *Dimension {
	d := New("m")
	addPrefixed(d, "m")
	d.mustAdd(angstromSymbol, angstromFactor, "Å")
	return d
}

// SILengthReciprocal 返回以 1/m 为基准的倒数长度量族，系数为前缀系数的倒数。
func SILengthReciprocal() *Dimension {
	d := New("1/m", WithDisplay("m"+reciprocalMark))
	for _, p := range siPrefixes {
		display := p.symbol + "m" + reciprocalMark
		if isMicro(p) {
			display = microGlyph + "m" + reciprocalMark
		}
		d.mustAdd("1/"+p.symbol+"m", 1/p.factor, display)
		if p.symbol == "n" {
			d.mustAdd("1/"+angstromSymbol, 1/angstromFactor, "Å"+reciprocalMark)
		}
	}
	return d
}

// ImperialLength 返回以英尺为基准的英制长度量族。
func ImperialLength() *Dimension {
	d := New("ft")
	d.mustAdd("th", 1.0/12000, "")
	d.mustAdd("in", 1.0/12, "")
	d.mustAdd("yd", 3, "")
	d.mustAdd("ch", 66, "")
	d.mustAdd("fur", 660, "")
	d.mustAdd("mi", 5280, "")
	d.mustAdd("lea", 15840, "")
	return d
}

// PixelLength 返回以像素为基准的量族，只包含不小于 1 的前缀。
func PixelLength() *Dimension {
	d := New("px")
	for _, p := range siPrefixes {
		if p.factor < 1 {
			continue
		}
		d.mustAdd(p.symbol+"px", p.factor, "")
	}
	return d
}

// Angle 返回以度为基准的角度量族；标注中数值与符号之间没有空格。
func Angle() *Dimension {
	d := New("deg",
		WithDisplay("°"),
		WithLabelFormatter(func(value float64, display string) string {
			return FormatValue(value) + display
		}),
	)
	d.mustAdd("'", 1.0/60, "′")
	d.mustAdd("''", 1.0/3600, "″")
	return d
}

// Time 返回以秒为基准的时间量族。
func Time() *Dimension {
	d := New("s")
	addPrefixed(d, "s")
	return d
}

// AstronomicalLength 返回以秒差距为基准的天文长度量族。
func AstronomicalLength() *Dimension {
	d := New("pc")
	addPrefixed(d, "pc")
	d.mustAdd("ly", 0.30659485, "")
	d.mustAdd("AU", 4.84813681e-06, "")
	return d
}
