package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/scalebar/dimension"
)

// 纸面长度统一以毫米为内部单位，其他打印单位注册为 mm 物理量族的成员。

// Conversion constants between pt and mm.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
)

// PrintUnits 返回纸面长度的物理量族：基准单位 mm，另有 cm、in、pt、px（96 dpi）。
func PrintUnits() *dimension.Dimension {
	d := dimension.New("mm")
	for _, u := range []struct {
		symbol string
		factor float64
	}{{"cm", 10}, {"in", 25.4}, {"pt", PtToMm}, {"px", PxToMm}} {
		if err := d.AddUnit(u.symbol, u.factor, ""); err != nil {
			panic(err)
		}
	}
	return d
}

var printUnits = PrintUnits()

// Percent 表示相对参考长度的百分比，不属于 mm 物理量族。
const Percent = "%"

// Length preserves a numeric value with its unit. Unit 为空表示未写单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts this length to target unit. 未写单位的数值按 mm 处理。
func (l Length) To(target string) (float64, error) {
	from := l.Unit
	if from == "" {
		from = "mm"
	}
	if from == Percent {
		return 0, fmt.Errorf("百分比长度需要参考长度: %g%%", l.Value)
	}
	return printUnits.Convert(l.Value, from, target)
}

// Resolve 换算为毫米；百分比相对 reference（mm）计算。
func (l Length) Resolve(reference float64) (float64, error) {
	if l.Unit == Percent {
		return l.Value / 100 * reference, nil
	}
	return l.To("mm")
}

func (l Length) ToMM() float64 {
	v, err := l.To("mm")
	if err != nil {
		return l.Value
	}
	return v
}

func (l Length) ToPT() float64 {
	v, err := l.To("pt")
	if err != nil {
		return l.Value
	}
	return v
}

func (l Length) String() string {
	return dimension.FormatValue(l.Value) + l.Unit
}

// ParseLength 解析 "12pt"、"1.5in"、"-3mm"、"50%" 或纯数字。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	num, unit := v, ""
	if strings.HasSuffix(v, Percent) {
		num, unit = strings.TrimSuffix(v, Percent), Percent
	} else {
		for _, u := range printUnits.Units() {
			if strings.HasSuffix(v, u) {
				num, unit = strings.TrimSuffix(v, u), u
				break
			}
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
