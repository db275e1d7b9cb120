package scalebar

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ByLCY/scalebar/dimension"
)

// preferredValues 是自动模式下比例尺数值可取的"整"数阶梯。
var preferredValues = []float64{1, 2, 5, 10, 15, 20, 25, 50, 75, 100, 125, 150, 200, 500, 750}

// PreferredValues 返回数值阶梯的副本。
func PreferredValues() []float64 {
	out := make([]float64, len(preferredValues))
	copy(out, preferredValues)
	return out
}

// rungTolerance 是判定数值落在阶梯值上的相对误差，用于吸收单位换算引入的浮点噪声。
const rungTolerance = 1e-9

// snap 返回阶梯中严格小于 value 的最大值；value 不大于最小阶梯值时取最小值。
// 与某个阶梯值相差在 rungTolerance 以内的 value 视为恰好等于该阶梯值。
func snap(value float64) float64 {
	for _, rung := range preferredValues {
		if scalar.EqualWithinRel(value, rung, rungTolerance) {
			value = rung
			break
		}
	}
	index := sort.SearchFloat64s(preferredValues, value)
	if index > 0 {
		index--
	}
	return preferredValues[index]
}

// Resolved 是一次解析的结果：像素长度与需要显示的数值、单位。
type Resolved struct {
	LengthPx float64 `json:"lengthPx"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

// BestLength 在自动模式下求比例尺长度：先把 lengthPx*dx 换成合适的单位，
// 再吸附到数值阶梯，并据此回算像素长度。
func BestLength(lengthPx, dx float64, dim *dimension.Dimension, unit string) (Resolved, error) {
	if dx == 0 {
		return Resolved{}, ErrZeroCalibration
	}
	if dx < 0 {
		return Resolved{}, fmt.Errorf("%w: 标定必须为正数，实际 %g", ErrInvalidRange, dx)
	}
	if lengthPx <= 0 {
		return Resolved{}, fmt.Errorf("%w: 像素长度必须为正数，实际 %g", ErrInvalidRange, lengthPx)
	}
	raw := lengthPx * dx
	value, newUnit, err := dim.Preferred(raw, unit)
	if err != nil {
		return Resolved{}, err
	}
	factor := raw / value
	snapped := snap(value)
	return Resolved{
		LengthPx: snapped * factor / dx,
		Value:    snapped,
		Unit:     newUnit,
	}, nil
}

// ExactLength 在固定模式下求比例尺长度：把 value（unit 单位）换算到标定单位后除以 dx。
// unit 为空时视为与 sourceUnit 相同。
func ExactLength(value float64, unit string, dx float64, dim *dimension.Dimension, sourceUnit string) (float64, error) {
	if dx == 0 {
		return 0, ErrZeroCalibration
	}
	if dx < 0 {
		return 0, fmt.Errorf("%w: 标定必须为正数，实际 %g", ErrInvalidRange, dx)
	}
	if unit == "" {
		unit = sourceUnit
	}
	converted, err := dim.Convert(value, unit, sourceUnit)
	if err != nil {
		return 0, err
	}
	return converted / dx, nil
}
