package dimension

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

// 该文件定义物理量族（长度、角度、时间等）的单位表与换算。

var (
	// ErrUnknownUnit 表示单位不在该物理量族的单位表中。
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrDuplicateUnit 表示重复注册同名单位。
	ErrDuplicateUnit = errors.New("unit already defined")
	// ErrInvalidFactor 表示非基准单位的换算系数等于 1，与基准单位无法区分。
	ErrInvalidFactor = errors.New("factor cannot be equal to 1")
)

// LabelFormatter 根据数值与单位显示串生成标注文本。
type LabelFormatter func(value float64, display string) string

// Option 在构造 Dimension 时调整基准单位的显示或标注格式。
type Option func(*Dimension)

// WithDisplay 设置基准单位的显示串（默认与单位符号相同）。
func WithDisplay(display string) Option {
	return func(d *Dimension) {
		if display != "" {
			d.display[d.base] = display
		}
	}
}

// WithLabelFormatter 替换默认的 "<value> <unit>" 标注格式。
func WithLabelFormatter(fn LabelFormatter) Option {
	return func(d *Dimension) {
		if fn != nil {
			d.formatter = fn
		}
	}
}

// Dimension 描述一个物理量族：一个基准单位以及若干可换算的单位。
// factor * 单位值 = 基准单位值；基准单位的 factor 固定为 1。
//
// 单位表在初始化后通常只读；并发解析时不要同时调用 AddUnit。
type Dimension struct {
	mu        sync.RWMutex
	base      string
	order     []string
	factors   map[string]float64
	display   map[string]string
	formatter LabelFormatter
}

// New 创建只包含基准单位的物理量族。
func New(baseUnit string, opts ...Option) *Dimension {
	d := &Dimension{
		base:    baseUnit,
		order:   []string{baseUnit},
		factors: map[string]float64{baseUnit: 1.0},
		display: map[string]string{baseUnit: baseUnit},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BaseUnit 返回基准单位符号。
func (d *Dimension) BaseUnit() string { return d.base }

// AddUnit 注册新单位。display 为空时使用单位符号本身。
func (d *Dimension) AddUnit(symbol string, factor float64, display string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.factors[symbol]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, symbol)
	}
	if factor == 1 {
		return fmt.Errorf("%w: %s", ErrInvalidFactor, symbol)
	}
	if display == "" {
		display = symbol
	}
	d.factors[symbol] = factor
	d.display[symbol] = display
	d.order = append(d.order, symbol)
	return nil
}

// mustAdd is used by the built-in families whose tables are known to be valid.
func (d *Dimension) mustAdd(symbol string, factor float64, display string) {
	if err := d.AddUnit(symbol, factor, display); err != nil {
		panic(err)
	}
}

// IsValidUnit 仅当单位同时存在于换算表与显示表中时返回 true。
func (d *Dimension) IsValidUnit(symbol string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, hasFactor := d.factors[symbol]
	_, hasDisplay := d.display[symbol]
	return hasFactor && hasDisplay
}

// Units 按注册顺序返回全部单位符号。
func (d *Dimension) Units() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Factor 返回单位到基准单位的换算系数。
func (d *Dimension) Factor(unit string) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.factors[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUnit, unit)
	}
	return f, nil
}

// Convert 将 value 从 from 单位换算到 to 单位。
func (d *Dimension) Convert(value float64, from, to string) (float64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ff, ok := d.factors[from]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUnit, from)
	}
	ft, ok := d.factors[to]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownUnit, to)
	}
	return value * ff / ft, nil
}

// Display 返回单位的显示串。
func (d *Dimension) Display(unit string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.display[unit]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownUnit, unit)
	}
	return s, nil
}

// FormatLabel 生成标注文本，默认格式为 "<value> <display>"。
func (d *Dimension) FormatLabel(value float64, display string) string {
	if d.formatter != nil {
		return d.formatter(value, display)
	}
	return FormatValue(value) + " " + display
}

// FormatValue 以最短的精确十进制形式输出数值（2 而不是 2.0）。
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

type unitFactor struct {
	unit   string
	factor float64
}

// Preferred 将 value 重新表达为不使数值小于 1 的最大单位，例如 2000 m → 2 km。
// 当数值小于所有单位的系数时，原样返回 (value, unit)。
func (d *Dimension) Preferred(value float64, unit string) (float64, string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, ok := d.factors[unit]
	if !ok {
		return 0, "", fmt.Errorf("%w: %s", ErrUnknownUnit, unit)
	}
	baseValue := value * f

	ladder := make([]unitFactor, 0, len(d.order))
	for _, u := range d.order {
		ladder = append(ladder, unitFactor{unit: u, factor: d.factors[u]})
	}
	// 系数相同的单位（µm 与 um）保持注册顺序，二分时取靠后的那个。
	sort.SliceStable(ladder, func(i, j int) bool { return ladder[i].factor < ladder[j].factor })

	index := sort.Search(len(ladder), func(i int) bool { return ladder[i].factor > baseValue })
	if index == 0 {
		return value, unit, nil
	}
	chosen := ladder[index-1]
	return baseValue / chosen.factor, chosen.unit, nil
}
