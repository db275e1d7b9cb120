package dimension

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Family identifiers understood by Lookup.
const (
	FamilySILength           = "si-length"
	FamilySILengthReciprocal = "si-length-reciprocal"
	FamilyImperialLength     = "imperial-length"
	FamilyPixelLength        = "pixel-length"
	FamilyAngle              = "angle"
	FamilyTime               = "time"
	FamilyAstronomicalLength = "astronomical-length"
)

var (
	// ErrUnknownFamily 表示未注册的物理量族名称。
	ErrUnknownFamily = errors.New("unknown dimension")
	// ErrDuplicateFamily 表示物理量族名称已被占用。
	ErrDuplicateFamily = errors.New("dimension already registered")
	// ErrInvalidFamily 表示注册时缺少名称或工厂函数。
	ErrInvalidFamily = errors.New("invalid dimension registration")
)

// Factory 构造一个新的物理量族实例。
type Factory func() *Dimension

var (
	familiesMu sync.RWMutex
	families   = map[string]Factory{
		FamilySILength:           SILength,
		FamilySILengthReciprocal: SILengthReciprocal,
		FamilyImperialLength:     ImperialLength,
		FamilyPixelLength:        PixelLength,
		FamilyAngle:              Angle,
		FamilyTime:               Time,
		FamilyAstronomicalLength: AstronomicalLength,
	}
)

// Register 以 name 注册自定义物理量族。
func Register(name string, factory Factory) error {
	if name == "" || factory == nil {
		return fmt.Errorf("%w: 注册需要名称与工厂函数", ErrInvalidFamily)
	}
	familiesMu.Lock()
	defer familiesMu.Unlock()
	if _, ok := families[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFamily, name)
	}
	families[name] = factory
	return nil
}

// Lookup 按名称返回新的物理量族实例。
func Lookup(name string) (*Dimension, error) {
	familiesMu.RLock()
	factory, ok := families[name]
	familiesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s (known: %v)", ErrUnknownFamily, name, Families())
	}
	return factory(), nil
}

// Families 返回已注册名称（按字母排序）。
func Families() []string {
	familiesMu.RLock()
	defer familiesMu.RUnlock()
	out := make([]string, 0, len(families))
	for name := range families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
