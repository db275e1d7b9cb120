package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/scalebar/dimension"
	"github.com/ByLCY/scalebar/scalebar"
)

var placeholder = regexp.MustCompile(`\$\{\s*([^}]*?)\s*\}`)

// Interpolate 替换说明文字中的 ${a.b[0]} 占位符。
// 无法解析的占位符原样保留，便于布局阶段给出警告。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		expr := placeholder.FindStringSubmatch(m)[1]
		steps, ok := compile(expr)
		if !ok {
			return m
		}
		if v, ok := steps.lookup(data); ok {
			return fmt.Sprint(v)
		}
		return m
	})
}

// ScaleFormatter 把模板转为刻度文本格式：${value} 与 ${unit} 在每次绘制时替换为数值与单位显示串，
// 其余占位符先用 data 解析。
func ScaleFormatter(template string, data any) scalebar.Formatter {
	prepared := Interpolate(template, data)
	return func(value float64, unit string) string {
		return Interpolate(prepared, map[string]any{
			"value": dimension.FormatValue(value),
			"unit":  unit,
		})
	}
}

// HasPlaceholders 报告文本中是否含有 ${...} 占位符。
func HasPlaceholders(text string) bool {
	return placeholder.MatchString(text)
}

// step 是路径中的一段：键名或下标。
type step struct {
	key   string
	index int
}

type path []step

// compile 把 sample.grid[1].name 拆为键与下标序列。
func compile(expr string) (path, bool) {
	if expr == "" {
		return nil, false
	}
	var p path
	for _, part := range strings.Split(expr, ".") {
		key, rest, _ := strings.Cut(part, "[")
		if key != "" {
			p = append(p, step{key: key, index: -1})
		} else if rest == "" {
			return nil, false
		}
		for rest != "" {
			idx, tail, found := strings.Cut(rest, "]")
			if !found {
				return nil, false
			}
			n, err := strconv.Atoi(idx)
			if err != nil || n < 0 {
				return nil, false
			}
			p = append(p, step{index: n})
			if tail == "" {
				break
			}
			if !strings.HasPrefix(tail, "[") {
				return nil, false
			}
			rest = tail[1:]
		}
	}
	return p, true
}

func (p path) lookup(data any) (any, bool) {
	cur := data
	for _, s := range p {
		var ok bool
		if s.index < 0 {
			cur, ok = field(cur, s.key)
		} else {
			cur, ok = element(cur, s.index)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func field(v any, key string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		out, ok := m[key]
		return out, ok
	case map[string]string:
		out, ok := m[key]
		return out, ok
	}
	return nil, false
}

func element(v any, i int) (any, bool) {
	switch s := v.(type) {
	case []any:
		if i < len(s) {
			return s[i], true
		}
	case []string:
		if i < len(s) {
			return s[i], true
		}
	}
	return nil, false
}
