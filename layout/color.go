package layout

import (
	"fmt"
	"strconv"
	"strings"
)

var namedColors = map[string]Color{
	"k": {0, 0, 0}, "black": {0, 0, 0},
	"w": {255, 255, 255}, "white": {255, 255, 255},
	"r": {255, 0, 0}, "red": {255, 0, 0},
	"g": {0, 128, 0}, "green": {0, 128, 0},
	"b": {0, 0, 255}, "blue": {0, 0, 255},
	"c": {0, 191, 191}, "cyan": {0, 255, 255},
	"m": {191, 0, 191}, "magenta": {255, 0, 255},
	"y": {191, 191, 0}, "yellow": {255, 255, 0},
	"gray": {128, 128, 128}, "grey": {128, 128, 128},
}

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa（忽略透明度）或常用颜色名（含单字母简写）。
func ParseColor(value string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		return Color{}, fmt.Errorf("无法识别的颜色 %q", value)
	}
	hex := strings.TrimPrefix(v, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("颜色长度不正确 %q", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无法解析颜色 %q: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
