// Package config 从文件与环境变量加载比例尺默认值。
//
// 文件中的键位于 scalebar 段落下，例如 TOML：
//
//	[scalebar]
//	length_fraction = 0.25
//	location = "lower left"
//
// 环境变量 SCALEBAR_LENGTH_FRACTION 等覆盖文件中的同名键。
package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/ByLCY/scalebar/scalebar"
)

// Section 是默认值所在的顶层键。
const Section = "scalebar"

type file struct {
	ScaleBar scalebar.Defaults `mapstructure:"scalebar"`
}

// New 返回预置了内置默认值并启用环境变量覆盖的 viper 实例。
func New() *viper.Viper {
	v := viper.New()
	var defaults map[string]interface{}
	if err := mapstructure.Decode(scalebar.NewDefaults(), &defaults); err != nil {
		panic(err)
	}
	for key, value := range defaults {
		v.SetDefault(Section+"."+key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load 读取 path 指定的默认值文件（TOML、YAML 或 JSON，按扩展名识别）。
// path 为空时只使用内置默认值与环境变量。
func Load(path string) (scalebar.Defaults, error) {
	return LoadWith(New(), path)
}

// LoadWith 与 Load 相同，但使用调用方提供的 viper 实例（例如已绑定命令行参数）。
func LoadWith(v *viper.Viper, path string) (scalebar.Defaults, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return scalebar.Defaults{}, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
	}
	var f file
	if err := v.Unmarshal(&f); err != nil {
		return scalebar.Defaults{}, fmt.Errorf("解析比例尺默认值失败: %w", err)
	}
	if err := f.ScaleBar.Validate(); err != nil {
		return scalebar.Defaults{}, fmt.Errorf("比例尺默认值无效: %w", err)
	}
	return f.ScaleBar, nil
}

// Key 返回某个默认值字段在 viper 中的完整键名，便于绑定命令行参数。
func Key(field string) string {
	return Section + "." + field
}
