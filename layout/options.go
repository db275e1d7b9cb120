package layout

import "github.com/ByLCY/scalebar/scalebar"

// BuildOptions 配置布局阶段所需的依赖，例如文本测量后端。
type BuildOptions struct {
	Measurer Measurer
	// Defaults 为空时使用 scalebar.NewDefaults()。
	Defaults *scalebar.Defaults
	Debug    DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Bars bool // 在结果中输出每根比例尺的解析记录
}

// Measurer 负责测量单行文本的尺寸。fontSize 为 pt，返回值为 mm。
type Measurer interface {
	Measure(text string, fontSize float64) (width, height float64, err error)
}
