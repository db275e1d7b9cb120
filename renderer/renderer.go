package renderer

import "github.com/ByLCY/scalebar/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF、SVG 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// TextRenderer 既能渲染，也能为布局阶段测量文本；CLI 用同一个实例完成两步，保证字体一致。
type TextRenderer interface {
	Renderer
	layout.Measurer
}
