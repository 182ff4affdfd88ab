package layout

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Watermark  WatermarkOptions
	PageWidth  float64 // 页面宽度（mm），<=0 时使用 DefaultPageWidth
}

// WatermarkOptions 控制导出水印。
type WatermarkOptions struct {
	Disabled bool
	Text     string // 为空时使用 WatermarkText
}

// Typesetter 负责根据字体与宽度约束将文本拆成可绘制的行，并测量片段宽度。
// 所有长度均为毫米。
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64, wrap string) ([]TextLine, error)
	TextWidth(text string, font FontResource, fontSize float64) (float64, error)
}
