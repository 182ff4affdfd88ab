package layout

// 该文件定义布局结果，供布局计算、渲染与调试 JSON 共用。坐标与长度均为毫米，原点在页面左上角。

// Result 保存布局后的页面与资源信息。
type Result struct {
	Pages     []Page       `json:"pages"`
	Resources ResourceSet  `json:"resources"`
	Meta      DocumentMeta `json:"meta"`
}

// ResourceSet 记录页面引用到的字体。
type ResourceSet struct {
	Fonts map[string]FontResource `json:"fonts"`
}

// FontResource 描述字体资源，src 为 fonts 包的内置名称（embed:*）或文件路径。
type FontResource struct {
	Name   string `json:"name"`
	Src    string `json:"src"`
	Style  string `json:"style"`  // regular / bold / italic / bold italic
	Family string `json:"family"` // 渲染器使用的 Family 名称
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// Page 是一张海报：背景、圆角裁切、文本框与水印。
type Page struct {
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	PreviewWidth float64    `json:"previewWidth"` // 编辑器预览宽度（px），用于推算导出像素
	Radius       float64    `json:"radius"`
	Background   Background `json:"background"`
	Texts        []TextBox  `json:"texts"`
	Watermark    *TextBox   `json:"watermark,omitempty"`
}

// Background 描述页面背景。渐变为从左到右，颜色均匀分布。
type Background struct {
	Kind     string  `json:"kind"` // solid / gradient / image
	Color    Color   `json:"color"`
	Colors   []Color `json:"colors,omitempty"`
	Image    []byte  `json:"-"`
	MIMEType string  `json:"mimeType,omitempty"`
	Src      string  `json:"src,omitempty"`
}

// TextBox 是一个已排好行的文本块。X/Y/Width/Height 为旋转前的矩形，
// Rotation 为绕矩形中心顺时针旋转的角度（度）。
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation,omitempty"`
	LineHeight float64    `json:"lineHeight"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"` // left/center/right（默认 left）
	Wrap       string     `json:"wrap,omitempty"`  // anywhere(默认)/break-word/nowrap
	Lines      []TextLine `json:"lines"`
	Shadow     *Shadow    `json:"shadow,omitempty"`
}

// TextLine 表示排版后的一行文本及其宽高。Spans 为空时整行使用 TextBox 的字体与颜色。
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
	Spans     []Span  `json:"spans,omitempty"`
}

// Span 是一行内样式一致的片段，X 相对于行首。
type Span struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Width     float64 `json:"width"`
	Font      string  `json:"font"`
	FontSize  float64 `json:"fontSize"`
	Color     Color   `json:"color"`
	Underline bool    `json:"underline,omitempty"`
	Outline   bool    `json:"outline,omitempty"`
}

// Shadow 是文字阴影，偏移以毫米计。
type Shadow struct {
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
	Blur  float64 `json:"blur"`
	Color Color   `json:"color"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
