package poster

import (
	"fmt"
	"strings"

	"github.com/ByLCY/posterly/geometry"
)

// BaseFontSize 是桌面端预览的基础字号（px），用户调整以增量叠加其上。
const BaseFontSize = 32

// BackgroundKind 区分纯色、渐变与图片背景。
type BackgroundKind string

const (
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// Background 描述海报背景。图片以原始字节保存（上传或 AI 生成），Src 仅用于调试输出。
type Background struct {
	Kind     BackgroundKind `json:"kind"`
	Color    Color          `json:"color,omitempty"`
	Gradient Gradient       `json:"gradient,omitempty"`
	Src      string         `json:"src,omitempty"`
	Image    []byte         `json:"-"`
	MIMEType string         `json:"mimeType,omitempty"`
}

// SolidBackground 构造纯色背景。
func SolidBackground(c Color) Background { return Background{Kind: BackgroundSolid, Color: c} }

// GradientBackground 构造渐变背景。
func GradientBackground(g Gradient) Background {
	return Background{Kind: BackgroundGradient, Gradient: g}
}

// ImageBackground 构造图片背景（居中裁切铺满）。
func ImageBackground(data []byte, mime, src string) Background {
	return Background{Kind: BackgroundImage, Image: data, MIMEType: mime, Src: src}
}

// Style 对应编辑器侧边栏的全部样式项。FontSize、Padding、BorderRadius 以预览像素为单位。
type Style struct {
	Background   Background  `json:"background"`
	FontSize     float64     `json:"fontSize"`
	FontWeight   string      `json:"fontWeight"` // normal / bold
	FontStyle    string      `json:"fontStyle"`  // normal / italic
	TextAlign    string      `json:"textAlign"`  // left / center / right
	FontFamily   FontFamily  `json:"fontFamily"`
	TextColor    Color       `json:"textColor"`
	Padding      float64     `json:"padding"`
	BorderRadius float64     `json:"borderRadius"`
	Shadow       int         `json:"shadow"` // 0-4，容器阴影，只在编辑器内显示，不参与导出
	AspectRatio  AspectRatio `json:"aspectRatio"`
}

// DefaultStyle 与编辑器初始状态一致。
func DefaultStyle() Style {
	return Style{
		Background:   GradientBackground(Gradients[0]),
		FontSize:     BaseFontSize,
		FontWeight:   "bold",
		FontStyle:    "normal",
		TextAlign:    "center",
		FontFamily:   FontFamilies[0],
		TextColor:    White,
		Padding:      80,
		BorderRadius: 24,
		Shadow:       3,
		AspectRatio:  Square,
	}
}

// Validate 检查取值范围，范围与工具栏滑块一致。
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("字号必须为正数，当前 %g", s.FontSize)
	}
	switch s.FontWeight {
	case "normal", "bold":
	default:
		return fmt.Errorf("未知的字重 %q", s.FontWeight)
	}
	switch s.FontStyle {
	case "normal", "italic":
	default:
		return fmt.Errorf("未知的字体样式 %q", s.FontStyle)
	}
	switch s.TextAlign {
	case "left", "center", "right":
	default:
		return fmt.Errorf("未知的对齐方式 %q", s.TextAlign)
	}
	if s.Padding < 0 || s.Padding > 150 {
		return fmt.Errorf("内边距 %g 超出范围 0-150", s.Padding)
	}
	if s.BorderRadius < 0 || s.BorderRadius > 100 {
		return fmt.Errorf("圆角 %g 超出范围 0-100", s.BorderRadius)
	}
	if s.Shadow < 0 || s.Shadow > 4 {
		return fmt.Errorf("阴影等级 %d 超出范围 0-4", s.Shadow)
	}
	if s.AspectRatio.W <= 0 || s.AspectRatio.H <= 0 {
		return fmt.Errorf("宽高比无效")
	}
	if s.Background.Kind == BackgroundGradient && len(s.Background.Gradient.Colors) < 2 {
		return fmt.Errorf("渐变背景至少需要两个颜色")
	}
	if s.Background.Kind == BackgroundImage && len(s.Background.Image) == 0 {
		return fmt.Errorf("图片背景缺少数据")
	}
	return nil
}

// Poster 是一次编辑会话的完整文档：名言（内联 HTML）、样式与文本框几何。
type Poster struct {
	Name  string       `json:"name"`
	Quote string       `json:"quote"`
	Style Style        `json:"style"`
	Box   geometry.Box `json:"box"`
}

// New 使用默认样式与默认文本框创建海报。
func New(name, quote string) *Poster {
	return &Poster{
		Name:  name,
		Quote: quote,
		Style: DefaultStyle(),
		Box:   geometry.DefaultBox(),
	}
}

// Bold 报告整体字重是否为粗体。
func (s Style) Bold() bool { return strings.EqualFold(s.FontWeight, "bold") }

// Italic 报告整体是否为斜体。
func (s Style) Italic() bool { return strings.EqualFold(s.FontStyle, "italic") }
