package poster

import (
	"fmt"
	"strings"
)

// AspectRatio 描述海报容器的固定宽高比以及编辑器预览时的像素宽度。
// 预览宽度用于把以像素为单位的字号、内边距、圆角换算到导出尺寸。
type AspectRatio struct {
	Name         string  `json:"name"`
	Class        string  `json:"class"` // 编辑器中的 CSS 类名
	W            float64 `json:"w"`
	H            float64 `json:"h"`
	PreviewWidth float64 `json:"previewWidth"` // px
}

// Height 根据宽度计算高度。
func (a AspectRatio) Height(width float64) float64 {
	if a.W <= 0 {
		return width
	}
	return width * a.H / a.W
}

var (
	Square   = AspectRatio{Name: "square", Class: "aspect-square", W: 1, H: 1, PreviewWidth: 672}
	Portrait = AspectRatio{Name: "portrait", Class: "aspect-[4/5]", W: 4, H: 5, PreviewWidth: 576}
	Story    = AspectRatio{Name: "story", Class: "aspect-[9/16]", W: 9, H: 16, PreviewWidth: 448}
)

// AspectRatios 按工具栏顺序列出。
var AspectRatios = []AspectRatio{Square, Portrait, Story}

// ParseAspectRatio 接受名称（square/portrait/story）、CSS 类名或 "4:5" 形式。
func ParseAspectRatio(s string) (AspectRatio, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, a := range AspectRatios {
		if key == a.Name || key == a.Class || key == fmt.Sprintf("%g:%g", a.W, a.H) {
			return a, nil
		}
	}
	return AspectRatio{}, fmt.Errorf("未知的宽高比 %q", s)
}

// Gradient 是从左到右的线性渐变，颜色均匀分布。
type Gradient struct {
	Name   string  `json:"name"`
	Colors []Color `json:"colors"`
}

// Gradients 是内置渐变。
var Gradients = []Gradient{
	{Name: "Sunset", Colors: []Color{MustColor("#ff7e5f"), MustColor("#feb47b")}},
	{Name: "Ocean", Colors: []Color{MustColor("#00c6ff"), MustColor("#0072ff")}},
	{Name: "Peach", Colors: []Color{MustColor("#ffddd2"), MustColor("#ff8a8a")}},
	{Name: "Aurora", Colors: []Color{MustColor("#7f7fd5"), MustColor("#86a8e7"), MustColor("#91eae4")}},
	{Name: "Midnight", Colors: []Color{MustColor("#2c3e50"), MustColor("#4ca1af")}},
	{Name: "Posterly 1", Colors: []Color{MustColor("#ff7eb3"), MustColor("#9b5de5")}},
	{Name: "Posterly 2", Colors: []Color{MustColor("#9b5de5"), MustColor("#3b1dd1")}},
	{Name: "Posterly 3", Colors: []Color{MustColor("#4cc9f0"), MustColor("#3b1dd1")}},
}

// LookupGradient 按名称查找内置渐变，忽略大小写与空格/连字符差异。
func LookupGradient(name string) (Gradient, bool) {
	key := normalizeName(name)
	for _, g := range Gradients {
		if normalizeName(g.Name) == key {
			return g, true
		}
	}
	return Gradient{}, false
}

// CustomGradient 由两个及以上颜色构造渐变。
func CustomGradient(colors ...string) (Gradient, error) {
	if len(colors) < 2 {
		return Gradient{}, fmt.Errorf("渐变至少需要两个颜色")
	}
	g := Gradient{Name: "custom"}
	for _, c := range colors {
		col, err := ParseColor(c)
		if err != nil {
			return Gradient{}, err
		}
		g.Colors = append(g.Colors, col)
	}
	return g, nil
}

// FontFamily 把编辑器里的字体选项映射到内置字形。
type FontFamily struct {
	Name      string `json:"name"`
	ClassName string `json:"className"`
	CSS       string `json:"css"`
	Face      string `json:"face"` // fonts 包中的内置字形：sans / mono
}

// FontFamilies 与工具栏下拉框一致，第一个是默认值。
var FontFamilies = []FontFamily{
	{Name: "Playfair", ClassName: "font-serif", CSS: "'Playfair Display', serif", Face: "sans"},
	{Name: "Inter", ClassName: "font-sans", CSS: "'Inter', sans-serif", Face: "sans"},
	{Name: "Roboto Mono", ClassName: "font-mono", CSS: "'Roboto Mono', monospace", Face: "mono"},
	{Name: "Lobster", ClassName: "font-['Lobster']", CSS: "'Lobster', cursive", Face: "sans"},
}

// LookupFontFamily 按名称或 CSS 类名查找字体。
func LookupFontFamily(name string) (FontFamily, bool) {
	key := normalizeName(name)
	for _, f := range FontFamilies {
		if normalizeName(f.Name) == key || f.ClassName == name {
			return f, true
		}
	}
	return FontFamily{}, false
}

// Quote 是离线备用名言。
type Quote struct {
	Text     string `json:"quote"`
	Category string `json:"category"`
	Lang     string `json:"lang"`
}

// FallbackQuotes 在没有 API Key 或生成失败时使用。
var FallbackQuotes = []Quote{
	{Text: "The only way to do great work is to love what you do.", Category: "Motivational", Lang: "en"},
	{Text: "Your limitation—it's only your imagination.", Category: "Motivational", Lang: "en"},
	{Text: "The best time to plant a tree was 20 years ago. The second best time is now.", Category: "Motivational", Lang: "en"},
	{Text: "Love is not just looking at each other, it's looking in the same direction.", Category: "Love", Lang: "en"},
	{Text: "To love and be loved is to feel the sun from both sides.", Category: "Love", Lang: "en"},
	{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Category: "Success", Lang: "en"},
	{Text: "The road to success and the road to failure are almost exactly the same.", Category: "Success", Lang: "en"},
	{Text: "The purpose of our lives is to be happy.", Category: "Happiness", Lang: "en"},
	{Text: "Happiness is not something readymade. It comes from your own actions.", Category: "Happiness", Lang: "en"},
}

// QuotesFor 返回指定分类（忽略大小写）的内置名言；没有匹配时返回全部。
func QuotesFor(category string) []Quote {
	return FilterQuotes(FallbackQuotes, "", category)
}

// FilterQuotes 先按语言、再按分类（均忽略大小写）筛选 pool；
// 某一级筛不出结果时保留上一级的全部名言。lang 为空表示不限语言。
func FilterQuotes(pool []Quote, lang, category string) []Quote {
	if lang != "" {
		if byLang := filterQuotes(pool, func(q Quote) bool { return strings.EqualFold(q.Lang, lang) }); len(byLang) > 0 {
			pool = byLang
		}
	}
	if byCategory := filterQuotes(pool, func(q Quote) bool { return strings.EqualFold(q.Category, category) }); len(byCategory) > 0 {
		return byCategory
	}
	return pool
}

func filterQuotes(pool []Quote, keep func(Quote) bool) []Quote {
	var out []Quote
	for _, q := range pool {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// Emojis 是工具栏提供的表情。
var Emojis = []string{"😊", "❤️", "✨", "🎉", "👍", "🙏", "😂", "🔥", "🚀", "💡", "🌟", "🤔"}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
