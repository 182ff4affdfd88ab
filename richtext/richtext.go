// Package richtext 把可编辑区域产生的内联 HTML 转换为带样式的文本片段。
//
// 支持的标记：b/strong、i/em、u、font[color]、br、div/p（换行），
// 以及 span 的 style 属性中的 color、font-weight、font-style、
// text-decoration、font-size（px）与 -webkit-text-stroke（描边）。
// 其余标签只保留其文本内容。
package richtext

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ByLCY/posterly/poster"
)

// Run 是样式一致的一段文本。
type Run struct {
	Text      string        `json:"text"`
	Bold      bool          `json:"bold,omitempty"`
	Italic    bool          `json:"italic,omitempty"`
	Underline bool          `json:"underline,omitempty"`
	Outline   bool          `json:"outline,omitempty"`
	Color     *poster.Color `json:"color,omitempty"`
	FontSize  float64       `json:"fontSize,omitempty"` // px，0 表示沿用整体字号
}

func (r Run) sameStyle(o Run) bool {
	if r.Bold != o.Bold || r.Italic != o.Italic || r.Underline != o.Underline || r.Outline != o.Outline || r.FontSize != o.FontSize {
		return false
	}
	if (r.Color == nil) != (o.Color == nil) {
		return false
	}
	return r.Color == nil || *r.Color == *o.Color
}

// Parse 解析内联 HTML。纯文本（不含标签）同样合法。
func Parse(markup string) ([]Run, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("解析名言 HTML 失败: %w", err)
	}
	w := &walker{}
	for _, n := range nodes {
		w.walk(n, Run{})
	}
	return w.runs, nil
}

// PlainText 拼接所有片段的文本。
func PlainText(runs []Run) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Length 返回 HTML 中可见文本的字符数（按 rune 计）。解析失败时按原始字符串计算。
func Length(markup string) int {
	runs, err := Parse(markup)
	if err != nil {
		return utf8.RuneCountInString(markup)
	}
	return utf8.RuneCountInString(PlainText(runs))
}

// Escape 把纯文本转义为可以安全拼接进 HTML 的形式。
func Escape(text string) string { return html.EscapeString(text) }

type walker struct {
	runs []Run
}

func (w *walker) emit(text string, style Run) {
	if text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\u00a0", " ")
	if n := len(w.runs); n > 0 && w.runs[n-1].sameStyle(style) {
		w.runs[n-1].Text += text
		return
	}
	style.Text = text
	w.runs = append(w.runs, style)
}

func (w *walker) endsWithBreak() bool {
	if len(w.runs) == 0 {
		return true
	}
	return strings.HasSuffix(w.runs[len(w.runs)-1].Text, "\n")
}

func (w *walker) walk(n *html.Node, style Run) {
	switch n.Type {
	case html.TextNode:
		w.emit(n.Data, style)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c, style)
		}
		return
	}

	switch n.DataAtom {
	case atom.Br:
		w.emit("\n", style)
		return
	case atom.B, atom.Strong:
		style.Bold = true
	case atom.I, atom.Em:
		style.Italic = true
	case atom.U:
		style.Underline = true
	case atom.Font:
		if c, ok := parseCSSColor(attr(n, "color")); ok {
			style.Color = &c
		}
	case atom.Div, atom.P:
		// contentEditable 用块元素表示新的一行
		if !w.endsWithBreak() {
			w.emit("\n", style)
		}
	case atom.Script, atom.Style:
		return
	}
	if css := attr(n, "style"); css != "" {
		style = applyCSS(style, css)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, style)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func applyCSS(style Run, css string) Run {
	for _, decl := range strings.Split(css, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.ToLower(strings.TrimSpace(value))
		switch name {
		case "color":
			if c, ok := parseCSSColor(value); ok {
				style.Color = &c
			}
		case "font-weight":
			if value == "bold" || value == "bolder" {
				style.Bold = true
			} else if n, err := strconv.Atoi(value); err == nil {
				style.Bold = n >= 600
			} else if value == "normal" {
				style.Bold = false
			}
		case "font-style":
			style.Italic = value == "italic" || value == "oblique"
		case "text-decoration", "text-decoration-line":
			style.Underline = strings.Contains(value, "underline")
		case "font-size":
			if px, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64); err == nil && px > 0 {
				style.FontSize = px
			}
		case "-webkit-text-stroke", "text-stroke":
			style.Outline = value != "" && value != "0" && value != "none"
		}
	}
	return style
}

// parseCSSColor 支持 #hex 与 rgb()/rgba()。
func parseCSSColor(value string) (poster.Color, bool) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "#") {
		c, err := poster.ParseColor(value)
		return c, err == nil
	}
	lower := strings.ToLower(value)
	var body string
	switch {
	case strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")"):
		body = lower[5 : len(lower)-1]
	case strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")"):
		body = lower[4 : len(lower)-1]
	default:
		return poster.Color{}, false
	}
	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return poster.Color{}, false
	}
	var ch [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return poster.Color{}, false
		}
		ch[i] = v
	}
	c := poster.RGB(ch[0], ch[1], ch[2])
	if len(parts) == 4 {
		if a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64); err == nil {
			c = c.WithAlpha(a)
		}
	}
	return c, true
}
