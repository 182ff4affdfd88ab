package canvasrenderer

import (
	"math"
	"strings"
	"unicode"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/posterly/layout"
)

// LayoutLines 实现 layout.Typesetter 接口，使用贪心换行算法。
// 约定：fontSize/lineHeight 入参均为毫米（mm）。字体系统使用 pt，在边界做 mm↔pt 换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64, wrap string) ([]layout.TextLine, error) {
	face, err := r.fonts.face(font, toPt(fontSize), layout.Color{A: 255})
	if err != nil {
		return nil, err
	}

	if wrap == "" {
		wrap = "anywhere"
	}
	lines := wrapText(content, width, face, wrap)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

// TextWidth 实现 layout.Typesetter 接口，返回文本在给定字号（mm）下的宽度（mm）。
func (r *Renderer) TextWidth(text string, font layout.FontResource, fontSize float64) (float64, error) {
	if text == "" {
		return 0, nil
	}
	face, err := r.fonts.face(font, toPt(fontSize), layout.Color{A: 255})
	if err != nil {
		return 0, err
	}
	return face.TextWidth(text), nil
}

// lineWrapper 累积当前行，放不下时先换行再追加。
type lineWrapper struct {
	face  *canvas.FontFace
	limit float64
	lines []layout.TextLine
	cur   strings.Builder
	width float64
}

// newline 结束当前行。hard 为 true 时即使当前行为空也输出（显式换行）。
func (w *lineWrapper) newline(hard bool) {
	if w.cur.Len() == 0 && !hard {
		return
	}
	w.lines = append(w.lines, layout.TextLine{Content: w.cur.String(), Width: w.width})
	w.cur.Reset()
	w.width = 0
}

func (w *lineWrapper) add(s string) {
	sw := w.face.TextWidth(s)
	if w.width > 0 && w.width+sw > w.limit {
		w.newline(false)
	}
	w.cur.WriteString(s)
	w.width += sw
}

// addWord 追加一个词；整词超过行宽时逐字切开。
func (w *lineWrapper) addWord(word string) {
	if w.face.TextWidth(word) <= w.limit {
		w.add(word)
		return
	}
	for _, ch := range word {
		w.add(string(ch))
	}
}

// wrapText 按 wrap 模式折行：
// anywhere 优先在空白处断开，break-word 逐字断开，nowrap 只认显式换行。
func wrapText(content string, width float64, face *canvas.FontFace, wrap string) []layout.TextLine {
	content = strings.ReplaceAll(content, "\r", "")
	if wrap == "nowrap" {
		var lines []layout.TextLine
		for _, p := range strings.Split(content, "\n") {
			lines = append(lines, layout.TextLine{Content: p, Width: face.TextWidth(p)})
		}
		return lines
	}

	w := &lineWrapper{face: face, limit: width}
	if w.limit <= 0 {
		w.limit = math.MaxFloat64
	}
	for i, para := range strings.Split(content, "\n") {
		if i > 0 {
			w.newline(true)
		}
		if wrap == "break-word" {
			for _, ch := range para {
				w.add(string(ch))
			}
			continue
		}
		for _, tok := range splitSpaces(para) {
			w.addWord(tok)
		}
	}
	w.newline(true)
	return w.lines
}

// splitSpaces 把一段文本切成交替的空白段与非空白段。
func splitSpaces(s string) []string {
	var out []string
	start := 0
	prev := false
	for i, ch := range s {
		space := unicode.IsSpace(ch)
		if i > 0 && space != prev {
			out = append(out, s[start:i])
			start = i
		}
		prev = space
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
