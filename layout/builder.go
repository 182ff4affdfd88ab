package layout

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ByLCY/posterly/fonts"
	"github.com/ByLCY/posterly/geometry"
	"github.com/ByLCY/posterly/poster"
	"github.com/ByLCY/posterly/richtext"
)

const (
	// DefaultPageWidth 是导出页面的默认宽度（mm），高度由宽高比决定。
	DefaultPageWidth = 180.0
	// WatermarkText 是默认水印。
	WatermarkText = "Posterly"

	watermarkInsetPx = 30.0
	watermarkSizePx  = 18.0
	watermarkLineH   = 1.2
)

// Build 根据海报文档生成单页布局：背景、旋转后的文本框与水印。
func Build(p *poster.Poster, opts BuildOptions) (*Result, error) {
	if p == nil {
		return nil, fmt.Errorf("海报为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if err := p.Style.Validate(); err != nil {
		return nil, fmt.Errorf("样式无效: %w", err)
	}

	width := opts.PageWidth
	if width <= 0 {
		width = DefaultPageWidth
	}
	ratio := p.Style.AspectRatio
	scale := PxScale{PreviewWidth: ratio.PreviewWidth, PageWidth: width}
	page := Page{
		Width:        width,
		Height:       ratio.Height(width),
		PreviewWidth: ratio.PreviewWidth,
		Radius:       scale.MM(p.Style.BorderRadius),
		Background:   resolveBackground(p.Style.Background),
	}

	set := newFontSet(p.Style.FontFamily.Face)
	text, err := composeQuote(p, page, scale, set, opts.Typesetter)
	if err != nil {
		return nil, err
	}
	page.Texts = []TextBox{text}

	if !opts.Watermark.Disabled {
		label := opts.Watermark.Text
		if label == "" {
			label = WatermarkText
		}
		wm, err := composeWatermark(label, page, scale, set, opts.Typesetter)
		if err != nil {
			return nil, err
		}
		page.Watermark = &wm
	}

	return &Result{
		Pages:     []Page{page},
		Resources: ResourceSet{Fonts: set.used},
		Meta:      collectMeta(p, text.Content),
	}, nil
}

func collectMeta(p *poster.Poster, plain string) DocumentMeta {
	title := p.Name
	if title == "" {
		title = WatermarkText
	}
	return DocumentMeta{
		Title:    title,
		Subject:  strings.ReplaceAll(plain, "\n", " "),
		Creator:  WatermarkText,
		Keywords: []string{"quote", p.Style.AspectRatio.Name},
	}
}

func toColor(c poster.Color) Color { return Color{R: c.R, G: c.G, B: c.B, A: c.A} }

func resolveBackground(bg poster.Background) Background {
	out := Background{Kind: string(bg.Kind), Color: toColor(bg.Color)}
	switch bg.Kind {
	case poster.BackgroundGradient:
		for _, c := range bg.Gradient.Colors {
			out.Colors = append(out.Colors, toColor(c))
		}
	case poster.BackgroundImage:
		out.Image = bg.Image
		out.MIMEType = bg.MIMEType
		out.Src = bg.Src
	}
	return out
}

// fontSet 为一种字形按需登记四个变体。
type fontSet struct {
	face string
	used map[string]FontResource
}

func newFontSet(face string) *fontSet {
	if face == "" {
		face = fonts.Sans
	}
	return &fontSet{face: face, used: map[string]FontResource{}}
}

func (s *fontSet) resource(face string, bold, italic bool) FontResource {
	v := fonts.Variant{Bold: bold, Italic: italic}
	name := face + "-" + v.String()
	if font, ok := s.used[name]; ok {
		return font
	}
	style := v.String()
	if bold && italic {
		style = "bold italic"
	}
	font := FontResource{Name: name, Src: fonts.Name(face, v), Style: style, Family: face}
	s.used[name] = font
	return font
}

// boxRect 把百分比 Box 换算为页面上旋转前的矩形。负尺寸按 0 处理。
func boxRect(b geometry.Box, pageW, pageH float64) (x, y, w, h float64) {
	cx := b.Position.X / 100 * pageW
	cy := b.Position.Y / 100 * pageH
	w = math.Max(b.Size.Width, 0) / 100 * pageW
	h = math.Max(b.Size.Height, 0) / 100 * pageH
	return cx - w/2, cy - h/2, w, h
}

// styledRune 是名言中的一个字符及其所属片段。
type styledRune struct {
	r   rune
	run int
}

func composeQuote(p *poster.Poster, page Page, scale PxScale, set *fontSet, ts Typesetter) (TextBox, error) {
	runs, err := richtext.Parse(p.Quote)
	if err != nil {
		return TextBox{}, err
	}
	plain := richtext.PlainText(runs)

	x, y, w, h := boxRect(p.Box, page.Width, page.Height)
	fontSize := scale.MM(p.Style.FontSize)
	lineHeight := fontSize * LineHeightFactor
	base := set.resource(set.face, p.Style.Bold(), p.Style.Italic())
	color := toColor(p.Style.TextColor)

	lines, err := layoutLines(plain, w, base, fontSize, lineHeight, ts, "anywhere")
	if err != nil {
		return TextBox{}, fmt.Errorf("名言排版失败: %w", err)
	}

	chars := make([]styledRune, 0, utf8.RuneCountInString(plain))
	for i, r := range runs {
		for _, c := range r.Text {
			chars = append(chars, styledRune{r: c, run: i})
		}
	}

	cursor := 0
	hardBreak := true
	for i := range lines {
		n := utf8.RuneCountInString(lines[i].Content)
		end := min(cursor+n, len(chars))
		seg := chars[cursor:end]
		if !hardBreak {
			seg = trimLeadingSpace(seg)
		}
		seg = trimTrailingSpace(seg)
		cursor = end
		hardBreak = cursor < len(chars) && chars[cursor].r == '\n'
		if hardBreak {
			cursor++
		}
		spans, err := composeSpans(seg, runs, p.Style, scale, set, color, ts)
		if err != nil {
			return TextBox{}, err
		}
		lines[i].Spans = spans
		lines[i].Width = 0
		size := fontSize
		for _, sp := range spans {
			lines[i].Width = sp.X + sp.Width
			size = math.Max(size, sp.FontSize)
		}
		lines[i].Height = size * LineHeightFactor
		lines[i].GapBefore = 0
	}

	return TextBox{
		Content:    plain,
		X:          x,
		Y:          y,
		Width:      w,
		Height:     h,
		Rotation:   p.Box.Rotation,
		LineHeight: lineHeight,
		Font:       base.Name,
		FontSize:   fontSize,
		Color:      color,
		Align:      p.Style.TextAlign,
		Wrap:       "anywhere",
		Lines:      lines,
	}, nil
}

// trimTrailingSpace 去掉折行处的尾随空白，使对齐与浏览器一致。
func trimTrailingSpace(seg []styledRune) []styledRune {
	for len(seg) > 0 && unicode.IsSpace(seg[len(seg)-1].r) {
		seg = seg[:len(seg)-1]
	}
	return seg
}

func trimLeadingSpace(seg []styledRune) []styledRune {
	for len(seg) > 0 && unicode.IsSpace(seg[0].r) {
		seg = seg[1:]
	}
	return seg
}

// composeSpans 把一行字符按片段样式分组并测量宽度。
func composeSpans(seg []styledRune, runs []richtext.Run, style poster.Style, scale PxScale, set *fontSet, base Color, ts Typesetter) ([]Span, error) {
	var spans []Span
	x := 0.0
	for start := 0; start < len(seg); {
		end := start
		for end < len(seg) && seg[end].run == seg[start].run {
			end++
		}
		run := runs[seg[start].run]
		text := make([]rune, 0, end-start)
		for _, c := range seg[start:end] {
			text = append(text, c.r)
		}
		start = end

		font := set.resource(set.face, style.Bold() || run.Bold, style.Italic() || run.Italic)
		size := scale.MM(style.FontSize)
		if run.FontSize > 0 {
			size = scale.MM(run.FontSize)
		}
		color := base
		if run.Color != nil {
			color = toColor(*run.Color)
		}
		width, err := ts.TextWidth(string(text), font, size)
		if err != nil {
			return nil, fmt.Errorf("测量文本宽度失败: %w", err)
		}
		spans = append(spans, Span{
			Text:      string(text),
			X:         x,
			Width:     width,
			Font:      font.Name,
			FontSize:  size,
			Color:     color,
			Underline: run.Underline,
			Outline:   run.Outline,
		})
		x += width
	}
	return spans, nil
}

func composeWatermark(label string, page Page, scale PxScale, set *fontSet, ts Typesetter) (TextBox, error) {
	inset := scale.MM(watermarkInsetPx)
	size := scale.MM(watermarkSizePx)
	lineHeight := size * watermarkLineH
	font := set.resource(fonts.Sans, false, false)
	width, err := ts.TextWidth(label, font, size)
	if err != nil {
		return TextBox{}, fmt.Errorf("测量水印宽度失败: %w", err)
	}
	boxW := page.Width - 2*inset
	return TextBox{
		Content:    label,
		X:          inset,
		Y:          page.Height - inset - lineHeight,
		Width:      boxW,
		Height:     lineHeight,
		LineHeight: lineHeight,
		Font:       font.Name,
		FontSize:   size,
		Color:      toColor(poster.White.WithAlpha(0.9)),
		Align:      "right",
		Wrap:       "nowrap",
		Lines:      []TextLine{{Content: label, Width: width, Height: lineHeight}},
		Shadow: &Shadow{
			DX:    scale.MM(1),
			DY:    scale.MM(2),
			Blur:  scale.MM(4),
			Color: Color{A: int(math.Round(0.7 * 255))},
		},
	}, nil
}

func layoutLines(content string, width float64, font FontResource, fontSize, lineHeight float64, ts Typesetter, wrap string) ([]TextLine, error) {
	lines, err := ts.LayoutLines(content, width, font, fontSize, lineHeight, wrap)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: lineHeight}}
	}
	return lines, nil
}

// AlignOffset 返回宽度为 width 的行在容器内按 align 对齐时的水平偏移。
// 行比容器宽时左对齐、居中与右对齐分别向右侧、两侧、左侧溢出。
func AlignOffset(container, width float64, align string) float64 {
	switch strings.ToLower(align) {
	case "center", "middle":
		return (container - width) / 2
	case "right", "end":
		return container - width
	default:
		return 0
	}
}
