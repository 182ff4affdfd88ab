package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/posterly/layout"
	"github.com/ByLCY/posterly/logging"
	"github.com/ByLCY/posterly/renderer"
)

// ExportFactor 是相对编辑器预览的默认导出倍率。
const ExportFactor = 3.0

// Renderer draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	format renderer.Format
	scale  float64 // dots per mm，0 表示按预览宽度的 ExportFactor 倍
	log    logging.Logger
	fonts  *fontCache
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Format renderer.Format // 默认 PNG
	Scale  float64         // 每毫米像素数
	Logger logging.Logger
}

// NewRenderer creates a PNG renderer with default resolution.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer for the given format and resolution.
func NewRendererWithOptions(opts Options) *Renderer {
	format := opts.Format
	if format == "" {
		format = renderer.PNG
	}
	return &Renderer{
		format: format,
		scale:  opts.Scale,
		log:    logging.OrNop(opts.Logger),
		fonts:  newFontCache(logging.OrNop(opts.Logger)),
	}
}

// Format 返回输出格式。
func (r *Renderer) Format() renderer.Format { return r.format }

// Render renders the result into PNG (first page) or PDF bytes.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	switch r.format {
	case renderer.PNG:
		return r.renderPNG(result)
	case renderer.PDF:
		return r.renderPDF(result)
	default:
		return nil, fmt.Errorf("不支持的导出格式 %q", r.format)
	}
}

// dotsPerMM 返回页面的栅格分辨率。
func (r *Renderer) dotsPerMM(page layout.Page) float64 {
	if r.scale > 0 {
		return r.scale
	}
	return layout.PxScale{PreviewWidth: page.PreviewWidth, PageWidth: page.Width}.DotsPerMM(ExportFactor)
}

func (r *Renderer) renderPNG(result *layout.Result) ([]byte, error) {
	if len(result.Pages) > 1 {
		r.log.Warnf("PNG 只输出第一页，忽略其余 %d 页", len(result.Pages)-1)
	}
	page := result.Pages[0]
	c, err := r.drawCanvas(page, result.Resources)
	if err != nil {
		return nil, err
	}
	dpmm := r.dotsPerMM(page)
	r.log.Debugf("栅格化 %.1fx%.1fmm @ %.2f dpmm", page.Width, page.Height, dpmm)
	var buf bytes.Buffer
	if err := renderers.PNG(canvas.DPMM(dpmm))(&buf, c); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderPDF(result *layout.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c, err := r.drawCanvas(page, result.Resources)
		if err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawCanvas(page layout.Page, resources layout.ResourceSet) (*canvas.Canvas, error) {
	c := canvas.New(page.Width, page.Height)
	ctx := canvas.NewContext(c)
	// 背景铺满整页，在默认坐标系下绘制，保证图片方向正确
	if err := r.drawBackground(ctx, page); err != nil {
		return nil, err
	}
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb, resources.Fonts); err != nil {
			return nil, err
		}
	}
	if page.Watermark != nil {
		if err := r.drawTextBox(ctx, *page.Watermark, resources.Fonts); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *Renderer) drawBackground(ctx *canvas.Context, page layout.Page) error {
	bg := page.Background
	if bg.Kind == "" || bg.Kind == "solid" {
		ctx.SetFillColor(colorFromLayout(bg.Color))
		ctx.SetStrokeColor(canvas.Transparent)
		shape := canvas.Rectangle(page.Width, page.Height)
		if page.Radius > 0 {
			shape = canvas.RoundedRectangle(page.Width, page.Height, page.Radius)
		}
		ctx.DrawPath(0, 0, shape)
		return nil
	}
	dpmm := r.dotsPerMM(page)
	w := int(math.Round(page.Width * dpmm))
	h := int(math.Round(page.Height * dpmm))
	img, err := rasterBackground(bg, w, h, page.Radius*dpmm)
	if err != nil {
		return err
	}
	ctx.DrawImage(0, 0, img, canvas.DPMM(float64(w)/page.Width))
	return nil
}

// drawTextBox 绘制文本框：绕中心旋转后逐行逐片段绘制，支持下划线、描边与阴影。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox, fontRes map[string]layout.FontResource) error {
	if tb.Rotation != 0 {
		ctx.Push()
		defer ctx.Pop()
		ctx.RotateAbout(tb.Rotation, tb.X+tb.Width/2, tb.Y+tb.Height/2)
	}

	cursorY := tb.Y
	for _, line := range tb.Lines {
		cursorY += line.GapBefore
		spans := line.Spans
		if len(spans) == 0 && line.Content != "" {
			spans = []layout.Span{{Text: line.Content, Width: line.Width, Font: tb.Font, FontSize: tb.FontSize, Color: tb.Color}}
		}
		lineHeight := line.Height
		if lineHeight <= 0 {
			lineHeight = tb.LineHeight
		}
		if len(spans) == 0 {
			cursorY += lineHeight
			continue
		}

		// 基线：行高中多出的部分上下均分（与 CSS 的 half-leading 一致）
		ascent, descent := 0.0, 0.0
		faces := make([]*canvas.FontFace, len(spans))
		for i, sp := range spans {
			face, err := r.fonts.face(resolveFontResource(sp.Font, fontRes), toPt(sp.FontSize), sp.Color)
			if err != nil {
				return err
			}
			faces[i] = face
			m := face.Metrics()
			ascent = math.Max(ascent, m.Ascent)
			descent = math.Max(descent, m.Descent)
		}
		baseline := cursorY + (lineHeight-(ascent+descent))/2 + ascent
		startX := tb.X + layout.AlignOffset(tb.Width, line.Width, tb.Align)

		for i, sp := range spans {
			x := startX + sp.X
			if tb.Shadow != nil {
				r.drawShadow(ctx, sp, x, baseline, *tb.Shadow, fontRes)
			}
			if sp.Outline {
				r.drawOutline(ctx, sp, x, baseline, fontRes)
			}
			ctx.DrawText(x, baseline, canvas.NewTextLine(faces[i], sp.Text, canvas.Left))
			if sp.Underline {
				thickness := sp.FontSize * 0.06
				ctx.SetFillColor(colorFromLayout(sp.Color))
				ctx.SetStrokeColor(canvas.Transparent)
				ctx.DrawPath(x, baseline+sp.FontSize*0.1, canvas.Rectangle(sp.Width, thickness))
			}
		}
		cursorY += lineHeight
	}
	return nil
}

// drawOutline 以八个方向的黑色偏移副本模拟描边。
func (r *Renderer) drawOutline(ctx *canvas.Context, sp layout.Span, x, baseline float64, fontRes map[string]layout.FontResource) {
	face, err := r.fonts.face(resolveFontResource(sp.Font, fontRes), toPt(sp.FontSize), layout.Color{A: 255})
	if err != nil {
		return
	}
	d := sp.FontSize * 0.03
	for _, o := range [][2]float64{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}} {
		ctx.DrawText(x+o[0]*d, baseline+o[1]*d, canvas.NewTextLine(face, sp.Text, canvas.Left))
	}
}

// drawShadow 以由内向外逐渐变淡的多层偏移副本近似模糊阴影。
func (r *Renderer) drawShadow(ctx *canvas.Context, sp layout.Span, x, baseline float64, sh layout.Shadow, fontRes map[string]layout.FontResource) {
	const layers = 3
	for i := layers; i >= 1; i-- {
		c := sh.Color
		c.A /= i
		face, err := r.fonts.face(resolveFontResource(sp.Font, fontRes), toPt(sp.FontSize), c)
		if err != nil {
			return
		}
		spread := sh.Blur * float64(i-1) / (2 * layers)
		ctx.DrawText(x+sh.DX+spread, baseline+sh.DY+spread, canvas.NewTextLine(face, sp.Text, canvas.Left))
	}
}

func resolveFontResource(name string, fonts map[string]layout.FontResource) layout.FontResource {
	if font, ok := fonts[name]; ok {
		return font
	}
	// 未登记的名称按 fonts 包的内置名称处理
	return layout.FontResource{Name: name, Src: "embed:" + name, Style: styleFromName(name)}
}

func styleFromName(name string) string {
	_, variant, _ := strings.Cut(name, "-")
	return strings.ReplaceAll(variant, "-", " ")
}

func colorFromLayout(c layout.Color) color.Color {
	return rgba(c)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
