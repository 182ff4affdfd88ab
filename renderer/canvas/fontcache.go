package canvasrenderer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/posterly/fonts"
	"github.com/ByLCY/posterly/layout"
	"github.com/ByLCY/posterly/logging"
)

// fontCache 按字体源缓存 canvas 字体族。加载失败的字体记一次警告后改用内置 sans。
type fontCache struct {
	mu       sync.Mutex
	log      logging.Logger
	families map[string]*canvas.FontFamily
	fallback *canvas.FontFamily
}

func newFontCache(log logging.Logger) *fontCache {
	return &fontCache{log: log, families: map[string]*canvas.FontFamily{}}
}

// face 返回 size（pt）与颜色确定的字形。
func (c *fontCache) face(font layout.FontResource, size float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := c.family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (c *fontCache) family(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	style := fontStyle(font.Style)
	key := font.Src + "|" + font.Style

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.families[key]; ok {
		return f, style, nil
	}

	f, err := loadFamily(font, style)
	if err != nil {
		c.log.Warnf("加载字体 %s 失败，改用默认字体: %v", font.Name, err)
		if f, err = c.defaultFamily(); err != nil {
			return nil, canvas.FontRegular, err
		}
		style = canvas.FontRegular
		c.families[key] = f
		return f, style, nil
	}
	c.families[key] = f
	return f, style, nil
}

func loadFamily(font layout.FontResource, style canvas.FontStyle) (*canvas.FontFamily, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	data, err := fonts.Load(font.Src)
	if err != nil {
		return nil, err
	}
	name := font.Family
	if name == "" {
		name = font.Name
	}
	f := canvas.NewFontFamily(name)
	if err := f.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", font.Src, err)
	}
	return f, nil
}

func (c *fontCache) defaultFamily() (*canvas.FontFamily, error) {
	if c.fallback != nil {
		return c.fallback, nil
	}
	f := canvas.NewFontFamily("posterly-fallback")
	if err := f.LoadFont(fonts.Face(fonts.Sans, fonts.Variant{}), 0, canvas.FontRegular); err != nil {
		return nil, err
	}
	c.fallback = f
	return f, nil
}

// fontStyle 把 "bold italic" 之类的描述转换为 canvas 样式。
func fontStyle(s string) canvas.FontStyle {
	s = strings.ToLower(s)
	style := canvas.FontRegular
	if strings.Contains(s, "bold") {
		style = canvas.FontBold
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		style |= canvas.FontItalic
	}
	return style
}
