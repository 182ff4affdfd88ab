package genai

import (
	"context"
	"fmt"
	"strings"

	gemini "google.golang.org/genai"
)

const (
	DefaultQuoteModel = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image"
)

// Gemini 通过 Gemini API 生成内容。
type Gemini struct {
	client     *gemini.Client
	QuoteModel string
	ImageModel string
}

// NewGemini 创建客户端。apiKey 为空时返回 ErrNoAPIKey。
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := gemini.NewClient(ctx, &gemini.ClientConfig{
		APIKey:  apiKey,
		Backend: gemini.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}
	return &Gemini{client: client, QuoteModel: DefaultQuoteModel, ImageModel: DefaultImageModel}, nil
}

func quotePrompt(topic, lang string) string {
	p := fmt.Sprintf("Generate a short, powerful quote about %s. The quote should be inspiring and concise. Maximum 25 words.", topic)
	if lang != "" && !strings.EqualFold(lang, "en") {
		p += fmt.Sprintf(" Write the quote in the language with code %q.", lang)
	}
	return p
}

func backgroundPrompt(theme string) string {
	return fmt.Sprintf("Generate a beautiful, abstract, visually pleasing background image based on the theme: %q. "+
		"The image should be suitable as a backdrop for text, with subtle patterns or textures. "+
		"Avoid clear objects or distracting elements.", theme)
}

// cleanQuote 去掉模型习惯性加上的引号。
func cleanQuote(s string) string {
	s = strings.NewReplacer(`"`, "", "“", "", "”", "").Replace(s)
	return strings.TrimSpace(s)
}

// GenerateQuote 生成一条名言。
func (g *Gemini) GenerateQuote(ctx context.Context, topic, lang string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.QuoteModel, gemini.Text(quotePrompt(topic, lang)), nil)
	if err != nil {
		return "", fmt.Errorf("生成名言失败: %w", err)
	}
	quote := cleanQuote(resp.Text())
	if quote == "" {
		return "", fmt.Errorf("模型没有返回名言")
	}
	return quote, nil
}

// GenerateBackground 生成背景图，返回响应中的第一张内联图片。
func (g *Gemini) GenerateBackground(ctx context.Context, prompt string) (*Image, error) {
	cfg := &gemini.GenerateContentConfig{ResponseModalities: []string{"IMAGE"}}
	resp, err := g.client.Models.GenerateContent(ctx, g.ImageModel, gemini.Text(backgroundPrompt(prompt)), cfg)
	if err != nil {
		return nil, fmt.Errorf("生成背景失败: %w", err)
	}
	if img := firstImage(resp); img != nil {
		return img, nil
	}
	return nil, fmt.Errorf("模型没有返回图片")
}

func firstImage(resp *gemini.GenerateContentResponse) *Image {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}
		}
	}
	return nil
}
