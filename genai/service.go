package genai

import (
	"context"
	"math/rand/v2"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/posterly/logging"
	"github.com/ByLCY/posterly/poster"
	"github.com/ByLCY/posterly/richtext"
)

// Service 包装 Generator。Generator 为 nil（没有 API Key）或调用失败时退回内置名言，
// 背景则返回 nil 表示保持当前背景。除 ctx 取消外不会返回错误。
type Service struct {
	gen    Generator
	log    logging.Logger
	rng    *rand.Rand
	quotes []poster.Quote
}

// ServiceOption 配置 Service。
type ServiceOption func(*Service)

// WithLogger 注入日志器。
func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) { s.log = logging.OrNop(l) }
}

// WithRand 固定随机源，便于测试。
func WithRand(r *rand.Rand) ServiceOption {
	return func(s *Service) { s.rng = r }
}

// WithQuotes 替换备用名言。
func WithQuotes(q []poster.Quote) ServiceOption {
	return func(s *Service) { s.quotes = q }
}

// NewService 创建服务，gen 可以为 nil。
func NewService(gen Generator, opts ...ServiceOption) *Service {
	s := &Service{
		gen:    gen,
		log:    logging.Nop(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		quotes: poster.FallbackQuotes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Online 报告是否配置了生成器。
func (s *Service) Online() bool { return s.gen != nil }

func (s *Service) pick(pool []poster.Quote) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[s.rng.IntN(len(pool))].Text
}

// Quote 生成一条名言。
func (s *Service) Quote(ctx context.Context, topic, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.gen == nil {
		s.log.Warnf("未设置 API_KEY，使用内置名言")
		return s.pick(poster.FilterQuotes(s.quotes, lang, topic)), nil
	}
	q, err := s.gen.GenerateQuote(ctx, topic, lang)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		s.log.Errorf("生成名言失败，使用内置名言: %v", err)
		return s.pick(s.quotes), nil
	}
	return cleanQuote(q), nil
}

// Background 生成背景图；没有生成器或失败时返回 nil。
func (s *Service) Background(ctx context.Context, prompt string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.gen == nil || strings.TrimSpace(prompt) == "" {
		return nil, nil
	}
	img, err := s.gen.GenerateBackground(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Errorf("生成背景失败，保留当前背景: %v", err)
		return nil, nil
	}
	return img, nil
}

// Result 是一次 Refresh 的结果。Background 为 nil 表示保持当前背景。
type Result struct {
	Quote      string
	Background *Image
}

// Refresh 并发生成名言与背景。
func (s *Service) Refresh(ctx context.Context, topic, lang, prompt string) (Result, error) {
	var res Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.Quote(gctx, topic, lang)
		res.Quote = q
		return err
	})
	g.Go(func() error {
		img, err := s.Background(gctx, prompt)
		res.Background = img
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Apply 把结果写回海报：名言经过转义，背景只在生成成功时替换。
func (r Result) Apply(p *poster.Poster) {
	if r.Quote != "" {
		p.Quote = richtext.Escape(r.Quote)
	}
	if r.Background != nil {
		p.Style.Background = poster.ImageBackground(r.Background.Data, r.Background.MIMEType, "generated")
	}
}
