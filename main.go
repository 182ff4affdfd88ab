package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/posterly/binding"
	"github.com/ByLCY/posterly/dsl"
	"github.com/ByLCY/posterly/editor"
	"github.com/ByLCY/posterly/genai"
	"github.com/ByLCY/posterly/geometry"
	"github.com/ByLCY/posterly/layout"
	"github.com/ByLCY/posterly/logging"
	"github.com/ByLCY/posterly/poster"
	"github.com/ByLCY/posterly/renderer"
	canvasrenderer "github.com/ByLCY/posterly/renderer/canvas"
)

// config 汇总命令行参数。
type config struct {
	input       string
	output      string
	format      renderer.Format
	scale       float64
	data        any
	debug       string
	topic       string
	lang        string
	bgPrompt    string
	noWatermark bool
	envFile     string
}

func main() {
	input := flag.String("in", "examples/morning.poster", "海报描述文件路径")
	output := flag.String("out", "", "输出路径，可引用 data 中的 ${path}（默认 output/<名称>.<格式>）")
	format := flag.String("format", "png", "导出格式：png / pdf")
	scale := flag.Float64("scale", 0, "PNG 每毫米像素数，0 表示预览的 3 倍")
	dataJSON := flag.String("data", "", "填充名言中 ${path} 占位符的 JSON 数据")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	topic := flag.String("topic", "", "用 AI 生成该主题的名言")
	lang := flag.String("lang", "en", "生成名言的语言")
	bgPrompt := flag.String("bg-prompt", "", "用 AI 生成背景图的主题")
	noWatermark := flag.Bool("no-watermark", false, "不绘制水印")
	envFile := flag.String("env", "", "读取 API_KEY 的 .env 文件（默认当前目录 .env）")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	logger := logging.New("posterly", *verbose)

	f, err := renderer.ParseFormat(*format)
	if err != nil {
		log.Fatalf("参数错误: %v", err)
	}
	data, err := binding.Decode(*dataJSON)
	if err != nil {
		log.Fatalf("%v", err)
	}

	cfg := config{
		input:       *input,
		output:      *output,
		format:      f,
		scale:       *scale,
		data:        data,
		debug:       *debug,
		topic:       *topic,
		lang:        *lang,
		bgPrompt:    *bgPrompt,
		noWatermark: *noWatermark,
		envFile:     *envFile,
	}
	out, err := run(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("生成海报失败: %v", err)
	}
	fmt.Printf("已生成 %s：%s\n", strings.ToUpper(string(f)), out)
}

// run 串联解析、生成、手势回放、布局与渲染，返回实际写入的路径。
func run(ctx context.Context, cfg config, logger logging.Logger) (string, error) {
	p, strokes, err := load(cfg.input)
	if err != nil {
		return "", err
	}
	logger.Debugf("载入 %s：%s 背景，文字颜色 %s，%d 个手势", p.Name, p.Style.Background.Kind, p.Style.TextColor, len(strokes))

	if cfg.data != nil {
		quote, missing := binding.InterpolateHTML(p.Quote, cfg.data)
		for _, path := range missing {
			logger.Warnf("data 中缺少 %s，占位符保持原样", path)
		}
		p.Quote = quote
	}

	if cfg.topic != "" || cfg.bgPrompt != "" {
		if err := generate(ctx, p, cfg, logger); err != nil {
			return "", err
		}
	}

	session := editor.NewSession(p, editor.WithLogger(logger))
	if len(strokes) > 0 {
		ar := p.Style.AspectRatio
		session.Mount(geometry.Rect{Width: ar.PreviewWidth, Height: ar.Height(ar.PreviewWidth)})
		if err := session.Replay(strokes); err != nil {
			return "", fmt.Errorf("回放手势失败: %w", err)
		}
		logger.Infof("会话 %s 回放 %d 个手势后：%s", session.ID(), len(strokes), poster.FormatBox(session.Box()))
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		Format: cfg.format,
		Scale:  cfg.scale,
		Logger: logger,
	})
	result, err := layout.Build(session.Poster(), layout.BuildOptions{
		Typesetter: r,
		Watermark:  layout.WatermarkOptions{Disabled: cfg.noWatermark},
	})
	if err != nil {
		return "", fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.debug != "" {
		if err := writeDebug(result, cfg.debug); err != nil {
			return "", err
		}
	}

	// 输出路径同样可以引用 data 中的值，例如 -out "output/${slug}.png"
	outputPath := binding.Interpolate(cfg.output, cfg.data)
	if outputPath == "" {
		outputPath = filepath.Join("output", p.Name+cfg.format.Ext())
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	bytes, err := r.Render(result)
	if err != nil {
		return "", fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, bytes, 0o644); err != nil {
		return "", fmt.Errorf("写入输出文件失败: %w", err)
	}
	return outputPath, nil
}

func load(path string) (*poster.Poster, []geometry.Stroke, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开描述文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(path, file)
	if err != nil {
		return nil, nil, fmt.Errorf("解析描述文件失败: %w", err)
	}
	p, strokes, err := poster.FromDocument(doc, filepath.Dir(path))
	if err != nil {
		return nil, nil, fmt.Errorf("描述文件内容无效: %w", err)
	}
	return p, strokes, nil
}

// generate 调用 AI 刷新名言和/或背景；没有 API Key 时退回内置名言。
func generate(ctx context.Context, p *poster.Poster, cfg config, logger logging.Logger) error {
	var gen genai.Generator
	key, err := genai.LoadAPIKey(cfg.envFile)
	switch {
	case errors.Is(err, genai.ErrNoAPIKey):
		// gen 保持 nil，Service 退回离线模式
	case err != nil:
		return err
	default:
		g, err := genai.NewGemini(ctx, key)
		if err != nil {
			return err
		}
		gen = g
	}
	svc := genai.NewService(gen, genai.WithLogger(logger))
	if !svc.Online() {
		logger.Warnf("未设置 API_KEY，名言使用内置列表，背景保持不变")
	}

	topic := cfg.topic
	if topic == "" {
		res, err := svc.Background(ctx, cfg.bgPrompt)
		if err != nil {
			return err
		}
		genai.Result{Background: res}.Apply(p)
		return nil
	}
	res, err := svc.Refresh(ctx, topic, cfg.lang, cfg.bgPrompt)
	if err != nil {
		return fmt.Errorf("生成内容失败: %w", err)
	}
	res.Apply(p)
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
