package poster

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/posterly/dsl"
	"github.com/ByLCY/posterly/geometry"
)

// FromDocument 把描述文件的语法树转换为海报与待回放的手势。
// 图片背景的相对路径基于 baseDir 解析。
func FromDocument(doc *dsl.Document, baseDir string) (*Poster, []geometry.Stroke, error) {
	if doc == nil || doc.Body == nil {
		return nil, nil, fmt.Errorf("描述文件为空")
	}
	p := New(doc.Name, "")
	if doc.Aspect != "" {
		ar, err := ParseAspectRatio(doc.Aspect)
		if err != nil {
			return nil, nil, dsl.Errorf(doc.Pos, "%v", err)
		}
		p.Style.AspectRatio = ar
	}

	var strokes []geometry.Stroke
	for _, stmt := range doc.Body.Statements {
		switch {
		case stmt.Assignment != nil:
			if err := applyAssignment(p, stmt.Assignment, baseDir); err != nil {
				return nil, nil, err
			}
		case stmt.Command != nil:
			cmd := stmt.Command
			switch cmd.Name {
			case "box":
				if err := applyBox(&p.Box, cmd); err != nil {
					return nil, nil, err
				}
			case "gesture":
				s, err := parseStroke(cmd)
				if err != nil {
					return nil, nil, err
				}
				strokes = append(strokes, s)
			default:
				return nil, nil, dsl.Errorf(cmd.Pos, "未知的指令 %q", cmd.Name)
			}
		}
	}
	if err := p.Style.Validate(); err != nil {
		return nil, nil, dsl.Errorf(doc.Pos, "海报 %s 样式无效: %v", doc.Name, err)
	}
	return p, strokes, nil
}

func applyAssignment(p *Poster, a *dsl.Assignment, baseDir string) error {
	v := a.Value
	s := &p.Style
	var err error
	switch a.Key {
	case "quote":
		p.Quote = v.Text()
	case "background":
		s.Background, err = parseBackground(v, baseDir)
	case "font":
		f, ok := LookupFontFamily(v.Text())
		if !ok {
			return dsl.Errorf(v.Pos(), "未知的字体 %q", v.Text())
		}
		s.FontFamily = f
	case "size":
		s.FontSize, err = single(v).Float()
	case "weight":
		s.FontWeight = strings.ToLower(v.Text())
	case "style":
		s.FontStyle = strings.ToLower(v.Text())
	case "align":
		s.TextAlign = strings.ToLower(v.Text())
	case "color":
		s.TextColor, err = parseColorValue(single(v))
	case "padding":
		s.Padding, err = single(v).Float()
	case "radius":
		s.BorderRadius, err = single(v).Float()
	case "shadow":
		var level float64
		level, err = single(v).Float()
		s.Shadow = int(level)
	default:
		return dsl.Errorf(a.Pos, "未知的属性 %q", a.Key)
	}
	if err != nil {
		return fmt.Errorf("属性 %s: %w", a.Key, err)
	}
	return nil
}

func single(v *dsl.Value) *dsl.Lexeme {
	return v.Parts[0]
}

func parseColorValue(l *dsl.Lexeme) (Color, error) {
	if !l.Is("Color") && !l.Is("String") {
		return Color{}, l.Errorf("期望颜色，得到 %q", l.Raw)
	}
	c, err := ParseColor(l.Value)
	if err != nil {
		return Color{}, l.Errorf("%v", err)
	}
	return c, nil
}

// parseBackground 支持：
//
//	gradient Sunset | gradient #a #b ... | solid #hex | #hex | image "file"
func parseBackground(v *dsl.Value, baseDir string) (Background, error) {
	head := v.Parts[0]
	if head.Is("Color") {
		c, err := parseColorValue(head)
		return SolidBackground(c), err
	}
	args := v.Parts[1:]
	if len(args) == 0 {
		return Background{}, head.Errorf("背景 %q 缺少参数", head.Value)
	}
	switch head.Value {
	case "solid":
		c, err := parseColorValue(args[0])
		return SolidBackground(c), err
	case "gradient":
		if args[0].Is("Color") {
			colors := make([]string, 0, len(args))
			for _, a := range args {
				colors = append(colors, a.Value)
			}
			g, err := CustomGradient(colors...)
			if err != nil {
				return Background{}, args[0].Errorf("%v", err)
			}
			return GradientBackground(g), nil
		}
		name := (&dsl.Value{Parts: args}).Text()
		g, ok := LookupGradient(name)
		if !ok {
			return Background{}, args[0].Errorf("未知的渐变 %q", name)
		}
		return GradientBackground(g), nil
	case "image":
		if !args[0].Is("String") {
			return Background{}, args[0].Errorf("图片背景需要带引号的路径")
		}
		return loadImage(args[0], baseDir)
	default:
		return Background{}, head.Errorf("未知的背景类型 %q", head.Value)
	}
}

func loadImage(l *dsl.Lexeme, baseDir string) (Background, error) {
	path := l.Value
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Background{}, l.Errorf("读取背景图片失败: %v", err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return Background{}, l.Errorf("%s 不是图片（%s）", l.Value, mime)
	}
	return ImageBackground(data, mime, l.Value), nil
}

// applyBox 解析 `box x 50 y 50 width 80 height 50 rotate 0`，未给出的项保持不变。
func applyBox(b *geometry.Box, cmd *dsl.Command) error {
	if len(cmd.Args)%2 != 0 {
		return dsl.Errorf(cmd.Pos, "box 参数必须成对出现")
	}
	for i := 0; i < len(cmd.Args); i += 2 {
		key, val := cmd.Args[i], cmd.Args[i+1]
		n, err := val.Float()
		if err != nil {
			return err
		}
		switch key.Value {
		case "x":
			b.Position.X = n
		case "y":
			b.Position.Y = n
		case "width", "w":
			b.Size.Width = n
		case "height", "h":
			b.Size.Height = n
		case "rotate", "rotation":
			b.Rotation = n
		default:
			return key.Errorf("未知的 box 属性 %q", key.Value)
		}
	}
	return nil
}

// parseStroke 解析 `gesture <kind> [handle] { down x y; move x y; ...; up [x y] | cancel }`。
func parseStroke(cmd *dsl.Command) (geometry.Stroke, error) {
	var s geometry.Stroke
	if len(cmd.Args) == 0 {
		return s, dsl.Errorf(cmd.Pos, "gesture 缺少类型")
	}
	kind, err := geometry.ParseKind(cmd.Args[0].Value)
	if err != nil {
		return s, cmd.Args[0].Errorf("%v", err)
	}
	s.Kind = kind
	switch {
	case kind == geometry.KindResize && len(cmd.Args) == 2:
		h, err := geometry.ParseHandle(cmd.Args[1].Value)
		if err != nil {
			return s, cmd.Args[1].Errorf("%v", err)
		}
		s.Handle = h
	case kind == geometry.KindRotate && len(cmd.Args) == 1:
		s.Handle = geometry.HandleRotate
	case len(cmd.Args) != 1:
		return s, dsl.Errorf(cmd.Pos, "%s 手势参数数量错误", kind)
	}
	if cmd.Block == nil {
		return s, dsl.Errorf(cmd.Pos, "gesture 缺少步骤块")
	}

	ended := false
	for i, stmt := range cmd.Block.Statements {
		step := stmt.Command
		if step == nil {
			return s, dsl.Errorf(stmt.Assignment.Pos, "手势步骤不能是属性赋值")
		}
		if ended {
			return s, dsl.Errorf(step.Pos, "手势已结束，多余的步骤 %q", step.Name)
		}
		if (i == 0) != (step.Name == "down") {
			return s, dsl.Errorf(step.Pos, "手势必须以且仅以一个 down 开始")
		}
		switch step.Name {
		case "down", "move":
			pt, err := stepPoint(step)
			if err != nil {
				return s, err
			}
			s.Points = append(s.Points, pt)
		case "up":
			if len(step.Args) > 0 {
				pt, err := stepPoint(step)
				if err != nil {
					return s, err
				}
				s.Points = append(s.Points, pt)
			}
			ended = true
		case "cancel":
			s.Cancel = true
			ended = true
		default:
			return s, dsl.Errorf(step.Pos, "未知的手势步骤 %q", step.Name)
		}
	}
	if !ended {
		return s, dsl.Errorf(cmd.Pos, "手势缺少 up 或 cancel")
	}
	if err := s.Validate(); err != nil {
		return s, dsl.Errorf(cmd.Pos, "%v", err)
	}
	return s, nil
}

func stepPoint(step *dsl.Command) (geometry.Point, error) {
	if len(step.Args) != 2 {
		return geometry.Point{}, dsl.Errorf(step.Pos, "%s 需要 x y 两个坐标", step.Name)
	}
	x, err := step.Args[0].Float()
	if err != nil {
		return geometry.Point{}, err
	}
	y, err := step.Args[1].Float()
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: x, Y: y}, nil
}

// FormatBox 以描述文件语法输出文本框几何，便于把回放后的结果写回文件。
func FormatBox(b geometry.Box) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("box x %s y %s width %s height %s rotate %s",
		f(b.Position.X), f(b.Position.Y), f(b.Size.Width), f(b.Size.Height), f(b.Rotation))
}
