// Package editor 把几何引擎、海报文档与文本编辑状态组合成一次无界面的编辑会话。
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ByLCY/posterly/geometry"
	"github.com/ByLCY/posterly/logging"
	"github.com/ByLCY/posterly/poster"
	"github.com/ByLCY/posterly/richtext"
)

// MaxQuoteLength 是名言可见文本的最大字符数。
const MaxQuoteLength = 150

var (
	// ErrQuoteTooLong 表示编辑会让名言超过 MaxQuoteLength。
	ErrQuoteTooLong = errors.New("名言长度超出限制")
	// ErrNotMounted 表示容器尚未挂载，无法回放手势。
	ErrNotMounted = errors.New("海报容器尚未挂载")
)

// Target 是指针按下的位置：文本框本体（KindMove）或某个把手。
type Target struct {
	Kind   geometry.Kind
	Handle geometry.Handle
}

// Body 表示按在文本框本体上。
var Body = Target{Kind: geometry.KindMove}

// HandleTarget 返回把手对应的按下目标。
func HandleTarget(h geometry.Handle) Target {
	if h == geometry.HandleRotate {
		return Target{Kind: geometry.KindRotate, Handle: h}
	}
	return Target{Kind: geometry.KindResize, Handle: h}
}

// Session 是单个海报的编辑会话。与 geometry.Engine 一样，所有调用都应来自同一个事件循环。
type Session struct {
	id        uuid.UUID
	poster    *poster.Poster
	engine    *geometry.Engine
	container *geometry.Rect
	selected  bool
	editing   bool
	fontDelta float64
	log       logging.Logger
	onChange  func(geometry.Box)
}

// Option 配置 Session。
type Option func(*sessionConfig)

type sessionConfig struct {
	log      logging.Logger
	geometry geometry.Options
	onChange func(geometry.Box)
}

// WithLogger 注入日志器，同时传给几何引擎。
func WithLogger(l logging.Logger) Option {
	return func(c *sessionConfig) { c.log = l }
}

// WithGeometryOptions 覆盖拖拽阈值与最小尺寸。
func WithGeometryOptions(o geometry.Options) Option {
	return func(c *sessionConfig) { c.geometry = o }
}

// OnChange 注册 Box 变化的观察者。
func OnChange(fn func(geometry.Box)) Option {
	return func(c *sessionConfig) { c.onChange = fn }
}

// NewSession 为海报创建会话。p 为 nil 时使用空名言的默认海报。
func NewSession(p *poster.Poster, opts ...Option) *Session {
	if p == nil {
		p = poster.New("untitled", "")
	}
	cfg := sessionConfig{geometry: geometry.DefaultOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Session{
		id:       uuid.New(),
		poster:   p,
		log:      logging.OrNop(cfg.log),
		onChange: cfg.onChange,
	}
	s.fontDelta = p.Style.FontSize - poster.BaseFontSize
	s.engine = geometry.NewEngine(p.Box,
		geometry.WithOptions(cfg.geometry),
		geometry.WithLogger(s.log),
		geometry.WithOnChange(s.boxChanged),
	)
	return s
}

func (s *Session) boxChanged(b geometry.Box) {
	s.poster.Box = b
	if s.onChange != nil {
		s.onChange(b)
	}
}

// ID 返回会话标识。
func (s *Session) ID() uuid.UUID { return s.id }

// Poster 返回会话编辑的海报，其 Box 始终与引擎同步。
func (s *Session) Poster() *poster.Poster { return s.poster }

// Box 返回当前文本框几何。
func (s *Session) Box() geometry.Box { return s.engine.Box() }

// Phase 返回当前手势阶段。
func (s *Session) Phase() geometry.Phase { return s.engine.Phase() }

// Selected 报告文本框是否处于选中状态（显示把手）。
func (s *Session) Selected() bool { return s.selected }

// Editing 报告是否正在编辑文字。
func (s *Session) Editing() bool { return s.editing }

// Mount 记录海报容器在屏幕上的矩形。无效矩形等同于卸载。
func (s *Session) Mount(r geometry.Rect) {
	if !r.Valid() {
		s.Unmount()
		return
	}
	s.container = &r
	s.log.Debugf("会话 %s 挂载容器 %.0fx%.0f", s.id, r.Width, r.Height)
}

// Unmount 移除容器；进行中的手势会被取消。
func (s *Session) Unmount() {
	if s.engine.Phase() != geometry.PhaseIdle {
		s.engine.Dispatch(geometry.PointerCancel{})
	}
	s.container = nil
}

// Mounted 报告容器是否可用。
func (s *Session) Mounted() bool { return s.container != nil }

// PointerDown 在目标上按下。编辑文字时指针归文本区域所有，按下被忽略。
func (s *Session) PointerDown(t Target, p geometry.Point) geometry.Outcome {
	if s.editing {
		return geometry.OutcomeIgnored
	}
	return s.engine.Dispatch(geometry.PointerDown{Kind: t.Kind, Handle: t.Handle, At: p, Container: s.container})
}

// PointerMove 移动指针。
func (s *Session) PointerMove(p geometry.Point) geometry.Outcome {
	return s.engine.Dispatch(geometry.PointerMove{At: p})
}

// PointerUp 抬起指针。未越过阈值的抬起视为点击，文本框进入选中状态。
func (s *Session) PointerUp(p geometry.Point) geometry.Outcome {
	out := s.engine.Dispatch(geometry.PointerUp{At: p})
	if out == geometry.OutcomeClick {
		s.selected = true
	}
	return out
}

// PointerCancel 取消当前手势。
func (s *Session) PointerCancel() geometry.Outcome {
	return s.engine.Dispatch(geometry.PointerCancel{})
}

// DoubleClick 进入文字编辑。
func (s *Session) DoubleClick() {
	if s.engine.Phase() != geometry.PhaseIdle {
		s.engine.Dispatch(geometry.PointerCancel{})
	}
	s.selected = true
	s.editing = true
}

// ClickOutside 在文本框外点击：提交编辑中的文字并取消选中。
// 提交失败时保留原名言，但仍然退出编辑。
func (s *Session) ClickOutside(html string) error {
	var err error
	if s.editing {
		err = s.SetQuote(html)
	}
	s.selected = false
	s.editing = false
	return err
}

// SetQuote 替换名言。只拒绝让可见文本增长到超过上限的修改，删减总是允许的。
func (s *Session) SetQuote(html string) error {
	n := richtext.Length(html)
	if n > MaxQuoteLength && n > richtext.Length(s.poster.Quote) {
		return fmt.Errorf("%w: %d/%d", ErrQuoteTooLong, n, MaxQuoteLength)
	}
	s.poster.Quote = html
	return nil
}

// InsertEmoji 把表情追加到名言末尾。
func (s *Session) InsertEmoji(emoji string) error {
	if emoji == "" {
		return nil
	}
	return s.SetQuote(s.poster.Quote + richtext.Escape(emoji))
}

// AdjustFontSize 在基础字号之上累加调整量，字号不会低于 1px。
func (s *Session) AdjustFontSize(delta float64) float64 {
	s.fontDelta += delta
	size := poster.BaseFontSize + s.fontDelta
	if size < 1 {
		size = 1
		s.fontDelta = size - poster.BaseFontSize
	}
	s.poster.Style.FontSize = size
	return size
}

// SetBox 直接设置文本框几何（例如数值输入），手势进行中返回 false。
func (s *Session) SetBox(b geometry.Box) bool { return s.engine.SetBox(b) }

// Replay 依次回放录制的手势。每个手势由引擎按 按下、移动、抬起 的顺序驱动，点击同样会选中文本框。
func (s *Session) Replay(strokes []geometry.Stroke) error {
	if s.container == nil {
		return ErrNotMounted
	}
	for i, st := range strokes {
		if err := st.Validate(); err != nil {
			return fmt.Errorf("第 %d 个手势无效: %w", i+1, err)
		}
		if s.editing {
			s.log.Warnf("正在编辑文字，忽略第 %d 个手势", i+1)
			continue
		}
		switch out := s.engine.Play(st, s.container); out {
		case geometry.OutcomeIgnored:
			s.log.Warnf("第 %d 个手势被忽略（%s）", i+1, out)
		case geometry.OutcomeClick:
			s.selected = true
		}
		s.log.Debugf("回放 %s 手势后 box=%+v", st.Kind, s.engine.Box())
	}
	return nil
}
