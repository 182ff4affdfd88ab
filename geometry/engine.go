package geometry

import "github.com/ByLCY/posterly/logging"

// Engine 持有唯一的 Box 与当前手势状态，把指针事件串行地交给 Step。
// Engine 不是并发安全的：所有调用都应来自同一个事件循环。
type Engine struct {
	opts     Options
	state    State
	box      Box
	log      logging.Logger
	onChange func(Box)
	current  *Interaction
}

// EngineOption 配置 Engine。
type EngineOption func(*Engine)

// WithOptions 替换默认的阈值与最小尺寸配置。
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) { e.opts = opts }
}

// WithLogger 注入日志器。
func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) { e.log = logging.OrNop(l) }
}

// WithOnChange 在每次 Box 被修改后回调，通常用于通知渲染层。
func WithOnChange(fn func(Box)) EngineOption {
	return func(e *Engine) { e.onChange = fn }
}

// NewEngine 创建处于 Idle 状态的引擎。
func NewEngine(box Box, opts ...EngineOption) *Engine {
	e := &Engine{
		opts:  DefaultOptions(),
		state: Idle{},
		box:   box,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Box 返回当前 Box。
func (e *Engine) Box() Box { return e.box }

// SetBox 直接替换 Box（例如侧边面板输入）。手势进行中调用会被忽略并返回 false。
func (e *Engine) SetBox(b Box) bool {
	if e.state.Phase() != PhaseIdle {
		e.log.Debugf("手势进行中，忽略 SetBox")
		return false
	}
	e.box = b
	e.notify()
	return true
}

// Phase 返回当前状态阶段。
func (e *Engine) Phase() Phase { return e.state.Phase() }

// State 返回当前状态值（只读副本）。
func (e *Engine) State() State { return e.state }

// Dispatch 把事件交给状态机并更新内部状态。
func (e *Engine) Dispatch(ev Event) Outcome {
	prev := e.state.Phase()
	next, box, outcome := Step(e.state, e.box, ev, e.opts)
	e.state = next
	e.box = box
	if next.Phase() != prev {
		e.log.Debugf("gesture %s -> %s (%s)", prev, next.Phase(), outcome)
	}
	if outcome == OutcomeIgnored {
		e.log.Debugf("忽略事件 %T", ev)
	}
	if next.Phase() == PhaseIdle && e.current != nil && !e.current.closed {
		// 手势经由 Dispatch 结束时同样释放作用域，旧句柄不能驱动下一次手势
		e.current.closed = true
		e.current.result = outcome
	}
	if outcome.Changed() {
		e.notify()
	}
	return outcome
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange(e.box)
	}
}

// Interaction 是一次手势的作用域订阅：Begin 获取，End/Cancel 释放。
// 释放是幂等的，释放后的 Move 不再产生任何变换。
type Interaction struct {
	engine *Engine
	kind   Kind
	closed bool
	result Outcome
}

// Begin 在把手上按下。容器不可用或已有手势进行中时返回 nil 与 false，状态不变。
func (e *Engine) Begin(kind Kind, handle Handle, at Point, container *Rect) (*Interaction, bool) {
	if e.current != nil && !e.current.closed {
		e.log.Debugf("已有 %s 手势进行中，忽略新的按下", e.current.kind)
		return nil, false
	}
	if e.Dispatch(PointerDown{Kind: kind, Handle: handle, At: at, Container: container}) != OutcomeArmed {
		return nil, false
	}
	e.current = &Interaction{engine: e, kind: kind}
	return e.current, true
}

// Interact 把 Begin 与 End 包在一起：fn 返回后（包括 panic 与提前返回）一定会释放手势。
// fn 返回错误时按取消处理。
func (e *Engine) Interact(kind Kind, handle Handle, at Point, container *Rect, fn func(*Interaction) error) (out Outcome, err error) {
	in, ok := e.Begin(kind, handle, at, container)
	if !ok {
		return OutcomeIgnored, nil
	}
	defer func() {
		in.Cancel()
		out = in.result
	}()
	return OutcomeNone, fn(in)
}

// Kind 返回手势类型。
func (in *Interaction) Kind() Kind { return in.kind }

// Closed 报告该手势是否已释放。
func (in *Interaction) Closed() bool { return in.closed }

// Move 把指针移动到 at。
func (in *Interaction) Move(at Point) Outcome {
	if in.closed {
		return OutcomeNone
	}
	return in.engine.Dispatch(PointerMove{At: at})
}

// End 在 at 抬起指针并释放手势，返回 OutcomeClick 或 OutcomeEnded。
func (in *Interaction) End(at Point) Outcome {
	if in.closed {
		return in.result
	}
	in.closed = true
	in.result = in.engine.Dispatch(PointerUp{At: at})
	return in.result
}

// Cancel 以取消方式释放手势；已释放时无操作。
func (in *Interaction) Cancel() {
	if in.closed {
		return
	}
	in.closed = true
	in.result = in.engine.Dispatch(PointerCancel{})
}
