package geometry

import "fmt"

// DragThreshold 是确认拖拽所需的最小欧氏位移（像素）。未超过该阈值即抬起视为点击。
const DragThreshold = 5.0

// Options 控制引擎行为。
type Options struct {
	// Threshold 覆盖 DragThreshold，<=0 时使用默认值。
	Threshold float64
	// MinSize 为缩放时的最小宽高（百分比），分量为 0 表示不限制。
	MinSize Size
}

// DefaultOptions 使用 5px 阈值，并保证缩放后宽高不小于 1%。
func DefaultOptions() Options {
	return Options{
		Threshold: DragThreshold,
		MinSize:   Size{Width: 1, Height: 1},
	}
}

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DragThreshold
	}
	return o.Threshold
}

// Gesture 记录一次按下时的全部上下文，整个手势期间只读。
type Gesture struct {
	Kind      Kind
	Handle    Handle
	Start     Point // 按下时的指针屏幕坐标
	Snapshot  Box   // 按下时的 Box
	Container Rect  // 按下时查询到的容器矩形，手势期间复用
	// AngleOffset = 起始角度 - 起始旋转，仅旋转手势使用。
	AngleOffset float64
}

// Phase 是状态机的阶段标签。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmedPending
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseArmedPending:
		return "armed-pending"
	case PhaseActive:
		return "active"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State 是 {Idle, ArmedPending, Active} 的标签联合，只有本包内的类型实现它。
type State interface {
	Phase() Phase
	isState()
}

// Idle 既是初始状态也是两次手势之间的终止状态。
type Idle struct{}

// ArmedPending 表示已按下但位移尚未超过阈值。
type ArmedPending struct{ Gesture Gesture }

// Active 表示手势已确认，指针移动会更新 Box。
type Active struct{ Gesture Gesture }

func (Idle) Phase() Phase         { return PhaseIdle }
func (ArmedPending) Phase() Phase { return PhaseArmedPending }
func (Active) Phase() Phase       { return PhaseActive }

func (Idle) isState()         {}
func (ArmedPending) isState() {}
func (Active) isState()       {}

// Event 是输入给状态机的指针事件。
type Event interface{ isEvent() }

// PointerDown 在把手（或文本框本体）上按下。Container 为 nil 表示容器尚未挂载。
type PointerDown struct {
	Kind      Kind
	Handle    Handle
	At        Point
	Container *Rect
}

// PointerMove 指针移动到 At。
type PointerMove struct{ At Point }

// PointerUp 指针抬起。
type PointerUp struct{ At Point }

// PointerCancel 指针被系统取消（例如触摸被打断）。
type PointerCancel struct{}

func (PointerDown) isEvent()   {}
func (PointerMove) isEvent()   {}
func (PointerUp) isEvent()     {}
func (PointerCancel) isEvent() {}

// Outcome 描述一次 Step 的效果，供调用方决定是否重绘或切换选中状态。
type Outcome int

const (
	// OutcomeNone 没有任何变化。
	OutcomeNone Outcome = iota
	// OutcomeArmed 进入 ArmedPending。
	OutcomeArmed
	// OutcomeActivated 越过阈值进入 Active，并已应用第一次变换。
	OutcomeActivated
	// OutcomeTransformed Active 期间应用了一次变换。
	OutcomeTransformed
	// OutcomeClick 未越过阈值即抬起，应当按点击处理。
	OutcomeClick
	// OutcomeEnded Active 手势结束。
	OutcomeEnded
	// OutcomeIgnored 事件被忽略：容器不可用，或手势进行中又来了新的按下。
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeArmed:
		return "armed"
	case OutcomeActivated:
		return "activated"
	case OutcomeTransformed:
		return "transformed"
	case OutcomeClick:
		return "click"
	case OutcomeEnded:
		return "ended"
	case OutcomeIgnored:
		return "ignored"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Changed 报告该结果是否修改了 Box。
func (o Outcome) Changed() bool {
	return o == OutcomeActivated || o == OutcomeTransformed
}

// Step 是状态机的纯更新函数：给定当前状态、Box 与事件，返回新状态、新 Box 与结果。
// 每次调用都是 O(1)。
func Step(state State, box Box, ev Event, opts Options) (State, Box, Outcome) {
	if state == nil {
		state = Idle{}
	}
	switch e := ev.(type) {
	case PointerDown:
		if state.Phase() != PhaseIdle {
			return state, box, OutcomeIgnored
		}
		if e.Container == nil || !e.Container.Valid() {
			return state, box, OutcomeIgnored
		}
		g := Gesture{
			Kind:      e.Kind,
			Handle:    e.Handle,
			Start:     e.At,
			Snapshot:  box,
			Container: *e.Container,
		}
		if e.Kind == KindRotate {
			g.AngleOffset = PointerAngle(box.Center(g.Container), e.At) - box.Rotation
		}
		return ArmedPending{Gesture: g}, box, OutcomeArmed

	case PointerMove:
		switch s := state.(type) {
		case ArmedPending:
			if e.At.Sub(s.Gesture.Start).Len() <= opts.threshold() {
				return s, box, OutcomeNone
			}
			return Active{Gesture: s.Gesture}, s.Gesture.Apply(e.At, opts), OutcomeActivated
		case Active:
			return s, s.Gesture.Apply(e.At, opts), OutcomeTransformed
		default:
			return state, box, OutcomeNone
		}

	case PointerUp:
		switch state.(type) {
		case ArmedPending:
			return Idle{}, box, OutcomeClick
		case Active:
			return Idle{}, box, OutcomeEnded
		default:
			return state, box, OutcomeNone
		}

	case PointerCancel:
		switch state.(type) {
		case ArmedPending:
			return Idle{}, box, OutcomeNone
		case Active:
			return Idle{}, box, OutcomeEnded
		default:
			return state, box, OutcomeNone
		}
	}
	return state, box, OutcomeNone
}
