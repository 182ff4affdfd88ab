package geometry

import "fmt"

// Stroke 是一次录制好的手势：在 Points[0] 按下，依次移动到其余各点，
// 最后在最后一个点抬起；Cancel 为 true 时改为取消。
type Stroke struct {
	Kind   Kind
	Handle Handle
	Points []Point
	Cancel bool
}

// Validate 检查手势脚本是否完整。
func (s Stroke) Validate() error {
	if len(s.Points) == 0 {
		return fmt.Errorf("%s 手势缺少按下位置", s.Kind)
	}
	switch s.Kind {
	case KindMove:
	case KindResize:
		if !s.Handle.IsResize() {
			return fmt.Errorf("缩放手势需要有效的把手，当前 %q", s.Handle)
		}
	case KindRotate:
	default:
		return fmt.Errorf("未知的手势类型 %d", int(s.Kind))
	}
	return nil
}

// Play 在引擎上回放手势，返回最终结果（OutcomeClick、OutcomeEnded 或 OutcomeIgnored）。
func (e *Engine) Play(s Stroke, container *Rect) Outcome {
	if len(s.Points) == 0 {
		return OutcomeIgnored
	}
	out, _ := e.Interact(s.Kind, s.Handle, s.Points[0], container, func(in *Interaction) error {
		for _, p := range s.Points[1:] {
			in.Move(p)
		}
		if !s.Cancel {
			in.End(s.Points[len(s.Points)-1])
		}
		return nil
	})
	return out
}
