package geometry

import (
	"fmt"
	"strings"
)

// Kind 区分手势类型。
type Kind int

const (
	KindMove Kind = iota
	KindResize
	KindRotate
)

func (k Kind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindResize:
		return "resize"
	case KindRotate:
		return "rotate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind 解析 "move" / "resize" / "rotate"。
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "move":
		return KindMove, nil
	case "resize":
		return KindResize, nil
	case "rotate":
		return KindRotate, nil
	default:
		return 0, fmt.Errorf("未知的手势类型 %q", s)
	}
}

// Handle 标识拖拽把手：八个缩放把手按罗盘方位命名，外加一个旋转把手。
type Handle string

const (
	HandleNone   Handle = ""
	HandleTL     Handle = "tl"
	HandleT      Handle = "t"
	HandleTR     Handle = "tr"
	HandleL      Handle = "l"
	HandleR      Handle = "r"
	HandleBL     Handle = "bl"
	HandleB      Handle = "b"
	HandleBR     Handle = "br"
	HandleRotate Handle = "rotate"
)

// ResizeHandles 按界面绘制顺序列出八个缩放把手。
var ResizeHandles = []Handle{HandleTL, HandleT, HandleTR, HandleL, HandleR, HandleBL, HandleB, HandleBR}

// ParseHandle 校验把手标识。
func ParseHandle(s string) (Handle, error) {
	h := Handle(strings.ToLower(strings.TrimSpace(s)))
	if h == HandleNone || h == HandleRotate || h.IsResize() {
		return h, nil
	}
	return HandleNone, fmt.Errorf("未知的把手 %q", s)
}

// IsResize 报告 h 是否为八个缩放把手之一。
func (h Handle) IsResize() bool {
	for _, r := range ResizeHandles {
		if h == r {
			return true
		}
	}
	return false
}

// Edges 返回该把手会移动的边。旋转把手不移动任何边，
// 因此不能直接对 "rotate" 做字母匹配（其中含有 t）。
func (h Handle) Edges() (left, right, top, bottom bool) {
	if !h.IsResize() {
		return false, false, false, false
	}
	s := string(h)
	return strings.Contains(s, "l"), strings.Contains(s, "r"),
		strings.Contains(s, "t"), strings.Contains(s, "b")
}
