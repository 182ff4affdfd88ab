package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 以下均为纯函数：输入手势开始时的快照与指针位移，输出新的 Box。
// 同一快照与同一位移总是得到同一结果，重复调用不会累积误差。

// MoveBox 平移中心点：position = snapshot + 位移 / 容器尺寸 × 100，不做边界约束。
func MoveBox(snapshot Box, d Point, container Rect) Box {
	out := snapshot
	out.Position.X = snapshot.Position.X + (d.X/container.Width)*100
	out.Position.Y = snapshot.Position.Y + (d.Y/container.Height)*100
	return out
}

// ResizeBox 按把手移动对应的边。含 r 的把手宽度增加 dx，含 l 的减少 dx；
// t/b 对高度同理。任何被移动的边都会让中心在该轴上偏移位移的一半。
// minSize 的某一分量大于 0 时，该轴在被拖动的情况下不会小于此值，且对边保持不动；
// 分量为 0 表示不限制（允许零或负尺寸）。
func ResizeBox(snapshot Box, h Handle, d Point, container Rect, minSize Size) Box {
	left, right, top, bottom := h.Edges()
	if !left && !right && !top && !bottom {
		return snapshot
	}

	widthPx, heightPx := snapshot.PixelSize(container)
	if right {
		widthPx += d.X
	}
	if left {
		widthPx -= d.X
	}
	if bottom {
		heightPx += d.Y
	}
	if top {
		heightPx -= d.Y
	}

	x, y := snapshot.Position.X, snapshot.Position.Y
	if left || right {
		x += (d.X / container.Width) * 100 / 2
	}
	if top || bottom {
		y += (d.Y / container.Height) * 100 / 2
	}

	out := snapshot
	out.Size = Size{
		Width:  widthPx / container.Width * 100,
		Height: heightPx / container.Height * 100,
	}
	out.Position = Point{X: x, Y: y}

	if minSize.Width > 0 && (left || right) && out.Size.Width < minSize.Width {
		out.Size.Width = minSize.Width
		out.Position.X = anchoredCenter(snapshot.Position.X, snapshot.Size.Width, minSize.Width, right)
	}
	if minSize.Height > 0 && (top || bottom) && out.Size.Height < minSize.Height {
		out.Size.Height = minSize.Height
		out.Position.Y = anchoredCenter(snapshot.Position.Y, snapshot.Size.Height, minSize.Height, bottom)
	}
	return out
}

// anchoredCenter 计算尺寸被钳制后的中心：拖动远端（r/b）时近端固定，反之远端固定。
func anchoredCenter(center, size, clamped float64, farEdge bool) float64 {
	if farEdge {
		return center - size/2 + clamped/2
	}
	return center + size/2 - clamped/2
}

// PointerAngle 返回 p 相对 center 的方位角（度），与 atan2(dy, dx) 一致。
func PointerAngle(center, p Point) float64 {
	v := p.Sub(center).vec()
	return mgl64.RadToDeg(math.Atan2(v.Y(), v.X()))
}

// RotateBox 设置 rotation = 当前角度 - 起始偏移，使旋转相对连续而不是跳到指针方向。
func RotateBox(snapshot Box, angleOffset, currentAngle float64) Box {
	out := snapshot
	out.Rotation = currentAngle - angleOffset
	return out
}

// Apply 根据手势类型把指针位置换算为新的 Box。
func (g Gesture) Apply(pointer Point, opts Options) Box {
	d := pointer.Sub(g.Start)
	switch g.Kind {
	case KindMove:
		return MoveBox(g.Snapshot, d, g.Container)
	case KindResize:
		return ResizeBox(g.Snapshot, g.Handle, d, g.Container, opts.MinSize)
	case KindRotate:
		return RotateBox(g.Snapshot, g.AngleOffset, PointerAngle(g.Snapshot.Center(g.Container), pointer))
	default:
		return g.Snapshot
	}
}
