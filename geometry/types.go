package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 该文件定义文本框的几何模型。位置与尺寸均为容器宽/高的百分比（0-100），
// 旋转角度单位为度，围绕文本框自身中心生效，不影响位置与尺寸。

// Point 是屏幕像素坐标或百分比坐标，具体含义由字段所在的结构决定。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub 返回 p - o。
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

// Len 返回向量长度（欧氏距离）。
func (p Point) Len() float64 { return p.vec().Len() }

func (p Point) vec() mgl64.Vec2 { return mgl64.Vec2{p.X, p.Y} }

// Size 记录宽高百分比。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box 是编辑会话中唯一的可移动、可缩放、可旋转的文本层。
type Box struct {
	Position Point   `json:"position"` // 中心点，容器百分比
	Size     Size    `json:"size"`     // 容器百分比
	Rotation float64 `json:"rotation"` // 度，允许累积，不做回绕
}

// DefaultBox 居中，宽 80%，高 50%，无旋转。
func DefaultBox() Box {
	return Box{
		Position: Point{X: 50, Y: 50},
		Size:     Size{Width: 80, Height: 50},
	}
}

// Rect 是容器在屏幕上的像素包围盒（等价于 getBoundingClientRect）。
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid 报告该矩形能否用于百分比换算：宽高都必须为正的有限值。
func (r Rect) Valid() bool {
	return r.Width > 0 && r.Height > 0 &&
		!math.IsInf(r.Width, 0) && !math.IsInf(r.Height, 0) &&
		!math.IsNaN(r.Left) && !math.IsNaN(r.Top)
}

// ToPercent 将像素位移换算为容器百分比。
func (r Rect) ToPercent(d Point) Point {
	return Point{X: d.X / r.Width * 100, Y: d.Y / r.Height * 100}
}

// Center 返回 b 在屏幕坐标中的中心点。旋转围绕中心进行，因此中心不受旋转影响。
func (b Box) Center(container Rect) Point {
	return Point{
		X: container.Left + b.Position.X/100*container.Width,
		Y: container.Top + b.Position.Y/100*container.Height,
	}
}

// PixelSize 返回 b 在容器中的像素宽高。
func (b Box) PixelSize(container Rect) (float64, float64) {
	return b.Size.Width / 100 * container.Width, b.Size.Height / 100 * container.Height
}

// NormalizeDegrees 将角度折算到 [0,360)。引擎本身不会调用它，旋转值允许累积。
func NormalizeDegrees(deg float64) float64 {
	n := math.Mod(deg, 360)
	if n < 0 {
		n += 360
	}
	return n
}
