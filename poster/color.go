package poster

import (
	"fmt"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGBA 数值，A 省略时视为不透明。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// White 是默认文字颜色。
var White = Color{R: 255, G: 255, B: 255, A: 255}

// RGB 构造不透明颜色。
func RGB(r, g, b int) Color { return Color{R: r, G: g, B: b, A: 255} }

// ParseColor 解析 #rgb、#rrggbb、#rrggbbaa。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		expanded := make([]byte, 0, 6)
		for i := 0; i < 3; i++ {
			expanded = append(expanded, v[i], v[i])
		}
		v = string(expanded)
		fallthrough
	case 6:
		v += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{
		R: int(n >> 24 & 0xff),
		G: int(n >> 16 & 0xff),
		B: int(n >> 8 & 0xff),
		A: int(n & 0xff),
	}, nil
}

// MustColor 用于包内常量表，解析失败直接 panic。
func MustColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

// String 返回 #rrggbb（不透明）或 #rrggbbaa。
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// WithAlpha 返回透明度为 a（0-1）的副本。
func (c Color) WithAlpha(a float64) Color {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = int(a*255 + 0.5)
	return c
}
