package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"gonum.org/v1/gonum/floats"

	"github.com/ByLCY/posterly/layout"
)

// rasterBackground 把渐变或图片背景栅格化为 w×h 像素，并按 radius 像素裁出圆角。
func rasterBackground(bg layout.Background, w, h int, radius float64) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("背景尺寸无效: %dx%d", w, h)
	}
	var dst *image.RGBA
	switch bg.Kind {
	case "gradient":
		dst = linearGradient(bg.Colors, w, h)
	case "image":
		src, _, err := image.Decode(bytes.NewReader(bg.Image))
		if err != nil {
			return nil, fmt.Errorf("解码背景图片 %s 失败: %w", bg.Src, err)
		}
		dst = coverImage(src, w, h)
	default:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), image.NewUniform(rgba(bg.Color)), image.Point{}, draw.Src)
	}
	roundCorners(dst, radius)
	return dst, nil
}

// linearGradient 生成从左到右的渐变，颜色在 [0,1] 上均匀分布。
func linearGradient(colors []layout.Color, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(colors) == 0 {
		return dst
	}
	if len(colors) == 1 {
		colors = append(colors, colors[0])
	}
	stops := floats.Span(make([]float64, len(colors)), 0, 1)

	row := make([]uint8, 4*w)
	for x := 0; x < w; x++ {
		t := (float64(x) + 0.5) / float64(w)
		c := sampleStops(stops, colors, t)
		copy(row[4*x:], []uint8{c.R, c.G, c.B, c.A})
	}
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:], row)
	}
	return dst
}

func sampleStops(stops []float64, colors []layout.Color, t float64) color.RGBA {
	i := 1
	for i < len(stops)-1 && t > stops[i] {
		i++
	}
	span := stops[i] - stops[i-1]
	f := 0.0
	if span > 0 {
		f = math.Min(math.Max((t-stops[i-1])/span, 0), 1)
	}
	a, b := colors[i-1], colors[i]
	lerp := func(x, y int) float64 { return float64(x) + (float64(y)-float64(x))*f }
	return premultiply(lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), lerp(a.A, b.A))
}

// coverImage 等比缩放并居中裁切，使图片铺满 w×h（CSS background-size: cover）。
func coverImage(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Empty() {
		return dst
	}
	scale := math.Max(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
	cw := float64(w) / scale
	ch := float64(h) / scale
	x0 := float64(sb.Min.X) + (float64(sb.Dx())-cw)/2
	y0 := float64(sb.Min.Y) + (float64(sb.Dy())-ch)/2
	crop := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x0+cw)), int(math.Round(y0+ch))).Intersect(sb)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// roundCorners 把四个角以抗锯齿的方式变为透明。
func roundCorners(img *image.RGBA, radius float64) {
	b := img.Bounds()
	radius = math.Min(radius, math.Min(float64(b.Dx()), float64(b.Dy()))/2)
	if radius <= 0 {
		return
	}
	r := int(math.Ceil(radius))
	corners := []struct{ x0, y0 int }{
		{b.Min.X, b.Min.Y},
		{b.Max.X - r, b.Min.Y},
		{b.Min.X, b.Max.Y - r},
		{b.Max.X - r, b.Max.Y - r},
	}
	for ci, c := range corners {
		// 圆心
		cx := float64(b.Min.X) + radius
		cy := float64(b.Min.Y) + radius
		if ci == 1 || ci == 3 {
			cx = float64(b.Max.X) - radius
		}
		if ci >= 2 {
			cy = float64(b.Max.Y) - radius
		}
		for y := c.y0; y < c.y0+r; y++ {
			for x := c.x0; x < c.x0+r; x++ {
				px, py := float64(x)+0.5, float64(y)+0.5
				// 只处理位于圆心外侧的像素
				if (ci == 0 || ci == 2) && px > cx || (ci == 1 || ci == 3) && px < cx {
					continue
				}
				if ci < 2 && py > cy || ci >= 2 && py < cy {
					continue
				}
				cover := math.Min(math.Max(radius-math.Hypot(px-cx, py-cy)+0.5, 0), 1)
				if cover >= 1 {
					continue
				}
				i := img.PixOffset(x, y)
				for k := 0; k < 4; k++ {
					img.Pix[i+k] = uint8(math.Round(float64(img.Pix[i+k]) * cover))
				}
			}
		}
	}
}

func premultiply(r, g, b, a float64) color.RGBA {
	k := a / 255
	return color.RGBA{
		R: uint8(math.Round(r * k)),
		G: uint8(math.Round(g * k)),
		B: uint8(math.Round(b * k)),
		A: uint8(math.Round(a)),
	}
}

// rgba 把布局颜色转换为预乘的 color.RGBA。
func rgba(c layout.Color) color.RGBA {
	return premultiply(float64(c.R), float64(c.G), float64(c.B), float64(c.A))
}
