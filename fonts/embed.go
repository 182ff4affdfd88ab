// Package fonts 提供导出时使用的内置字形（Go 字体家族），不依赖系统字体。
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	Sans = "sans"
	Mono = "mono"
)

// Variant 是字重与字形的组合。
type Variant struct {
	Bold   bool
	Italic bool
}

func (v Variant) String() string {
	switch {
	case v.Bold && v.Italic:
		return "bold-italic"
	case v.Bold:
		return "bold"
	case v.Italic:
		return "italic"
	default:
		return "regular"
	}
}

var faces = map[string][4][]byte{
	Sans: {goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
	Mono: {gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
}

func (v Variant) index() int {
	i := 0
	if v.Bold {
		i |= 1
	}
	if v.Italic {
		i |= 2
	}
	return i
}

// Face 返回字形数据。未知字形按 sans 处理。
func Face(face string, v Variant) []byte {
	set, ok := faces[strings.ToLower(face)]
	if !ok {
		set = faces[Sans]
	}
	return set[v.index()]
}

// Name 返回 Load 可识别的名称，例如 "embed:sans-bold-italic"。
func Name(face string, v Variant) string {
	return "embed:" + strings.ToLower(face) + "-" + v.String()
}

// Load 按名称读取内置字形，名称可带 "embed:" 前缀，形如 "sans-bold" 或 "mono-regular"。
func Load(name string) ([]byte, error) {
	clean := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	face, variant, ok := strings.Cut(clean, "-")
	if !ok {
		variant = "regular"
	}
	if _, known := faces[face]; !known {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字形 %q", name, face)
	}
	for _, v := range []Variant{{}, {Bold: true}, {Italic: true}, {Bold: true, Italic: true}} {
		if v.String() == variant {
			return Face(face, v), nil
		}
	}
	return nil, fmt.Errorf("读取内置字体 %s 失败: 未知变体 %q", name, variant)
}
