package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/posterly/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PNG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Format 是导出格式。
type Format string

const (
	PNG Format = "png"
	PDF Format = "pdf"
)

// ParseFormat 解析格式名，忽略大小写与前导点。
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case PNG, PDF:
		return f, nil
	case "":
		return PNG, nil
	default:
		return "", fmt.Errorf("不支持的导出格式 %q（可选 png / pdf）", s)
	}
}

// Ext 返回带点的扩展名。
func (f Format) Ext() string { return "." + string(f) }
