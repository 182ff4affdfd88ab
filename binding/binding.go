package binding

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ByLCY/posterly/richtext"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template 是预先切分好的带 ${path} 占位符的文本。
type Template struct {
	parts []part
}

type part struct {
	literal string
	path    string // 非空表示占位符
	raw     string // 占位符原文，未解析时原样输出
}

// Compile 切分文本中的占位符。空白路径（${ }）按普通文本处理。
func Compile(text string) *Template {
	t := &Template{}
	last := 0
	for _, loc := range exprPattern.FindAllStringSubmatchIndex(text, -1) {
		path := strings.TrimSpace(text[loc[2]:loc[3]])
		if path == "" {
			continue
		}
		if loc[0] > last {
			t.parts = append(t.parts, part{literal: text[last:loc[0]]})
		}
		t.parts = append(t.parts, part{path: path, raw: text[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(text) {
		t.parts = append(t.parts, part{literal: text[last:]})
	}
	return t
}

// Execute 用 data 填充占位符，返回结果与未能解析的路径。
// escape 为 true 时对取到的值做 HTML 转义，用于写入名言的内联 HTML。
func (t *Template) Execute(data any, escape bool) (string, []string) {
	var b strings.Builder
	var missing []string
	for _, p := range t.parts {
		if p.path == "" {
			b.WriteString(p.literal)
			continue
		}
		val, ok := resolvePath(data, p.path)
		if !ok {
			missing = append(missing, p.path)
			b.WriteString(p.raw)
			continue
		}
		s := format(val)
		if escape {
			s = richtext.Escape(s)
		}
		b.WriteString(s)
	}
	return b.String(), missing
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	out, _ := Compile(text).Execute(data, false)
	return out
}

// InterpolateHTML 与 Interpolate 相同，但对替换值做 HTML 转义，并返回缺失的路径。
func InterpolateHTML(text string, data any) (string, []string) {
	return Compile(text).Execute(data, true)
}

// Decode 解析 JSON 数据；空输入返回 nil。
func Decode(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func resolvePath(data any, path string) (any, bool) {
	if data == nil {
		return nil, false
	}
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 name[0][1] 形式的路径段。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, segment != ""
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}
