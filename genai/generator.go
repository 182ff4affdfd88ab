// Package genai 负责 AI 生成名言与背景图，并在没有 API Key 或调用失败时退回内置名言。
package genai

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrNoAPIKey 表示环境变量与 .env 文件中都没有可用的 API Key。
var ErrNoAPIKey = errors.New("未设置 API_KEY")

// APIKeyVars 按优先级列出读取 API Key 的变量名。
var APIKeyVars = []string{"API_KEY", "GEMINI_API_KEY"}

// Image 是生成的背景图。
type Image struct {
	Data     []byte
	MIMEType string
}

// Generator 是生成式模型的最小接口。
type Generator interface {
	GenerateQuote(ctx context.Context, topic, lang string) (string, error)
	GenerateBackground(ctx context.Context, prompt string) (*Image, error)
}

// LoadAPIKey 先读环境变量，再读 envFile（为空时读当前目录的 .env，文件不存在不算错误）。
// 不会修改进程环境。
func LoadAPIKey(envFile string) (string, error) {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	vals, err := godotenv.Read(envFile)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("读取 %s 失败: %w", envFile, err)
		}
		vals = nil
	}
	for _, k := range APIKeyVars {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, nil
		}
	}
	for _, k := range APIKeyVars {
		if v := strings.TrimSpace(vals[k]); v != "" {
			return v, nil
		}
	}
	return "", ErrNoAPIKey
}
