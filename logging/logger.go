package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger 是各个包共用的分级日志接口。
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger 基于标准库 log 输出，Info/Debug 写 stdout，Warn/Error 写 stderr。
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

// New 创建写往标准输出/错误的日志器。
func New(prefix string, debug bool) *DefaultLogger {
	return NewWithWriters(prefix, debug, os.Stdout, os.Stderr)
}

// NewWithWriters 允许测试或 CLI 指定输出目标。
func NewWithWriters(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) format(level, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, msg)
	}
	return level + ": " + msg
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.format("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.format("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.format("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.format("ERROR", format, args...))
}

type nopLogger struct{}

// Nop 返回丢弃所有输出的日志器，库代码在未注入 Logger 时使用。
func Nop() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool { return false }
func (nopLogger) SetDebug(bool) {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}

// OrNop 在 l 为 nil 时返回 Nop()。
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
