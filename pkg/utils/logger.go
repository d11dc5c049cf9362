package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	level      = new(slog.LevelVar)
	output     io.Writer = os.Stdout
	jsonFormat bool

	// Logger 是应用使用的基础 logger，默认 text 格式输出到标准输出。
	Logger = newLogger()
)

func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: level, AddSource: true}
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(output, opts)).With("app", "dataproxy")
	}
	return slog.New(slog.NewTextHandler(output, opts)).With("app", "dataproxy")
}

// ParseLevel 解析 debug / info / warn / error，空字符串视为 info。
func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// InitLogger 设置日志级别与格式（text / json）；无法识别的级别回退到 info 并打印警告。
func InitLogger(lvl, format string) {
	l, err := ParseLevel(lvl)
	level.Set(l)
	jsonFormat = strings.EqualFold(strings.TrimSpace(format), "json")
	Logger = newLogger()
	slog.SetDefault(Logger)
	if err != nil {
		Logger.Warn("falling back to info", "error", err)
	}
}

// SetOutput 替换输出目标，主要用于测试。
func SetOutput(w io.Writer) {
	output = w
	Logger = newLogger()
}

func CurrentLevel() slog.Level {
	return level.Level()
}
