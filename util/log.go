package util

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SetupLogger 设置默认 slog 文本日志，level 取值 debug/info/warn/error
func SetupLogger(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}
