package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Tiliavir/worktimer/internal/config"
)

// NewLogger builds the process logger on w and installs it as the slog
// default. Source locations are only attached at debug level.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		h = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(h).With(slog.String("app", "wt"))
	slog.SetDefault(l)
	return l
}

// parseLevel accepts the slog level names in any case, including offsets
// such as "warn+2". Anything else is info.
func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
