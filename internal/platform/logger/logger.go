package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"lifepath/internal/platform/config"
)

// New returns a structured logger writing to stdout. JSON in production,
// text otherwise, unless LOG_FORMAT says which.
func New(cfg config.Log, production bool) *slog.Logger {
	return NewWithWriter(os.Stdout, cfg, production)
}

func NewWithWriter(w io.Writer, cfg config.Log, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "text"
		if production {
			format = "json"
		}
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to slog.Level; unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
