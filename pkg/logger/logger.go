package logger

import (
	"io"
	"log/slog"
	"os"

	"fusiondex/pkg/utils"
)

// Init installs the process-wide slog handler described by cfg.
func Init(cfg utils.LogConfig) {
	slog.SetDefault(New(os.Stdout, cfg))
	slog.With("component", "logger").Debug("logger initialized",
		"level", cfg.Level,
		"json_format", cfg.JSONFormat,
	)
}

func New(w io.Writer, cfg utils.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.JSONFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
