package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New crea el logger JSON del servicio con el nivel indicado.
func New(level string) *slog.Logger {
	return newWithWriter(os.Stdout, level)
}

func newWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
