package obs

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a JSON slog logger, or a text one for local dev.
// LOG_LEVEL overrides the default info level.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levelFromEnv()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if env == "dev" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
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
