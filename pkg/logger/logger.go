package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is usable before Init; Init swaps in the configured JSON handler.
var Log = slog.Default()

// Init configures the global JSON logger. Level comes from LOG_LEVEL
// (debug|info|warn|error), defaulting to debug. The slog default is updated
// too, so packages logging through slog directly share the handler.
func Init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
