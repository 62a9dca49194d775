package logger

import (
	"log/slog"
	"os"
	"strings"
)

var L *slog.Logger // Global logger instance

// InitLogger initializes the global logger.
// Call this once at application startup, after loading config.
func InitLogger(logLevelStr string) {
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("invalid LOG_LEVEL specified, defaulting to info", "configuredLevel", logLevelStr)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)
	slog.SetDefault(L)
}

func init() {
	// Keep L usable before InitLogger runs (tests, CLI subcommands).
	L = slog.Default()
}
