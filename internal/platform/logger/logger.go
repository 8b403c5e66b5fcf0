package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Debug mode lowers the level
// so per-request logging becomes visible.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
