package logger

import (
	"log/slog"
	"os"
)

// Log is the process-wide logger shared by handlers, services and jobs.
var Log *slog.Logger

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
