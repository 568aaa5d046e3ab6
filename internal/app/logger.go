package app

import (
	"io"
	"log/slog"
)

// newLogger builds the App's private slog.Logger from the validated config
// strings. The global default logger is left alone so embedders and tests can
// run several apps with independent log sinks.
//
// Unrecognized level strings fall back to info; the CLI rejects them earlier,
// so the fallback only matters for programmatic construction.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr)}

	var handler slog.Handler
	switch formatStr {
	case "json":
		handler = slog.NewJSONHandler(outW, opts)
	default:
		handler = slog.NewTextHandler(outW, opts)
	}
	return slog.New(handler)
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
