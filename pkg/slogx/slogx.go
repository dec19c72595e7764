// Package slogx sets up the process-wide structured logger and threads
// request-scoped loggers through context.
package slogx

import (
	"log/slog"
	"os"
	"strings"
)

// Config describes the service identity and output shape of the logger.
// Level and Format are free-form strings straight from the environment;
// anything unrecognized falls back to info/json.
type Config struct {
	Service string
	Version string
	Env     string // "dev" turns on source locations
	Level   string // debug, info, warn, error
	Format  string // json (default) or text
}

// New builds the service logger, installs it as the slog default so stray
// slog calls land in the same stream, and returns it. Every record carries
// the service, version and env attributes.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     levelFrom(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)

	slog.SetDefault(logger)
	return logger
}

func levelFrom(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
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
