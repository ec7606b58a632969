package config

import (
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger in production and a text logger
// otherwise. Debug output is only enabled outside production.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
