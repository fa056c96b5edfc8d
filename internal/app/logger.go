package app

import (
	"log/slog"
	"os"
)

// NewLogger returns a configured slog.Logger. Source locations are emitted
// only outside production, where the extra lookup cost is acceptable.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: !cfg.IsProduction()}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
