// Package logging configures the zerolog logger used for diagnostics. Results
// meant for the user are printed by the CLI, not logged.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	Level   string // zerolog level name; invalid or empty means "warn"
	Verbose bool   // forces debug level
	NoColor bool
}

// New returns a console logger writing to w.
func New(w io.Writer, cfg Config) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
		NoColor:    cfg.NoColor,
	}
	return zerolog.New(console).
		Level(ParseLevel(cfg.Level, cfg.Verbose)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a configured level name to a zerolog level.
func ParseLevel(level string, verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

// WithLogger attaches logger to ctx.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
