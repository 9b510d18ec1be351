package config

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds a zerolog logger writing to w according to cfg.
// An unknown level falls back to info.
func NewLogger(cfg Logging, w io.Writer) zerolog.Logger {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor})
	default:
		zl = zerolog.New(w)
	}

	return zl.Level(level).With().Timestamp().Str("component", "asyncfilters").Logger()
}

func parseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}

	return zerolog.ParseLevel(strings.ToLower(s))
}
