package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"predictd/internal/config"
)

// newLogger builds the process logger. The level names match the request
// log levels; "off" disables logging.
func newLogger(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	w := out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(zerologLevel(cfg.Level)).With().Timestamp().Logger()
}

func zerologLevel(s string) zerolog.Level {
	switch s {
	case "off":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
