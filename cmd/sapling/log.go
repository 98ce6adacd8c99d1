package main

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger on w that logs debug messages only when
// verbose is set
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
