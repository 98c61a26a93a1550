// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// levelFor maps the requested verbosity to a log level: warnings by default,
// info at 1, debug from 2.
func levelFor(verbosity int) log.Level {
	switch {
	case verbosity >= 2:
		return log.DebugLevel
	case verbosity == 1:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// newLogger returns a slog.Logger backed by a charm logger on w.
func newLogger(w io.Writer, prefix string, verbosity int) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Level:  levelFor(verbosity),
		Prefix: prefix,
	})
	return slog.New(handler)
}
