// Package dnalog provides the leveled structured logger shared by the
// CLI and HTTP façade.
//
// Grounded in samoyed's src/log.go (CSV logging plus the
// text_color_set/dw_printf console-coloring convention used throughout
// the C code this package ported from): where the teacher hand-rolled
// console coloring and a custom CSV sink, this codec uses
// github.com/charmbracelet/log directly — already in the teacher's
// go.mod but, notably, never actually imported by any of its own
// source files. We give it the home the teacher's dependency list
// always implied it should have.
package dnalog

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the shared structured logger type.
type Logger = log.Logger

// New builds a logger writing to stderr with the given minimum level
// (debug, info, warn, error).
func New(level string) *Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return l
}

// Segment logs a recovered-but-corrected segment at warn level, the
// encode/decode-path equivalent of the teacher's per-frame FEC log
// line.
func Segment(l *Logger, index, corrections int) {
	if corrections > 0 {
		l.Warn("segment corrected", "index", index, "corrections", corrections)
	} else {
		l.Debug("segment clean", "index", index)
	}
}

// Uncorrectable logs a segment that could not be repaired.
func Uncorrectable(l *Logger, index int, err error) {
	l.Error("segment uncorrectable", "index", index, "err", err)
}
