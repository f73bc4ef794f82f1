// Package logger builds charmbracelet/log instances for the overlay engine.
//
// Every logger writes to stderr: stdout carries msgpack IPC frames and must
// stay clean of diagnostics.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a prefixed text logger at the process-wide level, with
// timestamps. The usual choice for long-lived components.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig returns a logger with every option exposed, for surfaces like
// the version banner that want bare lines without timestamps.
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
