// Package logger builds the diagnostic logger used by the installer hook and
// the self-update command. User-facing command output does not go through it.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix identifies lines written on behalf of this tool inside Composer's output.
const Prefix = "nightconcept/package-versions"

// New creates a logger writing to w. Debug messages are shown only when verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
