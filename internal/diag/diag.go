// Package diag is corevm's structured logger. Every diagnostic the runtime
// emits, GC tracing, invariant-violation reports, fatal errors, goes
// through here rather than a bare fmt.Println, so debug and release builds
// share one formatting and coloring policy.
package diag

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var logger = log.NewWithOptions(io.MultiWriter(os.Stderr), log.Options{
	ReportCaller:    true,
	ReportTimestamp: false,
	TimeFormat:      time.RFC3339,
	Prefix:          "COREVM",
})

func init() {
	logger.SetLevel(log.WarnLevel)
	logger.SetColorProfile(termenv.ANSI256)
}

// SetDebug raises the logger to debug verbosity, or drops it back to
// warn/error only. Called once from corevm.SetDebug.
func SetDebug(on bool) {
	if on {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.WarnLevel)
}

// NoColor drops ANSI styling, for output piped to a file or another
// process rather than a terminal.
func NoColor() {
	logger.SetColorProfile(termenv.Ascii)
}

// SetOutput redirects where diagnostics are written, defaulting to
// os.Stderr. Exposed so tests can capture fatal diagnostics instead of
// asserting only that the process would have exited.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Warnf(format string, args ...any)  { logger.Warnf(format, args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
