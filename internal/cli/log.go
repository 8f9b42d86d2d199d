// Package cli implements the cargo-print command-line interface.
//
// cargo-print is a Cargo external subcommand: `cargo print <subcommand>`
// runs the cargo-print binary with "print" as its first argument, which the
// CLI drops before dispatching. Every command prints plain newline-delimited
// text on stdout so that it can be consumed by shell scripts.
//
// # Commands
//
//   - examples: examples buildable under a feature selection
//   - publish: workspace members in dependency order
//   - package: name of the package in the current directory
//   - directory: directory of a named workspace member
//   - graph: the workspace dependency graph as DOT or SVG
//   - completion: shell completion scripts
//
// Any malformed command line prints a one-line usage string to stderr and
// fails with exit status 1.
//
// # Logging
//
// Logs go to stderr and are quiet by default (warnings only). --verbose
// (-v) enables debug logging. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level along with the elapsed time, rounded to the
// millisecond. Example output: "Loaded 12 packages (3 workspace members) (184ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
