// Package cli implements the archdiagram command-line interface.
//
// This package provides commands for rendering the built-in architecture
// designs and declarative definition files to PNG, printing the generated
// DOT source and listing the available designs. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - (none): Render the default design to the working directory
//   - render: Render a named design or a --file definition
//   - dot: Print the Graphviz DOT source of a design
//   - list: Show the built-in designs
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and the render lifecycle is logged through
// [observability.RenderHooks].
//
// # Example
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdiagram/pkg/observability"
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
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Rendered simple-web-api (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks logs the diagram lifecycle at debug level.
type logHooks struct {
	logger *log.Logger
}

var _ observability.RenderHooks = (*logHooks)(nil)

func (h *logHooks) OnBuildComplete(_ context.Context, name string, stats observability.Stats, err error) {
	if err != nil {
		h.logger.Debug("diagram declaration failed", "diagram", name, "error", err)
		return
	}
	h.logger.Debug("diagram declared", "diagram", name, "nodes", stats.Nodes, "clusters", stats.Clusters, "edges", stats.Edges)
}

func (h *logHooks) OnRenderStart(_ context.Context, name, format string) {
	h.logger.Debug("rendering", "diagram", name, "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, name, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "diagram", name, "format", format, "error", err)
		return
	}
	h.logger.Debug("rendered", "diagram", name, "format", format, "bytes", size, "elapsed", d.Round(time.Millisecond))
}

func (h *logHooks) OnWrite(_ context.Context, path string, size int) {
	h.logger.Debug("wrote image", "path", path, "bytes", size)
}
