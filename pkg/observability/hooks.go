// Package observability provides hooks for logging and metrics around
// diagram rendering.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific backends. The CLI registers a logging
// implementation at startup; libraries only ever call the registered hooks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Render().OnRenderStart(ctx, name, format)
//	// ... render ...
//	observability.Render().OnRenderComplete(ctx, name, format, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Stats summarizes a declared diagram.
type Stats struct {
	Nodes    int
	Clusters int
	Edges    int
}

// RenderHooks receives events from the diagram lifecycle.
type RenderHooks interface {
	// OnBuildComplete fires when a diagram scope is closed, before rendering.
	OnBuildComplete(ctx context.Context, name string, stats Stats, err error)

	// Render events
	OnRenderStart(ctx context.Context, name, format string)
	OnRenderComplete(ctx context.Context, name, format string, size int, duration time.Duration, err error)

	// OnWrite fires after the output file has been moved into place.
	OnWrite(ctx context.Context, path string, size int)
}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnBuildComplete(context.Context, string, Stats, error) {}
func (NoopRenderHooks) OnRenderStart(context.Context, string, string)         {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopRenderHooks) OnWrite(context.Context, string, int) {}

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
}
