// Package designs holds the fixed architecture diagrams shipped with
// archdiagram.
//
// Each [Design] pairs rendering parameters (title, filename, direction,
// graph attributes) with a build function that declares the diagram's
// nodes, clusters and edges. Designs are looked up by key:
//
//	design, err := designs.Lookup("simple-web-api")
//	path, err := design.Draw(ctx, nodelink.NewRenderer())
package designs

import (
	"context"
	"sort"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// DefaultKey is the design rendered when none is named.
const DefaultKey = "simple-web-api"

// Design is a named, fixed architecture diagram.
type Design struct {
	Key         string            // lookup key, e.g. "simple-web-api"
	Title       string            // diagram title
	Filename    string            // output filename base
	Description string            // one-line summary for listings
	Direction   diagram.Direction // layout direction
	GraphAttrs  map[string]string // graph attribute overrides
	Build       func(*diagram.Diagram)
}

var registry = map[string]Design{
	SimpleWebAPI.Key: SimpleWebAPI,
}

// Lookup returns the design registered under key.
func Lookup(key string) (Design, error) {
	d, ok := registry[key]
	if !ok {
		return Design{}, errors.New(errors.ErrCodeInvalidInput, "unknown design %q (available: %v)", key, Names())
	}
	return d, nil
}

// Names returns the registered design keys in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// All returns every registered design sorted by key.
func All() []Design {
	out := make([]Design, 0, len(registry))
	for _, k := range Names() {
		out = append(out, registry[k])
	}
	return out
}

// Options returns the diagram options of the design followed by extra.
// Later options win, so extra can override the filename or output directory.
func (d Design) Options(extra ...diagram.Option) []diagram.Option {
	opts := []diagram.Option{
		diagram.WithFilename(d.Filename),
		diagram.WithGraphAttrs(d.GraphAttrs),
	}
	if d.Direction != "" {
		opts = append(opts, diagram.WithDirection(d.Direction))
	}
	return append(opts, extra...)
}

// Diagram declares the design into a new, unsaved diagram.
func (d Design) Diagram(extra ...diagram.Option) *diagram.Diagram {
	dg := diagram.New(d.Title, d.Options(extra...)...)
	if d.Build != nil {
		d.Build(dg)
	}
	return dg
}

// Draw declares and renders the design in one scope.
func (d Design) Draw(ctx context.Context, r diagram.Renderer, extra ...diagram.Option) (string, error) {
	return diagram.Draw(ctx, r, d.Title, d.Build, d.Options(extra...)...)
}
