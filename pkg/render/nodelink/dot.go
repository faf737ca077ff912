package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
)

// graphName is the name of the top-level DOT graph.
const graphName = "G"

// ToDOT converts a diagram to Graphviz DOT source.
// The resulting string can be rendered with [RenderPNG].
//
// Clusters are emitted as nested subgraphs named after [diagram.Cluster.ID],
// nodes are named from their declaration index and identifier, so the
// output is stable across runs. Attribute names are validated; an unknown
// attribute yields an INVALID_INPUT error.
func ToDOT(d *diagram.Diagram) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, err, "set graph name")
	}
	if err := g.SetDir(true); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, err, "set graph direction")
	}

	graphAttrs := merge(quoteAll(defaultGraphAttrs), map[string]string{
		"label":   quote(d.Name()),
		"rankdir": quote(string(d.Direction())),
	}, quoteAll(d.GraphAttrs()))
	for _, k := range slices.Sorted(maps.Keys(graphAttrs)) {
		if err := g.AddAttr(graphName, k, graphAttrs[k]); err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "graph attribute %q", k)
		}
	}

	b := &dotBuilder{graph: g, nodeAttrs: d.NodeAttrs(), edgeAttrs: d.EdgeAttrs()}
	if err := b.addScope(graphName, d.Root()); err != nil {
		return "", err
	}
	for i, e := range d.Edges() {
		if err := b.addEdge(e); err != nil {
			return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "edge %d", i)
		}
	}
	return g.String(), nil
}

type dotBuilder struct {
	graph     *gographviz.Graph
	nodeAttrs map[string]string
	edgeAttrs map[string]string
}

// addScope emits the nodes of c into the DOT graph named parent, followed by
// one subgraph per child cluster.
func (b *dotBuilder) addScope(parent string, c *diagram.Cluster) error {
	for _, n := range c.Nodes() {
		if err := b.graph.AddNode(parent, nodeName(n), fmtNodeAttrs(n, b.nodeAttrs)); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "node %q", n.Label())
		}
	}
	for _, child := range c.Clusters() {
		if err := b.graph.AddSubGraph(parent, child.ID(), fmtClusterAttrs(child)); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "cluster %q", child.Name())
		}
		if err := b.addScope(child.ID(), child); err != nil {
			return err
		}
	}
	return nil
}

func (b *dotBuilder) addEdge(e *diagram.Edge) error {
	return b.graph.AddEdge(nodeName(e.From()), nodeName(e.To()), true, fmtEdgeAttrs(e, b.edgeAttrs))
}

func nodeName(n *diagram.Node) string {
	return fmt.Sprintf("n%03d_%s", n.Seq(), n.ID())
}

// fmtNodeAttrs returns the DOT attributes of n, values already quoted.
// The node label is always plain text.
func fmtNodeAttrs(n *diagram.Node, overrides map[string]string) map[string]string {
	style, ok := kindStyles[n.Kind()]
	if !ok {
		style = fallbackStyle
	}
	return merge(quoteAll(merge(defaultNodeAttrs, style.attrs(), overrides)), map[string]string{
		"label": quote(n.Label()),
	})
}

func fmtClusterAttrs(c *diagram.Cluster) map[string]string {
	return merge(quoteAll(defaultClusterAttrs), map[string]string{
		"label":   quote(c.Name()),
		"bgcolor": quote(clusterBackground(c.Depth())),
	})
}

// fmtEdgeAttrs returns the DOT attributes of e, values already quoted.
// Attributes set with [diagram.Attr] win over the typed edge options.
func fmtEdgeAttrs(e *diagram.Edge, overrides map[string]string) map[string]string {
	attrs := quoteAll(merge(defaultEdgeAttrs, overrides))
	if e.Label() != "" {
		attrs["label"] = quote(e.Label())
	}
	if e.Color() != "" {
		attrs["color"] = quote(e.Color())
	}
	if e.Style() != "" {
		attrs["style"] = quote(string(e.Style()))
	}
	if e.Dir() != diagram.Forward {
		attrs["dir"] = quote(string(e.Dir()))
	}
	maps.Copy(attrs, quoteAll(e.Attrs()))
	return attrs
}

// merge returns a new map holding every entry of ms, later maps winning.
func merge(ms ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range ms {
		maps.Copy(out, m)
	}
	return out
}

// quoteAll renders raw attribute values with [attrValue].
func quoteAll(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = attrValue(v)
	}
	return out
}

// quote renders v as a DOT string. Newlines become the centered line break
// escape. Text is never interpreted as an HTML-like label.
func quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(v) + `"`
}

// attrValue renders a raw Graphviz attribute value. A value wrapped in "<"
// and ">" is passed through as an HTML-like label, anything else is quoted.
func attrValue(v string) string {
	if len(v) > 1 && v[0] == '<' && v[len(v)-1] == '>' {
		return v
	}
	return quote(v)
}

// RenderSVG lays out DOT source with the Graphviz dot engine and returns
// the SVG document. Graphviz runs in-process, so no system installation is
// required.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "render SVG")
	}
	return buf.Bytes(), nil
}

// RenderPNG renders DOT source with [RenderSVG] and writes the rasterized
// PNG image to w at two pixels per point.
func RenderPNG(ctx context.Context, dot string, w io.Writer) error {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	png, err := toPNG(svg, pngScale)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeRenderFailed, err, "rasterize SVG")
	}
	if _, err := w.Write(png); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "write PNG")
	}
	return nil
}

// Renderer renders diagrams to PNG via [ToDOT] and [RenderPNG].
// It implements [diagram.Renderer].
type Renderer struct{}

// NewRenderer returns a Graphviz-backed PNG renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render implements [diagram.Renderer].
func (r *Renderer) Render(ctx context.Context, d *diagram.Diagram, w io.Writer) error {
	dot, err := ToDOT(d)
	if err != nil {
		return err
	}
	return RenderPNG(ctx, dot, w)
}
