// Package nodelink renders architecture diagrams as Graphviz node-link
// images.
//
// # Overview
//
// A [diagram.Diagram] is converted to Graphviz DOT source by [ToDOT]:
// clusters become nested "cluster" subgraphs, nodes become styled boxes and
// edges keep their label, color, line style and arrow direction. The DOT
// source is assembled as an AST with [github.com/awalterschulze/gographviz]
// and laid out in-process as SVG by [github.com/goccy/go-graphviz], so no
// external dot binary is required. [RenderPNG] rasterizes that SVG at two
// pixels per point: shapes and strokes with [github.com/srwiley/oksvg], text
// with the Go fonts.
//
// Node, cluster, edge and diagram labels are plain text. A raw attribute
// value wrapped in "<" and ">" is passed to Graphviz as an HTML-like label.
//
// # Usage
//
// [Renderer] implements [diagram.Renderer], so it plugs straight into
// [diagram.Draw] and [diagram.Diagram.Save]:
//
//	path, err := d.Save(ctx, nodelink.NewRenderer())
//
// The lower-level functions can also be used directly:
//
//	dot, err := nodelink.ToDOT(d)
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	var buf bytes.Buffer
//	err = nodelink.RenderPNG(ctx, dot, &buf)
//
// # Styling
//
// Graph, cluster, node and edge defaults give the usual cloud architecture
// look: Sans-Serif text, rounded clusters with depth-dependent backgrounds
// and gray edges. Each [diagram.Kind] has its own shape and
// palette. Attributes passed to [diagram.WithGraphAttrs],
// [diagram.WithNodeAttrs], [diagram.WithEdgeAttrs] and [diagram.Attr]
// override the defaults.
//
// Output is deterministic: the same diagram rendered with the same library
// version yields byte-identical PNG files.
package nodelink
