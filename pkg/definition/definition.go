// Package definition loads architecture diagrams from declarative TOML or
// YAML documents.
//
// A definition file describes the same graph a Go build function would:
// a title and rendering parameters, nodes grouped into nested clusters, and
// edges that reference nodes by id. [Load] reads and validates a file;
// [Definition.Compile] turns it into a [diagram.Diagram] ready to be saved.
//
//	def, err := definition.Load("design.toml")
//	if err != nil {
//	    return err
//	}
//	d, err := def.Compile()
//	if err != nil {
//	    return err
//	}
//	path, err := d.Save(ctx, nodelink.NewRenderer())
//
// Attribute maps (graph, node_attrs, edge_attrs and per-edge attrs) hold
// string values; write numbers quoted, e.g. fontsize = "14".
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
)

// Format is the encoding of a definition document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath selects the format from a file extension: ".toml", ".yaml"
// or ".yml".
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported definition file %q (must be .toml, .yaml or .yml)", path)
	}
}

// Definition is a declarative diagram document.
type Definition struct {
	Name      string            `toml:"name" yaml:"name"`
	Filename  string            `toml:"filename" yaml:"filename"`
	Direction string            `toml:"direction" yaml:"direction"`
	Graph     map[string]string `toml:"graph" yaml:"graph"`
	NodeAttrs map[string]string `toml:"node_attrs" yaml:"node_attrs"`
	EdgeAttrs map[string]string `toml:"edge_attrs" yaml:"edge_attrs"`
	Nodes     []NodeDef         `toml:"nodes" yaml:"nodes"`
	Clusters  []ClusterDef      `toml:"clusters" yaml:"clusters"`
	Edges     []EdgeDef         `toml:"edges" yaml:"edges"`
}

// NodeDef declares a node. ID is only used to reference the node from edges.
type NodeDef struct {
	ID    string `toml:"id" yaml:"id"`
	Kind  string `toml:"kind" yaml:"kind"`
	Label string `toml:"label" yaml:"label"`
}

// ClusterDef declares a cluster and its contents.
type ClusterDef struct {
	Name     string       `toml:"name" yaml:"name"`
	Nodes    []NodeDef    `toml:"nodes" yaml:"nodes"`
	Clusters []ClusterDef `toml:"clusters" yaml:"clusters"`
}

// EdgeDef declares an edge between two node ids.
type EdgeDef struct {
	From  string            `toml:"from" yaml:"from"`
	To    string            `toml:"to" yaml:"to"`
	Label string            `toml:"label" yaml:"label"`
	Color string            `toml:"color" yaml:"color"`
	Style string            `toml:"style" yaml:"style"`
	Dir   string            `toml:"dir" yaml:"dir"`
	Attrs map[string]string `toml:"attrs" yaml:"attrs"`
}

// Load reads a definition file, choosing the decoder from the extension,
// and validates it.
func Load(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "definition %s not found", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeIO, err, "read %s", path)
	}
	def, err := Decode(data, format)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, err, "load %s", path)
	}
	return def, nil
}

// Decode parses and validates a definition document.
func Decode(data []byte, format Format) (*Definition, error) {
	var def Definition
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &def)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, err, "decode TOML")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidDefinition, "unknown keys %v", keys)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, err, "decode YAML")
		}
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported definition format %q", format)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the document for missing names, duplicate or unknown node
// ids, unknown kinds, line styles, arrow directions and layout directions.
// All problems are reported, joined into one error.
func (def *Definition) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidDefinition, format, args...))
	}

	if strings.TrimSpace(def.Name) == "" {
		fail("name is required")
	}
	if def.Direction != "" {
		if _, err := diagram.ParseDirection(def.Direction); err != nil {
			errs = append(errs, err)
		}
	}

	ids := make(map[string]bool)
	def.walkNodes(func(path string, n NodeDef) {
		switch {
		case n.ID == "":
			fail("%s: node id is required", path)
		case ids[n.ID]:
			fail("%s: duplicate node id %q", path, n.ID)
		}
		ids[n.ID] = true
		if _, err := diagram.ParseKind(n.Kind); err != nil {
			errs = append(errs, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, err, "%s", path))
		}
	})

	for i, e := range def.Edges {
		if !ids[e.From] {
			fail("edges[%d]: unknown source node %q", i, e.From)
		}
		if !ids[e.To] {
			fail("edges[%d]: unknown target node %q", i, e.To)
		}
		if _, err := diagram.ParseLineStyle(e.Style); err != nil {
			errs = append(errs, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, err, "edges[%d]", i))
		}
		if _, err := diagram.ParseArrowDir(e.Dir); err != nil {
			errs = append(errs, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, err, "edges[%d]", i))
		}
	}
	return errors.Join(errs...)
}

// walkNodes visits every node declaration, depth first, with a path such as
// "clusters[0].clusters[1].nodes[0]" for error messages.
func (def *Definition) walkNodes(fn func(path string, n NodeDef)) {
	for i, n := range def.Nodes {
		fn(fmt.Sprintf("nodes[%d]", i), n)
	}
	var walk func(prefix string, cs []ClusterDef)
	walk = func(prefix string, cs []ClusterDef) {
		for i, c := range cs {
			p := fmt.Sprintf("%sclusters[%d]", prefix, i)
			for j, n := range c.Nodes {
				fn(fmt.Sprintf("%s.nodes[%d]", p, j), n)
			}
			walk(p+".", c.Clusters)
		}
	}
	walk("", def.Clusters)
}

// Options converts the rendering parameters to diagram options.
func (def *Definition) Options() []diagram.Option {
	var opts []diagram.Option
	if def.Filename != "" {
		opts = append(opts, diagram.WithFilename(def.Filename))
	}
	if def.Direction != "" {
		dir, _ := diagram.ParseDirection(def.Direction)
		opts = append(opts, diagram.WithDirection(dir))
	}
	if len(def.Graph) > 0 {
		opts = append(opts, diagram.WithGraphAttrs(def.Graph))
	}
	if len(def.NodeAttrs) > 0 {
		opts = append(opts, diagram.WithNodeAttrs(def.NodeAttrs))
	}
	if len(def.EdgeAttrs) > 0 {
		opts = append(opts, diagram.WithEdgeAttrs(def.EdgeAttrs))
	}
	return opts
}

// Build declares the document's nodes, clusters and edges into d. It
// assumes the definition is valid; use [Definition.Compile] otherwise.
func (def *Definition) Build(d *diagram.Diagram) {
	nodes := make(map[string]*diagram.Node)
	declare := func(scope *diagram.Cluster, ns []NodeDef) {
		for _, n := range ns {
			kind, _ := diagram.ParseKind(n.Kind)
			nodes[n.ID] = scope.Node(kind, n.Label)
		}
	}
	var clusters func(scope *diagram.Cluster, cs []ClusterDef)
	clusters = func(scope *diagram.Cluster, cs []ClusterDef) {
		for _, c := range cs {
			scope.Cluster(c.Name, func(child *diagram.Cluster) {
				declare(child, c.Nodes)
				clusters(child, c.Clusters)
			})
		}
	}

	declare(d.Root(), def.Nodes)
	clusters(d.Root(), def.Clusters)

	for _, e := range def.Edges {
		style, _ := diagram.ParseLineStyle(e.Style)
		dir, _ := diagram.ParseArrowDir(e.Dir)
		opts := []diagram.EdgeOption{
			diagram.Label(e.Label),
			diagram.Color(e.Color),
			diagram.Style(style),
			diagram.Dir(dir),
		}
		for k, v := range e.Attrs {
			opts = append(opts, diagram.Attr(k, v))
		}
		d.Connect(nodes[e.From], nodes[e.To], opts...)
	}
}

// Compile validates the definition and declares it into a new diagram.
// Options in extra are applied after the document's own options.
func (def *Definition) Compile(extra ...diagram.Option) (*diagram.Diagram, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	d := diagram.New(def.Name, append(def.Options(), extra...)...)
	def.Build(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// WithoutNode returns a copy of the definition with the node id removed,
// along with every edge that references it.
func (def *Definition) WithoutNode(id string) *Definition {
	out := *def
	out.Nodes = dropNode(def.Nodes, id)
	out.Clusters = dropClusterNode(def.Clusters, id)
	out.Edges = nil
	for _, e := range def.Edges {
		if e.From != id && e.To != id {
			out.Edges = append(out.Edges, e)
		}
	}
	return &out
}

// NodeIDs returns every node id in declaration order.
func (def *Definition) NodeIDs() []string {
	var ids []string
	def.walkNodes(func(_ string, n NodeDef) { ids = append(ids, n.ID) })
	return ids
}

func dropNode(ns []NodeDef, id string) []NodeDef {
	var out []NodeDef
	for _, n := range ns {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

func dropClusterNode(cs []ClusterDef, id string) []ClusterDef {
	out := make([]ClusterDef, 0, len(cs))
	for _, c := range cs {
		c.Nodes = dropNode(c.Nodes, id)
		c.Clusters = dropClusterNode(c.Clusters, id)
		out = append(out, c)
	}
	return out
}
