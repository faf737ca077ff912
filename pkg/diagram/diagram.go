package diagram

import (
	"errors"
	"maps"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
)

// FormatPNG is the only output format produced by [Diagram.Save].
const FormatPNG = "png"

// defaultFilename is used when neither a filename nor a name is given.
const defaultFilename = "diagram"

// Direction is the layout direction of the diagram.
type Direction string

const (
	TopToBottom Direction = "TB"
	BottomToTop Direction = "BT"
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// Valid reports whether d is a supported layout direction.
func (d Direction) Valid() bool {
	switch d {
	case TopToBottom, BottomToTop, LeftToRight, RightToLeft:
		return true
	}
	return false
}

// ParseDirection converts "TB", "BT", "LR" or "RL" (case-insensitive) to a
// Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", apperrors.New(apperrors.ErrCodeInvalidDirection, "unknown direction %q (must be TB, BT, LR or RL)", s)
	}
	return d, nil
}

// nodeNamespace seeds the name-based UUIDs assigned to nodes.
var nodeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/archdiagram/node"))

// Diagram is the root container of a declared architecture diagram.
// Create one with [New] or use the scoped [Draw] helper.
type Diagram struct {
	name      string
	filename  string
	direction Direction
	outputDir string

	graphAttrs map[string]string
	nodeAttrs  map[string]string
	edgeAttrs  map[string]string

	root     *Cluster
	clusters []*Cluster
	nodes    []*Node
	edges    []*Edge

	errs  []error
	saved bool
}

// Option configures a [Diagram].
type Option func(*Diagram)

// WithFilename sets the output filename base. The ".png" extension is
// appended by [Diagram.Save]. The name must not contain path separators.
func WithFilename(name string) Option {
	return func(d *Diagram) { d.filename = name }
}

// WithDirection sets the layout direction. The default is [LeftToRight].
func WithDirection(dir Direction) Option {
	return func(d *Diagram) { d.direction = dir }
}

// WithGraphAttrs merges renderer graph attributes (fontsize, bgcolor, pad,
// splines, ...) over the renderer defaults.
func WithGraphAttrs(attrs map[string]string) Option {
	return func(d *Diagram) { maps.Copy(d.graphAttrs, attrs) }
}

// WithNodeAttrs merges default attributes applied to every node.
func WithNodeAttrs(attrs map[string]string) Option {
	return func(d *Diagram) { maps.Copy(d.nodeAttrs, attrs) }
}

// WithEdgeAttrs merges default attributes applied to every edge.
func WithEdgeAttrs(attrs map[string]string) Option {
	return func(d *Diagram) { maps.Copy(d.edgeAttrs, attrs) }
}

// WithOutputDir sets the directory the image is written to. The default is
// the working directory.
func WithOutputDir(dir string) Option {
	return func(d *Diagram) { d.outputDir = dir }
}

// New creates an empty diagram. The name is rendered as the diagram title
// and, unless [WithFilename] is given, determines the output filename:
// whitespace-separated words are lower-cased and joined with underscores.
func New(name string, opts ...Option) *Diagram {
	d := &Diagram{
		name:       name,
		direction:  LeftToRight,
		graphAttrs: map[string]string{},
		nodeAttrs:  map[string]string{},
		edgeAttrs:  map[string]string{},
	}
	d.root = &Cluster{diagram: d, name: name}
	for _, opt := range opts {
		opt(d)
	}

	if d.filename == "" {
		d.filename = filenameFromName(name)
	}
	if err := apperrors.ValidateFilename(d.filename); err != nil {
		d.fail(err)
	}
	if !d.direction.Valid() {
		d.fail(apperrors.New(apperrors.ErrCodeInvalidDirection, "unknown direction %q (must be TB, BT, LR or RL)", d.direction))
	}
	return d
}

func filenameFromName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return defaultFilename
	}
	return strings.ToLower(strings.Join(words, "_"))
}

// Name returns the diagram title.
func (d *Diagram) Name() string { return d.name }

// Filename returns the output filename base, without extension.
func (d *Diagram) Filename() string { return d.filename }

// Format returns the output format, always [FormatPNG].
func (d *Diagram) Format() string { return FormatPNG }

// Direction returns the layout direction.
func (d *Diagram) Direction() Direction { return d.direction }

// Path returns the path [Diagram.Save] writes to.
func (d *Diagram) Path() string {
	return filepath.Join(d.outputDir, d.filename+"."+FormatPNG)
}

// GraphAttrs returns a copy of the graph attribute overrides.
func (d *Diagram) GraphAttrs() map[string]string { return maps.Clone(d.graphAttrs) }

// NodeAttrs returns a copy of the node attribute overrides.
func (d *Diagram) NodeAttrs() map[string]string { return maps.Clone(d.nodeAttrs) }

// EdgeAttrs returns a copy of the edge attribute overrides.
func (d *Diagram) EdgeAttrs() map[string]string { return maps.Clone(d.edgeAttrs) }

// Root returns the root scope. Its nodes are the ones declared directly on
// the diagram and its children are the top-level clusters.
func (d *Diagram) Root() *Cluster { return d.root }

// Nodes returns every node in declaration order.
func (d *Diagram) Nodes() []*Node { return d.nodes }

// Clusters returns every cluster, at any depth, in declaration order.
func (d *Diagram) Clusters() []*Cluster { return d.clusters }

// Edges returns every valid edge in declaration order.
func (d *Diagram) Edges() []*Edge { return d.edges }

// Stats summarizes the declared graph.
func (d *Diagram) Stats() observability.Stats {
	return observability.Stats{
		Nodes:    len(d.nodes),
		Clusters: len(d.clusters),
		Edges:    len(d.edges),
	}
}

// Node declares a node at the root scope, outside every cluster.
func (d *Diagram) Node(kind Kind, label string) *Node {
	return d.root.Node(kind, label)
}

// Cluster declares a top-level cluster and runs build inside its scope.
func (d *Diagram) Cluster(name string, build func(*Cluster)) *Cluster {
	return d.root.Cluster(name, build)
}

// Err returns all declaration errors recorded so far, joined, or nil.
func (d *Diagram) Err() error {
	return errors.Join(d.errs...)
}

func (d *Diagram) fail(err error) {
	d.errs = append(d.errs, err)
}

func (d *Diagram) newNode(c *Cluster, kind Kind, label string) *Node {
	seq := len(d.nodes)
	n := &Node{
		diagram: d,
		cluster: c,
		seq:     seq,
		id:      nodeID(d.name, seq),
		kind:    kind,
		label:   label,
	}
	if !kind.Valid() {
		d.fail(apperrors.New(apperrors.ErrCodeInvalidNode, "node %d (%q): unknown kind %d", seq, label, int(kind)))
	}
	if err := apperrors.ValidateLabel(label); err != nil {
		d.fail(apperrors.Wrap(apperrors.ErrCodeInvalidNode, err, "node %d", seq))
	}
	d.nodes = append(d.nodes, n)
	return n
}

func nodeID(diagramName string, seq int) string {
	u := uuid.NewSHA1(nodeNamespace, []byte(diagramName+"/"+strconv.Itoa(seq)))
	return strings.ReplaceAll(u.String(), "-", "")
}
