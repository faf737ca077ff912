package diagram

import (
	"maps"
	"strings"

	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
)

// LineStyle is the stroke style of an edge.
type LineStyle string

const (
	Solid  LineStyle = "solid"
	Dashed LineStyle = "dashed"
	Dotted LineStyle = "dotted"
	Bold   LineStyle = "bold"
)

// Valid reports whether s is a supported line style. The empty style is
// valid and means the renderer default.
func (s LineStyle) Valid() bool {
	switch s {
	case "", Solid, Dashed, Dotted, Bold:
		return true
	}
	return false
}

// ArrowDir controls which ends of an edge carry an arrowhead.
type ArrowDir string

const (
	Forward ArrowDir = "forward"
	Back    ArrowDir = "back"
	Both    ArrowDir = "both"
	NoArrow ArrowDir = "none"
)

// Valid reports whether a is a supported arrow direction.
func (a ArrowDir) Valid() bool {
	switch a {
	case Forward, Back, Both, NoArrow:
		return true
	}
	return false
}

// ParseLineStyle converts a style name to a LineStyle. The empty string is
// accepted and yields the renderer default.
func ParseLineStyle(s string) (LineStyle, error) {
	style := LineStyle(strings.ToLower(strings.TrimSpace(s)))
	if !style.Valid() {
		return "", apperrors.New(apperrors.ErrCodeInvalidEdge, "unknown line style %q", s)
	}
	return style, nil
}

// ParseArrowDir converts a direction name to an ArrowDir. The empty string
// yields [Forward].
func ParseArrowDir(s string) (ArrowDir, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Forward, nil
	}
	dir := ArrowDir(s)
	if !dir.Valid() {
		return "", apperrors.New(apperrors.ErrCodeInvalidEdge, "unknown arrow direction %q", s)
	}
	return dir, nil
}

// Edge is a directed connector between two nodes of the same diagram.
type Edge struct {
	from  *Node
	to    *Node
	label string
	color string
	style LineStyle
	dir   ArrowDir
	attrs map[string]string
}

// EdgeOption configures an [Edge] declared with [Diagram.Connect].
type EdgeOption func(*Edge)

// Label sets the text drawn next to the edge. The text is never interpreted
// as markup.
func Label(text string) EdgeOption {
	return func(e *Edge) { e.label = text }
}

// Color sets the line color (a Graphviz color name or "#RRGGBB").
func Color(color string) EdgeOption {
	return func(e *Edge) { e.color = color }
}

// Style sets the line style.
func Style(style LineStyle) EdgeOption {
	return func(e *Edge) { e.style = style }
}

// Dir sets which ends of the edge carry an arrowhead.
func Dir(dir ArrowDir) EdgeOption {
	return func(e *Edge) { e.dir = dir }
}

// Attr sets an extra renderer attribute on the edge. Values are Graphviz
// attribute values: one wrapped in "<" and ">", such as a "label", is taken
// as an HTML-like label.
func Attr(key, value string) EdgeOption {
	return func(e *Edge) { e.attrs[key] = value }
}

// From returns the source node.
func (e *Edge) From() *Node { return e.from }

// To returns the target node.
func (e *Edge) To() *Node { return e.to }

// Label returns the edge label, possibly empty.
func (e *Edge) Label() string { return e.label }

// Color returns the line color, possibly empty.
func (e *Edge) Color() string { return e.color }

// Style returns the line style, possibly empty.
func (e *Edge) Style() LineStyle { return e.style }

// Dir returns the arrow direction.
func (e *Edge) Dir() ArrowDir { return e.dir }

// Attrs returns a copy of the extra renderer attributes.
func (e *Edge) Attrs() map[string]string { return maps.Clone(e.attrs) }

// Connect declares a directed edge from one node to another. Both endpoints
// must have been declared on this diagram. An invalid edge is recorded as an
// error on the diagram and Connect returns nil.
func (d *Diagram) Connect(from, to *Node, opts ...EdgeOption) *Edge {
	seq := len(d.edges)
	e := &Edge{from: from, to: to, dir: Forward, attrs: map[string]string{}}
	for _, opt := range opts {
		opt(e)
	}

	var errs []error
	switch {
	case from == nil:
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidEdge, "edge %d: source node is nil", seq))
	case from.diagram != d:
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidEdge, "edge %d: source %q belongs to another diagram", seq, from.label))
	}
	switch {
	case to == nil:
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidEdge, "edge %d: target node is nil", seq))
	case to.diagram != d:
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidEdge, "edge %d: target %q belongs to another diagram", seq, to.label))
	}
	if !e.style.Valid() {
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidEdge, "edge %d: unknown line style %q", seq, e.style))
	}
	if !e.dir.Valid() {
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidEdge, "edge %d: unknown arrow direction %q", seq, e.dir))
	}
	if err := apperrors.ValidateLabel(e.label); err != nil {
		errs = append(errs, apperrors.Wrap(apperrors.ErrCodeInvalidEdge, err, "edge %d", seq))
	}

	if len(errs) > 0 {
		d.errs = append(d.errs, errs...)
		return nil
	}
	d.edges = append(d.edges, e)
	return e
}
