package diagram

// Node is a labeled box representing one logical cloud resource.
// Nodes are immutable once declared.
type Node struct {
	diagram *Diagram
	cluster *Cluster
	seq     int
	id      string
	kind    Kind
	label   string
}

// ID returns the deterministic node identifier (32 hex digits).
func (n *Node) ID() string { return n.id }

// Seq returns the declaration index of the node within its diagram.
func (n *Node) Seq() int { return n.seq }

// Kind returns the resource category.
func (n *Node) Kind() Kind { return n.kind }

// Label returns the display label. Newlines render as line breaks.
func (n *Node) Label() string { return n.label }

// Cluster returns the scope the node was declared in.
func (n *Node) Cluster() *Cluster { return n.cluster }
