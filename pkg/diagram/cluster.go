package diagram

import (
	"fmt"

	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
)

// defaultClusterName titles clusters declared with an empty name.
const defaultClusterName = "cluster"

// Cluster is a named grouping box. Clusters nest: the root scope of a
// diagram has depth 0, top-level clusters depth 1, and so on.
type Cluster struct {
	diagram  *Diagram
	parent   *Cluster
	seq      int
	name     string
	depth    int
	nodes    []*Node
	children []*Cluster
}

// Name returns the cluster title.
func (c *Cluster) Name() string { return c.name }

// Depth returns the nesting depth; the root scope has depth 0.
func (c *Cluster) Depth() int { return c.depth }

// ID returns the renderer-facing cluster identifier. Graphviz only draws
// subgraphs whose name starts with "cluster". Identifiers sort in
// declaration order.
func (c *Cluster) ID() string {
	if c.parent == nil {
		return "root"
	}
	return fmt.Sprintf("cluster_%03d", c.seq)
}

// Parent returns the enclosing cluster, or nil for the root scope.
func (c *Cluster) Parent() *Cluster { return c.parent }

// Nodes returns the nodes declared directly in this cluster.
func (c *Cluster) Nodes() []*Node { return c.nodes }

// Clusters returns the child clusters in declaration order.
func (c *Cluster) Clusters() []*Cluster { return c.children }

// Node declares a node inside this cluster. The label is plain text, so
// markup such as "<internal>" is drawn literally.
func (c *Cluster) Node(kind Kind, label string) *Node {
	n := c.diagram.newNode(c, kind, label)
	c.nodes = append(c.nodes, n)
	return n
}

// Cluster declares a child cluster and runs build inside its scope.
// A nil build function declares an empty cluster.
func (c *Cluster) Cluster(name string, build func(*Cluster)) *Cluster {
	d := c.diagram
	if name == "" {
		name = defaultClusterName
	}
	child := &Cluster{
		diagram: d,
		parent:  c,
		seq:     len(d.clusters),
		name:    name,
		depth:   c.depth + 1,
	}
	if err := apperrors.ValidateLabel(name); err != nil {
		d.fail(apperrors.Wrap(apperrors.ErrCodeInvalidCluster, err, "cluster %d", child.seq))
	}
	d.clusters = append(d.clusters, child)
	c.children = append(c.children, child)

	if build != nil {
		build(child)
	}
	return child
}
