// Package network holds the node table and the resolved edges of a loaded
// graph.
//
// A [Network] is built in two steps. [Resolve] validates an input document,
// builds the node table and turns every unresolved [graph.Edge] into an
// [Edge] holding pointers into that table. [Network.Place] then records the
// normalized anchors and derives radii and widths. After Place the network is
// read-only; a reload builds a new one.
package network

import (
	"math"

	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/graph"
)

// Node is an entry in the node table.
type Node struct {
	ID     string
	Raw    geom.Point // position as given by the document
	Size   float64
	Color  string
	Label  string     // may be empty, see DisplayLabel
	Radius float64    // Size * nodeScale / 2, set by Place
	Anchor geom.Point // normalized position, set by Place
}

// DisplayLabel returns the label or [graph.UnnamedLabel].
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return graph.UnnamedLabel
}

// Edge is a resolved edge. Source and Target point into the owning
// network's node table and are never nil.
type Edge struct {
	Source *Node
	Target *Node
	Size   float64
	Width  float64 // Size * nodeScale / 2, set by Place
}

// Touches reports whether id is one of the edge's endpoints.
func (e *Edge) Touches(id string) bool {
	return e.Source.ID == id || e.Target.ID == id
}

// Network is the node table plus resolved edges of one loaded graph.
type Network struct {
	Nodes []Node
	Edges []Edge

	index  map[string]int
	placed bool
}

// Resolve validates doc and builds a network from it.
//
// Node ids must be valid and unique, sizes non-negative and coordinates
// finite (INVALID_INPUT). Every edge endpoint must name an existing node
// (REFERENTIAL_INTEGRITY); dangling edges are never dropped. The returned
// network shares nothing with doc.
func Resolve(doc graph.Document) (*Network, error) {
	n := &Network{
		Nodes: make([]Node, 0, len(doc.Nodes)),
		index: make(map[string]int, len(doc.Nodes)),
	}

	for i, in := range doc.Nodes {
		if err := errors.ValidateNodeID(in.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		if _, dup := n.index[in.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %d: duplicate id %q", i, in.ID)
		}
		if in.Size < 0 || !finite(in.Size) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q: invalid size %v", in.ID, in.Size)
		}
		if !finite(in.X) || !finite(in.Y) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q: non-finite position", in.ID)
		}
		n.index[in.ID] = len(n.Nodes)
		n.Nodes = append(n.Nodes, Node{
			ID:    in.ID,
			Raw:   geom.Pt(in.X, in.Y),
			Size:  in.Size,
			Color: in.Color,
			Label: in.Label,
		})
	}

	edges, err := ResolveEdges(n, doc.Edges)
	if err != nil {
		return nil, err
	}
	n.Edges = edges
	return n, nil
}

// ResolveEdges resolves unresolved edges against the node table of n and
// returns a new slice. It does not modify n.
func ResolveEdges(n *Network, in []graph.Edge) ([]Edge, error) {
	out := make([]Edge, 0, len(in))
	for i, e := range in {
		src := n.Lookup(e.Source)
		if src == nil {
			return nil, errors.New(errors.ErrCodeReferentialIntegrity, "edge %d: unknown source %q", i, e.Source)
		}
		dst := n.Lookup(e.Target)
		if dst == nil {
			return nil, errors.New(errors.ErrCodeReferentialIntegrity, "edge %d: unknown target %q", i, e.Target)
		}
		if e.Size < 0 || !finite(e.Size) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "edge %d: invalid size %v", i, e.Size)
		}
		out = append(out, Edge{Source: src, Target: dst, Size: e.Size})
	}
	return out, nil
}

// Place records the normalized anchors (one per node, in table order) and
// derives node radii and edge widths from nodeScale. It may be called once.
func (n *Network) Place(anchors []geom.Point, nodeScale float64) error {
	if n.placed {
		return errors.New(errors.ErrCodeInternal, "network already placed")
	}
	if len(anchors) != len(n.Nodes) {
		return errors.New(errors.ErrCodeInternal, "got %d anchors for %d nodes", len(anchors), len(n.Nodes))
	}
	for i := range n.Nodes {
		n.Nodes[i].Anchor = anchors[i]
		n.Nodes[i].Radius = n.Nodes[i].Size * nodeScale / 2
	}
	for i := range n.Edges {
		n.Edges[i].Width = n.Edges[i].Size * nodeScale / 2
	}
	n.placed = true
	return nil
}

// Len returns the number of nodes.
func (n *Network) Len() int { return len(n.Nodes) }

// Index returns the table index of the node with the given id.
func (n *Network) Index(id string) (int, bool) {
	i, ok := n.index[id]
	return i, ok
}

// Lookup returns the node with the given id, or nil.
func (n *Network) Lookup(id string) *Node {
	i, ok := n.index[id]
	if !ok {
		return nil
	}
	return &n.Nodes[i]
}

// RawPositions returns the document positions in table order.
func (n *Network) RawPositions() []geom.Point {
	pts := make([]geom.Point, len(n.Nodes))
	for i := range n.Nodes {
		pts[i] = n.Nodes[i].Raw
	}
	return pts
}

// Anchors returns the normalized positions in table order.
func (n *Network) Anchors() []geom.Point {
	pts := make([]geom.Point, len(n.Nodes))
	for i := range n.Nodes {
		pts[i] = n.Nodes[i].Anchor
	}
	return pts
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
