package graph

// UnnamedLabel is the display label of nodes with a missing or empty label.
const UnnamedLabel = "UNNAMED NODE"

// Document is the canonical serialization format for an input network.
// The bson tags let the same type be stored in and decoded from MongoDB.
type Document struct {
	Name  string `json:"name,omitempty" bson:"name,omitempty"`
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a node as it appears in an input document.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Size  float64 `json:"size" bson:"size"`
	Color string  `json:"color,omitempty" bson:"color,omitempty"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
}

// DisplayLabel returns the label if set, otherwise [UnnamedLabel].
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return UnnamedLabel
}

// Edge is an unresolved edge: both endpoints are node ids.
type Edge struct {
	Source string  `json:"source" bson:"source"`
	Target string  `json:"target" bson:"target"`
	Size   float64 `json:"size" bson:"size"`
}
