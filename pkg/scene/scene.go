// Package scene defines the render boundary: a [Frame] is everything a
// renderer needs to draw one state of the engine.
//
// Node and edge coordinates are world coordinates. Renderers apply the
// frame's [viewport.Transform] at group level and never bake it into the
// positions.
package scene

import (
	"fmt"

	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/viewport"
)

// Class is the highlight class of a node or edge.
type Class uint8

// Highlight classes. ClassNone is the neutral state used when nothing is
// highlighted.
const (
	ClassNone Class = iota
	ClassActive
	ClassNeighbor
	ClassInactive
)

var classNames = [...]string{
	ClassNone:     "",
	ClassActive:   "active",
	ClassNeighbor: "neighbor",
	ClassInactive: "inactive",
}

// String returns the CSS class name, or "" for ClassNone.
func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(b []byte) error {
	for i, name := range classNames {
		if name == string(b) {
			*c = Class(i)
			return nil
		}
	}
	return fmt.Errorf("unknown highlight class %q", b)
}

// LabelOffset is the position of a node label relative to the node's
// rightmost point: (x + r + LabelOffset.X, y + LabelOffset.Y).
var LabelOffset = geom.Point{X: 3, Y: 4}

// NodeView is a node as drawn.
type NodeView struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Color  string  `json:"color,omitempty"`
	Class  Class   `json:"class,omitempty"`
	Label  string  `json:"label"`
	LabelX float64 `json:"label_x"`
	LabelY float64 `json:"label_y"`
}

// Center returns the node position.
func (n NodeView) Center() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// EdgeView is an edge as drawn.
type EdgeView struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Width  float64 `json:"width"`
	Class  Class   `json:"class,omitempty"`
}

// Frame is a complete drawable state.
type Frame struct {
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Transform viewport.Transform `json:"transform"`
	Nodes     []NodeView         `json:"nodes"`
	Edges     []EdgeView         `json:"edges"`
	Target    string             `json:"target,omitempty"`
}

// Empty reports whether the frame has nothing to draw.
func (f *Frame) Empty() bool { return len(f.Nodes) == 0 }

// Node returns the view of the node with the given id.
func (f *Frame) Node(id string) (NodeView, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeView{}, false
}

// PlaceLabel returns the label anchor of a node at p with radius r.
func PlaceLabel(p geom.Point, r float64) geom.Point {
	return geom.Point{X: p.X + r + LabelOffset.X, Y: p.Y + LabelOffset.Y}
}
