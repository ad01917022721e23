package network

import (
	"math"
	"testing"

	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/graph"
)

func sampleDoc() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{
			{ID: "a", X: 0, Y: 0, Size: 4, Color: "red", Label: "Bob"},
			{ID: "b", X: 1, Y: 1, Size: 2, Label: "Ann"},
			{ID: "c", X: 2, Y: 0, Size: 0},
		},
		Edges: []graph.Edge{
			{Source: "a", Target: "b", Size: 1},
			{Source: "a", Target: "c", Size: 3},
		},
	}
}

func TestResolve(t *testing.T) {
	n, err := Resolve(sampleDoc())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n.Len() != 3 || len(n.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", n.Len(), len(n.Edges))
	}

	e := n.Edges[1]
	if e.Source != &n.Nodes[0] || e.Target != &n.Nodes[2] {
		t.Error("edge endpoints should point into the node table")
	}
	if !e.Touches("c") || e.Touches("b") {
		t.Error("Touches mismatch")
	}
	if i, ok := n.Index("b"); !ok || i != 1 {
		t.Errorf("Index(b) = %d, %v", i, ok)
	}
	if n.Lookup("zzz") != nil {
		t.Error("Lookup of unknown id should be nil")
	}
	if got := n.Lookup("c").DisplayLabel(); got != graph.UnnamedLabel {
		t.Errorf("DisplayLabel() = %q", got)
	}
}

func TestResolveDoesNotAliasDocument(t *testing.T) {
	doc := sampleDoc()
	n, err := Resolve(doc)
	if err != nil {
		t.Fatal(err)
	}
	doc.Nodes[0].Label = "changed"
	if n.Nodes[0].Label != "Bob" {
		t.Error("network should not share node storage with the document")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*graph.Document)
		code   errors.Code
	}{
		{
			name:   "dangling target",
			mutate: func(d *graph.Document) { d.Edges[0].Target = "missing" },
			code:   errors.ErrCodeReferentialIntegrity,
		},
		{
			name:   "dangling source",
			mutate: func(d *graph.Document) { d.Edges[1].Source = "missing" },
			code:   errors.ErrCodeReferentialIntegrity,
		},
		{
			name:   "duplicate id",
			mutate: func(d *graph.Document) { d.Nodes[2].ID = "a" },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "empty id",
			mutate: func(d *graph.Document) { d.Nodes[1].ID = "" },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "negative node size",
			mutate: func(d *graph.Document) { d.Nodes[0].Size = -1 },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "negative edge size",
			mutate: func(d *graph.Document) { d.Edges[0].Size = -2 },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "nan position",
			mutate: func(d *graph.Document) { d.Nodes[0].X = math.NaN() },
			code:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDoc()
			tt.mutate(&doc)
			n, err := Resolve(doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if n != nil {
				t.Error("no network should be returned on failure")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestPlace(t *testing.T) {
	n, err := Resolve(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	anchors := []geom.Point{{X: 10, Y: 10}, {X: 20, Y: 20}, {X: 30, Y: 30}}
	if err := n.Place(anchors, 2); err != nil {
		t.Fatalf("Place: %v", err)
	}

	if n.Nodes[0].Radius != 4 || n.Nodes[1].Radius != 2 || n.Nodes[2].Radius != 0 {
		t.Errorf("radii = %v %v %v", n.Nodes[0].Radius, n.Nodes[1].Radius, n.Nodes[2].Radius)
	}
	if n.Edges[1].Width != 3 {
		t.Errorf("width = %v, want 3", n.Edges[1].Width)
	}
	if got := n.Anchors(); got[2] != anchors[2] {
		t.Errorf("Anchors()[2] = %v", got[2])
	}
	if got := n.RawPositions(); got[1] != geom.Pt(1, 1) {
		t.Errorf("RawPositions()[1] = %v", got[1])
	}

	if err := n.Place(anchors, 1); err == nil {
		t.Error("second Place should fail")
	}
}

func TestPlaceLengthMismatch(t *testing.T) {
	n, err := Resolve(sampleDoc())
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Place([]geom.Point{{}}, 1); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("err = %v, want INTERNAL_ERROR", err)
	}
}
