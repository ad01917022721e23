package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/netscope/pkg/errors"
)

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"label set", Node{ID: "a", Label: "Bob"}, "Bob"},
		{"empty label", Node{ID: "a"}, UnnamedLabel},
		{"whitespace kept", Node{ID: "a", Label: " "}, " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.DisplayLabel(); got != tt.want {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadDocument(t *testing.T) {
	input := `{
		"nodes": [
			{"id": "a", "x": 1.5, "y": -2, "size": 10, "color": "red", "label": "Bob"},
			{"id": "b", "x": 0, "y": 0, "size": 4}
		],
		"edges": [{"source": "a", "target": "b", "size": 2}]
	}`

	doc, err := ReadDocument(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
	a := doc.Nodes[0]
	if a.X != 1.5 || a.Y != -2 || a.Size != 10 || a.Color != "red" || a.Label != "Bob" {
		t.Errorf("node a = %+v", a)
	}
	if doc.Nodes[1].Label != "" {
		t.Errorf("missing label decoded as %q", doc.Nodes[1].Label)
	}
	if e := doc.Edges[0]; e.Source != "a" || e.Target != "b" || e.Size != 2 {
		t.Errorf("edge = %+v", e)
	}
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"wrong type", `{"nodes": [{"id": "a", "x": "left"}]}`},
		{"not an object", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeLoad) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeLoad)
			}
		})
	}
}

func TestDocumentFileRoundTrip(t *testing.T) {
	doc := Document{
		Name:  "tiny",
		Nodes: []Node{{ID: "a", X: 1, Y: 2, Size: 3, Color: "blue", Label: "A"}},
		Edges: []Edge{},
	}
	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadDocumentFile(path)
	if err != nil {
		t.Fatalf("ReadDocumentFile: %v", err)
	}
	if got.Name != "tiny" || len(got.Nodes) != 1 || got.Nodes[0] != doc.Nodes[0] {
		t.Errorf("round trip = %+v", got)
	}
}

func TestReadDocumentFileMissing(t *testing.T) {
	_, err := ReadDocumentFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeLoad) {
		t.Errorf("err = %v, want LOAD_ERROR", err)
	}
}
