package adjacency

import (
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/netscope/pkg/graph"
	"github.com/matzehuels/netscope/pkg/network"
)

func resolve(t *testing.T, doc graph.Document) *network.Network {
	t.Helper()
	n, err := network.Resolve(doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return n
}

func bobAnnDoc() graph.Document {
	return graph.Document{
		Nodes: []graph.Node{
			{ID: "A", Label: "Bob"},
			{ID: "B", Label: "Ann"},
			{ID: "C"},
		},
		Edges: []graph.Edge{
			{Source: "A", Target: "B"},
			{Source: "A", Target: "C"},
		},
	}
}

func TestBobAnnUnnamed(t *testing.T) {
	idx := Build(resolve(t, bobAnnDoc()))

	tests := []struct {
		id   string
		want []string
	}{
		{"A", []string{"B", "C"}},
		{"B", []string{"A"}},
		{"C", []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := idx.NeighborsOf(tt.id); !slices.Equal(got, tt.want) {
				t.Errorf("NeighborsOf(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestSymmetry(t *testing.T) {
	doc := graph.Document{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "c", Target: "a"},
			{Source: "d", Target: "c"},
			{Source: "b", Target: "d"},
		},
	}
	idx := Build(resolve(t, doc))

	for _, e := range doc.Edges {
		if !slices.Contains(idx.NeighborsOf(e.Source), e.Target) {
			t.Errorf("%s missing from neighbors of %s", e.Target, e.Source)
		}
		if !slices.Contains(idx.NeighborsOf(e.Target), e.Source) {
			t.Errorf("%s missing from neighbors of %s", e.Source, e.Target)
		}
		if !idx.IsNeighbor(e.Source, e.Target) || !idx.IsNeighbor(e.Target, e.Source) {
			t.Errorf("IsNeighbor(%s, %s) not symmetric", e.Source, e.Target)
		}
	}
}

func TestOrdering(t *testing.T) {
	doc := graph.Document{
		Nodes: []graph.Node{
			{ID: "hub", Label: "Hub"},
			{ID: "n3", Label: "beta"},
			{ID: "n2", Label: "Beta"},
			{ID: "n1", Label: "alpha"},
			{ID: "n5", Label: "Same"},
			{ID: "n4", Label: "Same"},
			{ID: "n6"},
		},
		Edges: []graph.Edge{
			{Source: "hub", Target: "n1"},
			{Source: "hub", Target: "n2"},
			{Source: "hub", Target: "n3"},
			{Source: "n4", Target: "hub"},
			{Source: "n5", Target: "hub"},
			{Source: "n6", Target: "hub"},
		},
	}
	net := resolve(t, doc)

	// Byte order puts upper case before lower case; "Same" ties break by id.
	want := []string{"n2", "n4", "n5", "n6", "n1", "n3"}
	for run := 0; run < 3; run++ {
		if got := Build(net).NeighborsOf("hub"); !slices.Equal(got, want) {
			t.Fatalf("run %d: NeighborsOf(hub) = %v, want %v", run, got, want)
		}
	}
}

func TestDeduplicationAndSelfLoops(t *testing.T) {
	doc := graph.Document{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
			{Source: "a", Target: "b"},
			{Source: "a", Target: "a"},
		},
	}
	idx := Build(resolve(t, doc))

	if got := idx.NeighborsOf("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("NeighborsOf(a) = %v", got)
	}
	if idx.IsNeighbor("a", "a") {
		t.Error("a node is never its own neighbor")
	}
	if idx.Degree("b") != 1 {
		t.Errorf("Degree(b) = %d", idx.Degree("b"))
	}
}

func TestIsolatedAndUnknown(t *testing.T) {
	idx := Build(resolve(t, graph.Document{Nodes: []graph.Node{{ID: "solo"}}}))
	if got := idx.NeighborsOf("solo"); len(got) != 0 {
		t.Errorf("NeighborsOf(solo) = %v", got)
	}
	if got := idx.NeighborsOf("ghost"); len(got) != 0 {
		t.Errorf("NeighborsOf(ghost) = %v", got)
	}
}

func TestNeighborsOfReturnsCopy(t *testing.T) {
	idx := Build(resolve(t, bobAnnDoc()))
	got := idx.NeighborsOf("A")
	got[0] = "mutated"
	if idx.NeighborsOf("A")[0] != "B" {
		t.Error("index should not be mutable through NeighborsOf")
	}
}

func ExampleIndex_NeighborsOf() {
	net, _ := network.Resolve(graph.Document{
		Nodes: []graph.Node{{ID: "A", Label: "Bob"}, {ID: "B", Label: "Ann"}, {ID: "C"}},
		Edges: []graph.Edge{{Source: "A", Target: "B"}, {Source: "A", Target: "C"}},
	})
	idx := Build(net)
	for _, id := range idx.NeighborsOf("A") {
		fmt.Println(id, net.Lookup(id).DisplayLabel())
	}
	// Output:
	// B Ann
	// C UNNAMED NODE
}
