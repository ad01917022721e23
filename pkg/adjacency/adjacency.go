// Package adjacency builds the symmetric, label-ordered neighbor index of a
// network.
//
// Every edge (u, v) makes v a neighbor of u and u a neighbor of v. Parallel
// edges collapse and self-loops contribute nothing. Each neighbor list is
// ordered by the neighbor's display label, compared byte-wise and
// case-sensitively, with ties broken by id. The index is immutable once
// built.
package adjacency

import (
	"cmp"
	"slices"

	"github.com/matzehuels/netscope/pkg/network"
)

// Index maps node ids to their ordered neighbor ids.
type Index struct {
	neighbors map[string][]string
	sets      map[string]map[string]struct{}
}

// Build constructs the index for net.
func Build(net *network.Network) *Index {
	idx := &Index{
		neighbors: make(map[string][]string),
		sets:      make(map[string]map[string]struct{}),
	}

	for i := range net.Edges {
		e := &net.Edges[i]
		u, v := e.Source.ID, e.Target.ID
		if u == v {
			continue
		}
		idx.link(u, v)
		idx.link(v, u)
	}

	for id, ns := range idx.neighbors {
		slices.SortFunc(ns, func(a, b string) int {
			la, lb := net.Lookup(a).DisplayLabel(), net.Lookup(b).DisplayLabel()
			if c := cmp.Compare(la, lb); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
		idx.neighbors[id] = ns
	}
	return idx
}

func (idx *Index) link(from, to string) {
	set, ok := idx.sets[from]
	if !ok {
		set = make(map[string]struct{})
		idx.sets[from] = set
	}
	if _, seen := set[to]; seen {
		return
	}
	set[to] = struct{}{}
	idx.neighbors[from] = append(idx.neighbors[from], to)
}

// NeighborsOf returns the ordered neighbor ids of id. The result is empty,
// not an error, for isolated and unknown nodes. Callers own the returned
// slice.
func (idx *Index) NeighborsOf(id string) []string {
	return slices.Clone(idx.neighbors[id])
}

// IsNeighbor reports whether a and b share an edge.
func (idx *Index) IsNeighbor(a, b string) bool {
	_, ok := idx.sets[a][b]
	return ok
}

// Degree returns the number of distinct neighbors of id.
func (idx *Index) Degree(id string) int {
	return len(idx.neighbors[id])
}
