package interact

import (
	"github.com/matzehuels/netscope/pkg/adjacency"
	"github.com/matzehuels/netscope/pkg/network"
	"github.com/matzehuels/netscope/pkg/scene"
)

// Classes holds highlight classes indexed like the network's node and edge
// slices.
type Classes struct {
	Nodes []scene.Class
	Edges []scene.Class
}

// Classify derives highlight classes for target. With no target, or a
// target that is not in net, every class is [scene.ClassNone]. Otherwise
// the target is active, its neighbors are neighbor and every other node is
// inactive; edges touching the target are active and all others inactive.
func Classify(target string, idx *adjacency.Index, net *network.Network) Classes {
	c := Classes{
		Nodes: make([]scene.Class, len(net.Nodes)),
		Edges: make([]scene.Class, len(net.Edges)),
	}
	if target == "" || net.Lookup(target) == nil {
		return c
	}

	for i := range net.Nodes {
		id := net.Nodes[i].ID
		switch {
		case id == target:
			c.Nodes[i] = scene.ClassActive
		case idx.IsNeighbor(target, id):
			c.Nodes[i] = scene.ClassNeighbor
		default:
			c.Nodes[i] = scene.ClassInactive
		}
	}
	for i := range net.Edges {
		if net.Edges[i].Touches(target) {
			c.Edges[i] = scene.ClassActive
		} else {
			c.Edges[i] = scene.ClassInactive
		}
	}
	return c
}
