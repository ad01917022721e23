package engine

import (
	"github.com/matzehuels/netscope/pkg/interact"
	"github.com/matzehuels/netscope/pkg/scene"
)

// Frame returns the current drawable state. An inert engine returns a frame
// with no nodes or edges.
func (e *Engine) Frame() scene.Frame {
	f := scene.Frame{
		Width:     e.opts.Width,
		Height:    e.opts.Height,
		Transform: e.transform,
		Target:    e.target,
	}
	if !e.loaded {
		return f
	}

	classes := interact.Classify(e.target, e.adj, e.net)

	f.Nodes = make([]scene.NodeView, e.net.Len())
	for i := range e.net.Nodes {
		n := &e.net.Nodes[i]
		pos := e.sim.Position(i)
		label := scene.PlaceLabel(pos, n.Radius)
		f.Nodes[i] = scene.NodeView{
			ID:     n.ID,
			X:      pos.X,
			Y:      pos.Y,
			Radius: n.Radius,
			Color:  n.Color,
			Class:  classes.Nodes[i],
			Label:  n.DisplayLabel(),
			LabelX: label.X,
			LabelY: label.Y,
		}
	}

	f.Edges = make([]scene.EdgeView, len(e.net.Edges))
	for i := range e.net.Edges {
		ed := &e.net.Edges[i]
		si, _ := e.net.Index(ed.Source.ID)
		ti, _ := e.net.Index(ed.Target.ID)
		a, b := e.sim.Position(si), e.sim.Position(ti)
		f.Edges[i] = scene.EdgeView{
			Source: ed.Source.ID,
			Target: ed.Target.ID,
			X1:     a.X,
			Y1:     a.Y,
			X2:     b.X,
			Y2:     b.Y,
			Width:  ed.Width,
			Class:  classes.Edges[i],
		}
	}
	return f
}
