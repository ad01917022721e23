package engine

import (
	"math"

	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/interact"
)

// gesture tracks one press of the primary pointer button.
type gesture struct {
	down  bool
	start geom.Point // screen
	last  geom.Point // screen
	node  string     // node pressed on, "" for background
	grab  geom.Point // node position minus pointer world position
	moved bool
}

// HitTest returns the topmost node under the screen point p. Nodes drawn
// later are on top. Every node is hit within at least MinHitRadius screen
// units of its center.
func (e *Engine) HitTest(p geom.Point) (string, bool) {
	if !e.loaded {
		return "", false
	}
	w := e.transform.Invert(p)
	minR := e.opts.MinHitRadius / e.transform.K
	for i := e.net.Len() - 1; i >= 0; i-- {
		r := math.Max(e.net.Nodes[i].Radius, minR)
		if e.sim.Position(i).Dist(w) <= r {
			return e.net.Nodes[i].ID, true
		}
	}
	return "", false
}

// PointerDown starts a press at the screen point p.
func (e *Engine) PointerDown(p geom.Point) {
	if !e.loaded {
		return
	}
	g := gesture{down: true, start: p, last: p}
	if id, ok := e.HitTest(p); ok {
		g.node = id
		pos, _ := e.Position(id)
		g.grab = pos.Sub(e.transform.Invert(p))
	}
	e.gesture = g
}

// PointerMove reports pointer movement to the screen point p. It drives
// hover enter/exit, node drags once the press has travelled past the click
// threshold, and background panning.
func (e *Engine) PointerMove(p geom.Point) {
	if !e.loaded {
		return
	}
	g := &e.gesture
	if g.down {
		if !g.moved && p.Dist(g.start) > e.opts.ClickThreshold {
			g.moved = true
			if g.node != "" {
				e.Dispatch(interact.DragStart{Node: g.node, At: e.dragPoint(p)})
			}
		}
		if g.moved {
			if g.node != "" {
				e.Dispatch(interact.DragMove{At: e.dragPoint(p)})
			} else {
				e.transform = e.transform.Pan(p.X-g.last.X, p.Y-g.last.Y)
			}
		}
		g.last = p
	}
	e.hover(p)
}

// PointerUp ends a press at the screen point p. A press that never
// exceeded the click threshold is a click on the node it started on, or on
// the background.
func (e *Engine) PointerUp(p geom.Point) {
	if !e.loaded || !e.gesture.down {
		return
	}
	g := e.gesture
	e.gesture = gesture{}
	switch {
	case g.moved && g.node != "":
		e.Dispatch(interact.DragEnd{})
	case g.moved:
	case g.node != "":
		e.Dispatch(interact.NodeClick{Node: g.node})
	default:
		e.Dispatch(interact.BackgroundClick{})
	}
	e.hover(p)
}

// PointerLeave reports that the pointer left the surface.
func (e *Engine) PointerLeave() {
	if !e.loaded {
		return
	}
	if h := e.state.Hovering; h != "" {
		e.Dispatch(interact.PointerExit{Node: h})
	}
}

// Wheel zooms about the screen point p. Positive delta zooms out, one unit
// per wheel notch.
func (e *Engine) Wheel(p geom.Point, delta float64) {
	if !e.loaded {
		return
	}
	factor := math.Pow(e.opts.ZoomStep, -delta)
	e.transform = e.opts.Limits.ZoomAt(e.transform, factor, p)
}

// Pan translates the view by (dx, dy) screen units.
func (e *Engine) Pan(dx, dy float64) {
	if !e.loaded {
		return
	}
	e.transform = e.transform.Pan(dx, dy)
}

// Dragging reports whether a node drag is in progress.
func (e *Engine) Dragging() bool { return e.state.Dragging }

func (e *Engine) dragPoint(p geom.Point) geom.Point {
	return e.transform.Invert(p).Add(e.gesture.grab)
}

func (e *Engine) hover(p geom.Point) {
	hit, _ := e.HitTest(p)
	cur := e.state.Hovering
	if hit == cur {
		return
	}
	if cur != "" {
		e.Dispatch(interact.PointerExit{Node: cur})
	}
	if hit != "" {
		e.Dispatch(interact.PointerEnter{Node: hit})
	}
}
