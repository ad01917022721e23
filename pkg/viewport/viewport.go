// Package viewport implements the pan/zoom transform applied on top of
// simulated node positions.
//
// A [Transform] maps world coordinates (normalized layout space) to screen
// coordinates as screen = world*K + (X, Y). Node coordinates are never
// rewritten for pan or zoom; renderers apply the transform at group level.
package viewport

import (
	"fmt"
	"math"

	"github.com/matzehuels/netscope/pkg/geom"
)

// Default zoom limits.
const (
	DefaultMinScale = 0.2
	DefaultMaxScale = 5.0
)

// Transform is a translation plus uniform scale.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a world point to screen coordinates.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point to world coordinates.
func (t Transform) Invert(p geom.Point) geom.Point {
	return geom.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Pan returns t translated by (dx, dy) screen units.
func (t Transform) Pan(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// String formats t as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// Limits bounds the zoom scale.
type Limits struct {
	MinScale float64
	MaxScale float64
}

// DefaultLimits returns [DefaultMinScale, DefaultMaxScale].
func DefaultLimits() Limits {
	return Limits{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale}
}

func (l Limits) withDefaults() Limits {
	if l.MinScale <= 0 {
		l.MinScale = DefaultMinScale
	}
	if l.MaxScale <= 0 {
		l.MaxScale = DefaultMaxScale
	}
	if l.MaxScale < l.MinScale {
		l.MinScale, l.MaxScale = l.MaxScale, l.MinScale
	}
	return l
}

// ClampScale clamps k into the limits. Non-positive or NaN scales become 1
// before clamping.
func (l Limits) ClampScale(k float64) float64 {
	l = l.withDefaults()
	if !(k > 0) || math.IsInf(k, 0) {
		k = 1
	}
	return math.Max(l.MinScale, math.Min(l.MaxScale, k))
}

// Clamp returns t with its scale clamped and non-finite translations reset
// to zero.
func (l Limits) Clamp(t Transform) Transform {
	t.K = l.ClampScale(t.K)
	if math.IsNaN(t.X) || math.IsInf(t.X, 0) {
		t.X = 0
	}
	if math.IsNaN(t.Y) || math.IsInf(t.Y, 0) {
		t.Y = 0
	}
	return t
}

// ZoomAt scales t by factor about the screen point at, keeping the world
// point under at fixed. The resulting scale is clamped to l.
func (l Limits) ZoomAt(t Transform, factor float64, at geom.Point) Transform {
	world := t.Invert(at)
	k := l.ClampScale(t.K * factor)
	return Transform{
		X: at.X - world.X*k,
		Y: at.Y - world.Y*k,
		K: k,
	}
}
