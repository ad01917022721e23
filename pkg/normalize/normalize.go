// Package normalize maps raw node coordinates into a bounded, centered
// viewport space.
//
// The y axis is flipped before bounds are taken, so larger raw y ends up
// higher on screen. Points are centered on the viewport and scaled uniformly
// by
//
//	k = min(W/|maxX-midX|, W/|midX-minX|, H/|maxY-midY|, H/|midY-minY|) * margin
//
// where zero denominators are skipped. When every term is skipped (a single
// point, or all points collinear on both axes) the configured default scale
// is used instead. Degenerate input never produces an error.
package normalize

import (
	"math"

	"github.com/matzehuels/netscope/pkg/geom"
)

// Defaults.
const (
	DefaultMargin = 0.45
	DefaultScale  = 1.0
)

// Options configures a normalization.
type Options struct {
	Width, Height float64 // viewport size; must be positive
	Margin        float64 // fraction of the viewport extent used per half-axis (default 0.45)
	DefaultScale  float64 // scale used when no extent is measurable (default 1.0)
}

func (o Options) withDefaults() Options {
	if o.Margin <= 0 || math.IsNaN(o.Margin) {
		o.Margin = DefaultMargin
	}
	if o.DefaultScale <= 0 || math.IsNaN(o.DefaultScale) {
		o.DefaultScale = DefaultScale
	}
	return o
}

// Result is the outcome of a normalization.
type Result struct {
	Points []geom.Point // normalized positions, same order as the input
	Scale  float64      // k
	Mid    geom.Point   // center of the flipped raw bounds
	Shift  geom.Point   // (W/2, H/2)
}

// Map applies the same transformation to another raw point.
func (r Result) Map(raw geom.Point) geom.Point {
	return geom.Point{
		X: (raw.X-r.Mid.X)*r.Scale + r.Shift.X,
		Y: (-raw.Y-r.Mid.Y)*r.Scale + r.Shift.Y,
	}
}

// Normalize maps raw into viewport space.
func Normalize(raw []geom.Point, opts Options) Result {
	opts = opts.withDefaults()

	flipped := make([]geom.Point, len(raw))
	for i, p := range raw {
		flipped[i] = geom.Point{X: p.X, Y: -p.Y}
	}
	b := geom.Bounds(flipped)
	mid := b.Center()

	res := Result{
		Points: make([]geom.Point, len(raw)),
		Scale:  scale(b, mid, opts),
		Mid:    mid,
		Shift:  geom.Point{X: opts.Width / 2, Y: opts.Height / 2},
	}
	for i, p := range raw {
		res.Points[i] = res.Map(p)
	}
	return res
}

func scale(b geom.Rect, mid geom.Point, opts Options) float64 {
	terms := [...]struct{ extent, span float64 }{
		{opts.Width, b.Max.X - mid.X},
		{opts.Width, mid.X - b.Min.X},
		{opts.Height, b.Max.Y - mid.Y},
		{opts.Height, mid.Y - b.Min.Y},
	}

	k := math.Inf(1)
	for _, t := range terms {
		d := math.Abs(t.span)
		if d == 0 {
			continue
		}
		k = math.Min(k, t.extent/d)
	}
	if math.IsInf(k, 1) {
		return opts.DefaultScale
	}
	return k * opts.Margin
}
