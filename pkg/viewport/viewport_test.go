package viewport

import (
	"math"
	"testing"

	"github.com/matzehuels/netscope/pkg/geom"
)

func nearPt(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestApplyInvert(t *testing.T) {
	tr := Transform{X: 30, Y: -12, K: 2.5}
	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 4}, {X: -7.5, Y: 100}} {
		s := tr.Apply(p)
		if got := tr.Invert(s); !nearPt(got, p) {
			t.Errorf("Invert(Apply(%v)) = %v", p, got)
		}
	}
	if got := Identity.Apply(geom.Pt(3, 4)); got != geom.Pt(3, 4) {
		t.Errorf("Identity.Apply = %v", got)
	}
}

func TestPan(t *testing.T) {
	got := Identity.Pan(5, -3).Pan(1, 1)
	if got != (Transform{X: 6, Y: -2, K: 1}) {
		t.Errorf("Pan = %+v", got)
	}
}

func TestZoomAtKeepsCursorFixed(t *testing.T) {
	l := DefaultLimits()
	tests := []struct {
		name   string
		start  Transform
		factor float64
		at     geom.Point
	}{
		{"zoom in at origin", Identity, 2, geom.Pt(0, 0)},
		{"zoom in off center", Identity, 1.5, geom.Pt(120, 80)},
		{"zoom out panned", Transform{X: -40, Y: 25, K: 3}, 0.5, geom.Pt(200, 150)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.start.Invert(tt.at)
			next := l.ZoomAt(tt.start, tt.factor, tt.at)
			if after := next.Invert(tt.at); !nearPt(before, after) {
				t.Errorf("world point moved from %v to %v", before, after)
			}
			if math.Abs(next.K-tt.start.K*tt.factor) > 1e-9 {
				t.Errorf("K = %v, want %v", next.K, tt.start.K*tt.factor)
			}
		})
	}
}

func TestZoomAtClamps(t *testing.T) {
	l := DefaultLimits()
	in := l.ZoomAt(Identity, 100, geom.Pt(50, 50))
	if in.K != DefaultMaxScale {
		t.Errorf("K = %v, want %v", in.K, DefaultMaxScale)
	}
	out := l.ZoomAt(Identity, 0.001, geom.Pt(50, 50))
	if out.K != DefaultMinScale {
		t.Errorf("K = %v, want %v", out.K, DefaultMinScale)
	}
	// Clamped zoom still keeps the cursor's world point fixed.
	if got := in.Invert(geom.Pt(50, 50)); !nearPt(got, geom.Pt(50, 50)) {
		t.Errorf("world point = %v", got)
	}
}

func TestClamp(t *testing.T) {
	l := Limits{MinScale: 0.5, MaxScale: 2}
	tests := []struct {
		name string
		in   Transform
		want Transform
	}{
		{"inside", Transform{X: 1, Y: 2, K: 1.5}, Transform{X: 1, Y: 2, K: 1.5}},
		{"too small", Transform{K: 0.1}, Transform{K: 0.5}},
		{"too large", Transform{K: 9}, Transform{K: 2}},
		{"zero", Transform{K: 0}, Transform{K: 1}},
		{"nan", Transform{X: math.NaN(), K: math.NaN()}, Transform{K: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	got := Transform{X: 10, Y: -2.5, K: 1.25}.String()
	if got != "translate(10,-2.5) scale(1.25)" {
		t.Errorf("String() = %q", got)
	}
}
