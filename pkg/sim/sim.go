// Package sim implements anchor-only relaxation of node positions.
//
// Every tick moves each unpinned node a fixed fraction of the way towards
// its anchor. There are no node-node or edge forces. At most one node is
// pinned; a pinned node follows its pin exactly. A scalar energy (alpha)
// tracks whether the host needs to keep ticking: [Simulator.Boost] raises it
// when a drag begins, [Simulator.Release] lets it decay, and once it falls
// below AlphaMin with every node back on its anchor the simulator reports
// itself settled.
//
// A Simulator is not safe for concurrent use.
package sim

import (
	"math"
	"slices"
	"time"

	"github.com/matzehuels/netscope/pkg/geom"
)

// Config holds the simulation constants.
type Config struct {
	// Strength is the fraction of the remaining distance to the anchor
	// covered in one reference frame, in (0, 1].
	Strength float64
	// Frame is the reference frame duration Strength and AlphaDecay are
	// expressed in.
	Frame time.Duration
	// WorkingAlpha is the energy level Boost raises alpha to.
	WorkingAlpha float64
	// AlphaMin is the energy below which the simulator may settle.
	AlphaMin float64
	// AlphaDecay is the fraction of (target - alpha) applied per frame.
	AlphaDecay float64
	// SettleEpsilon is the largest distance from its anchor an unpinned
	// node may have for the simulator to settle.
	SettleEpsilon float64
}

// DefaultConfig returns the reference constants: strength 0.8 per 1/60 s,
// working alpha 0.3, and the usual alpha_min/alpha_decay pair that cools a
// fully energized simulation in about 300 frames.
func DefaultConfig() Config {
	return Config{
		Strength:      0.8,
		Frame:         time.Second / 60,
		WorkingAlpha:  0.3,
		AlphaMin:      0.001,
		AlphaDecay:    1 - math.Pow(0.001, 1.0/300),
		SettleEpsilon: 0.01,
	}
}

// WithDefaults returns c with zero or out-of-range fields replaced by the
// values of DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Strength <= 0 || c.Strength > 1 {
		c.Strength = d.Strength
	}
	if c.Frame <= 0 {
		c.Frame = d.Frame
	}
	if c.WorkingAlpha <= 0 {
		c.WorkingAlpha = d.WorkingAlpha
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay > 1 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.SettleEpsilon <= 0 {
		c.SettleEpsilon = d.SettleEpsilon
	}
	return c
}

// Simulator holds simulated positions for a fixed set of anchors.
type Simulator struct {
	cfg     Config
	anchors []geom.Point
	pos     []geom.Point

	pinned int // -1 when nothing is pinned
	pin    geom.Point

	alpha       float64
	alphaTarget float64
	settled     bool
}

// New creates a simulator whose nodes start on their anchors. The new
// simulator is settled; it starts moving once a node is pinned or boosted.
func New(anchors []geom.Point, cfg Config) *Simulator {
	return &Simulator{
		cfg:     cfg.WithDefaults(),
		anchors: slices.Clone(anchors),
		pos:     slices.Clone(anchors),
		pinned:  -1,
		settled: true,
	}
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Len returns the number of simulated nodes.
func (s *Simulator) Len() int { return len(s.pos) }

// Alpha returns the current energy.
func (s *Simulator) Alpha() float64 { return s.alpha }

// AlphaTarget returns the level alpha is moving towards.
func (s *Simulator) AlphaTarget() float64 { return s.alphaTarget }

// Settled reports whether the simulator is at rest. Ticks on a settled
// simulator do not move anything.
func (s *Simulator) Settled() bool { return s.settled }

// Position returns the simulated position of node i.
func (s *Simulator) Position(i int) geom.Point { return s.pos[i] }

// Positions returns a copy of all simulated positions.
func (s *Simulator) Positions() []geom.Point { return slices.Clone(s.pos) }

// Anchor returns the anchor of node i.
func (s *Simulator) Anchor(i int) geom.Point { return s.anchors[i] }

// Pinned returns the pinned node, if any.
func (s *Simulator) Pinned() (int, bool) { return s.pinned, s.pinned >= 0 }

// Pin fixes node i at p, replacing any existing pin. The node jumps to p
// immediately so the next frame shows it under the pointer.
func (s *Simulator) Pin(i int, p geom.Point) {
	if i < 0 || i >= len(s.pos) {
		return
	}
	s.pinned = i
	s.pin = p
	s.pos[i] = p
	s.settled = false
}

// Unpin clears the pin. The formerly pinned node relaxes towards its anchor
// from wherever it was left.
func (s *Simulator) Unpin() {
	if s.pinned < 0 {
		return
	}
	s.pinned = -1
	s.settled = false
}

// Boost sets the energy target to the working level and raises alpha to at
// least that level, restarting a settled simulator.
func (s *Simulator) Boost() {
	s.alphaTarget = s.cfg.WorkingAlpha
	if s.alpha < s.cfg.WorkingAlpha {
		s.alpha = s.cfg.WorkingAlpha
	}
	s.settled = false
}

// Release lets the energy decay to zero.
func (s *Simulator) Release() {
	s.alphaTarget = 0
}

// Factor returns the fraction of the distance to the anchor covered during
// dt: 1 - (1 - strength)^(dt/frame).
func (s *Simulator) Factor(dt time.Duration) float64 {
	return perFrame(s.cfg.Strength, dt, s.cfg.Frame)
}

// Tick advances the simulation by dt and returns the new positions. The
// returned slice is a copy.
func (s *Simulator) Tick(dt time.Duration) []geom.Point {
	if s.settled {
		return s.Positions()
	}

	s.alpha += (s.alphaTarget - s.alpha) * perFrame(s.cfg.AlphaDecay, dt, s.cfg.Frame)

	f := s.Factor(dt)
	for i := range s.pos {
		if i == s.pinned {
			s.pos[i] = s.pin
			continue
		}
		s.pos[i] = s.pos[i].Add(s.anchors[i].Sub(s.pos[i]).Mul(f))
	}

	if s.alpha < s.cfg.AlphaMin && s.maxDrift() <= s.cfg.SettleEpsilon {
		for i := range s.pos {
			if i != s.pinned {
				s.pos[i] = s.anchors[i]
			}
		}
		s.alpha = 0
		s.settled = true
	}
	return s.Positions()
}

// maxDrift returns the largest anchor distance over unpinned nodes.
func (s *Simulator) maxDrift() float64 {
	var m float64
	for i := range s.pos {
		if i == s.pinned {
			continue
		}
		m = math.Max(m, s.pos[i].Dist(s.anchors[i]))
	}
	return m
}

func perFrame(rate float64, dt, frame time.Duration) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 - math.Pow(1-rate, float64(dt)/float64(frame))
}
