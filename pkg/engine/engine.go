package engine

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netscope/pkg/adjacency"
	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/graph"
	"github.com/matzehuels/netscope/pkg/interact"
	"github.com/matzehuels/netscope/pkg/network"
	"github.com/matzehuels/netscope/pkg/normalize"
	"github.com/matzehuels/netscope/pkg/sim"
	"github.com/matzehuels/netscope/pkg/viewport"
)

// Default viewport and gesture settings.
const (
	DefaultWidth          = 1024.0
	DefaultHeight         = 768.0
	DefaultZoomStep       = 1.2
	DefaultClickThreshold = 3.0
	DefaultMinHitRadius   = 4.0
)

var (
	// ErrStaleLoad is returned by CompleteLoad for a ticket that has been
	// superseded by a newer BeginLoad or by Reset.
	ErrStaleLoad = errors.New(errors.ErrCodeStaleLoad, "load superseded by a newer load")

	// ErrInert is returned by operations that need a loaded graph.
	ErrInert = errors.New(errors.ErrCodeInvalidInput, "no graph loaded")
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	// Width and Height are the viewport size used for normalization.
	Width, Height float64
	// Margin and DefaultScale are passed to the normalizer.
	Margin, DefaultScale float64
	// NodeScale multiplies node sizes and edge sizes; 0 uses the
	// normalization scale.
	NodeScale float64

	Sim    sim.Config
	Limits viewport.Limits

	// ZoomStep is the zoom factor of one wheel notch.
	ZoomStep float64
	// ClickThreshold is the pointer travel, in screen units, beyond which a
	// press becomes a drag.
	ClickThreshold float64
	// MinHitRadius is the smallest hit radius of a node in screen units.
	MinHitRadius float64

	Logger *log.Logger
	Panel  Panel
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.ZoomStep <= 1 {
		o.ZoomStep = DefaultZoomStep
	}
	if o.ClickThreshold <= 0 {
		o.ClickThreshold = DefaultClickThreshold
	}
	if o.MinHitRadius < 0 {
		o.MinHitRadius = 0
	} else if o.MinHitRadius == 0 {
		o.MinHitRadius = DefaultMinHitRadius
	}
	o.Sim = o.Sim.WithDefaults()
	if o.Limits == (viewport.Limits{}) {
		o.Limits = viewport.DefaultLimits()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Panel == nil {
		o.Panel = NopPanel{}
	}
	return o
}

// Ticket identifies a load started with BeginLoad.
type Ticket uint64

// Engine is the single owner of a loaded graph. See the package
// documentation for its lifecycle.
type Engine struct {
	opts   Options
	logger *log.Logger
	panel  Panel

	ticket Ticket
	loaded bool

	net   *network.Network
	adj   *adjacency.Index
	sim   *sim.Simulator
	scale float64 // normalization k of the current graph

	state     interact.State
	target    string
	transform viewport.Transform
	gesture   gesture
}

// New creates an inert engine.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		opts:      opts,
		logger:    opts.Logger,
		panel:     opts.Panel,
		transform: viewport.Identity,
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// SetPanel replaces the side panel. A nil panel disables panel updates.
// The new panel is brought up to date immediately.
func (e *Engine) SetPanel(p Panel) {
	if p == nil {
		p = NopPanel{}
	}
	e.panel = p
	e.notifyPanel()
}

// Loaded reports whether a graph is loaded.
func (e *Engine) Loaded() bool { return e.loaded }

// BeginLoad starts a load and returns its ticket. Any earlier ticket
// becomes stale.
func (e *Engine) BeginLoad() Ticket {
	e.ticket++
	e.logger.Debug("load started", "ticket", e.ticket)
	return e.ticket
}

// CompleteLoad delivers the result of the load identified by t.
//
// A stale ticket is discarded with ErrStaleLoad. A fetch error is returned
// as a LOAD_ERROR (unless it already carries a code) and leaves the engine
// unchanged, as does a document that fails to resolve.
func (e *Engine) CompleteLoad(t Ticket, doc graph.Document, fetchErr error) error {
	if t != e.ticket {
		e.logger.Debug("discarding stale load", "ticket", t, "latest", e.ticket)
		return ErrStaleLoad
	}
	if fetchErr != nil {
		if errors.GetCode(fetchErr) == "" {
			fetchErr = errors.Wrap(errors.ErrCodeLoad, fetchErr, "fetch graph document")
		}
		e.logger.Warn("load failed", "err", fetchErr)
		return fetchErr
	}
	if err := e.install(doc); err != nil {
		e.logger.Warn("load rejected", "err", err)
		return err
	}
	return nil
}

// Load synchronously loads doc. It is BeginLoad followed by CompleteLoad.
func (e *Engine) Load(doc graph.Document) error {
	return e.CompleteLoad(e.BeginLoad(), doc, nil)
}

// Reset unloads the graph, making the engine inert again. Pending loads
// become stale. The viewport transform is kept.
func (e *Engine) Reset() {
	e.ticket++
	e.loaded = false
	e.net, e.adj, e.sim = nil, nil, nil
	e.scale = 0
	e.resetInteraction()
}

// ResetView restores the identity transform.
func (e *Engine) ResetView() { e.transform = viewport.Identity }

// Transform returns the current pan/zoom transform.
func (e *Engine) Transform() viewport.Transform { return e.transform }

// SetTransform atomically replaces the pan/zoom transform. The scale is
// clamped to the configured limits.
func (e *Engine) SetTransform(t viewport.Transform) {
	e.transform = e.opts.Limits.Clamp(t)
}

// install builds every derived structure for doc and commits them only if
// all steps succeed.
func (e *Engine) install(doc graph.Document) error {
	start := time.Now()

	net, err := network.Resolve(doc)
	if err != nil {
		return err
	}
	norm := normalize.Normalize(net.RawPositions(), normalize.Options{
		Width:        e.opts.Width,
		Height:       e.opts.Height,
		Margin:       e.opts.Margin,
		DefaultScale: e.opts.DefaultScale,
	})
	nodeScale := e.opts.NodeScale
	if nodeScale <= 0 {
		nodeScale = norm.Scale
	}
	if err := net.Place(norm.Points, nodeScale); err != nil {
		return err
	}

	e.net = net
	e.adj = adjacency.Build(net)
	e.sim = sim.New(norm.Points, e.opts.Sim)
	e.scale = norm.Scale
	e.loaded = true
	e.resetInteraction()

	e.logger.Info("loaded network",
		"name", doc.Name,
		"nodes", net.Len(),
		"edges", len(net.Edges),
		"scale", math.Round(norm.Scale*1000)/1000,
		"took", time.Since(start).Round(time.Microsecond))
	return nil
}

func (e *Engine) resetInteraction() {
	e.state = interact.Idle
	e.target = ""
	e.gesture = gesture{}
	e.panel.TargetCleared()
}

// Network returns the loaded network, or nil when inert.
func (e *Engine) Network() *network.Network { return e.net }

// Scale returns the normalization scale of the loaded graph.
func (e *Engine) Scale() float64 { return e.scale }

// NeighborsOf returns the ordered neighbor ids of id.
func (e *Engine) NeighborsOf(id string) []string {
	if !e.loaded {
		return nil
	}
	return e.adj.NeighborsOf(id)
}

// Degree returns the number of distinct neighbors of id.
func (e *Engine) Degree(id string) int {
	if !e.loaded {
		return 0
	}
	return e.adj.Degree(id)
}

// State returns the interaction state.
func (e *Engine) State() interact.State { return e.state }

// Target returns the currently highlighted node id, or "".
func (e *Engine) Target() string { return e.target }

// Settled reports whether the simulation is at rest. An inert engine is
// always settled.
func (e *Engine) Settled() bool { return !e.loaded || e.sim.Settled() }

// Tick advances the simulation by dt and returns the simulated positions in
// node table order. It returns nil when inert.
func (e *Engine) Tick(dt time.Duration) []geom.Point {
	if !e.loaded {
		return nil
	}
	return e.sim.Tick(dt)
}

// Settle ticks at the reference frame rate until the simulation is at rest
// or maxTicks is reached, and returns the number of ticks run.
func (e *Engine) Settle(maxTicks int) int {
	if !e.loaded {
		return 0
	}
	frame := e.sim.Config().Frame
	n := 0
	for ; n < maxTicks && !e.sim.Settled(); n++ {
		e.sim.Tick(frame)
	}
	return n
}

// Position returns the simulated position of the node with the given id.
func (e *Engine) Position(id string) (geom.Point, bool) {
	if !e.loaded {
		return geom.Point{}, false
	}
	i, ok := e.net.Index(id)
	if !ok {
		return geom.Point{}, false
	}
	return e.sim.Position(i), true
}

// Dispatch feeds ev to the interaction state machine and executes the
// resulting commands. Events referring to nodes that are not in the loaded
// graph, and all events on an inert engine, are ignored.
func (e *Engine) Dispatch(ev interact.Event) interact.Result {
	if !e.loaded || !e.knows(ev) {
		return interact.Result{State: e.state}
	}
	r := interact.Step(e.state, ev)
	e.state = r.State
	for _, c := range r.Commands {
		e.exec(c)
	}
	return r
}

// Select selects the node with the given id as if it had been clicked.
func (e *Engine) Select(id string) error {
	if !e.loaded {
		return ErrInert
	}
	if e.net.Lookup(id) == nil {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", id)
	}
	e.Dispatch(interact.NodeClick{Node: id})
	return nil
}

// ClearSelection clears the selection as if the background had been
// clicked.
func (e *Engine) ClearSelection() {
	e.Dispatch(interact.BackgroundClick{})
}

func (e *Engine) knows(ev interact.Event) bool {
	var id string
	switch ev := ev.(type) {
	case interact.PointerEnter:
		id = ev.Node
	case interact.PointerExit:
		id = ev.Node
	case interact.NodeClick:
		id = ev.Node
	case interact.DragStart:
		id = ev.Node
	default:
		return true
	}
	return e.net.Lookup(id) != nil
}

func (e *Engine) exec(c interact.Command) {
	switch c := c.(type) {
	case interact.Highlight:
		e.target = c.Target
		e.notifyPanel()
	case interact.Pin:
		if i, ok := e.net.Index(c.Node); ok {
			e.sim.Pin(i, c.At)
		}
	case interact.Unpin:
		e.sim.Unpin()
	case interact.Boost:
		e.sim.Boost()
	case interact.Release:
		e.sim.Release()
	}
}

func (e *Engine) notifyPanel() {
	card, ok := e.Card()
	if !ok {
		e.panel.TargetCleared()
		return
	}
	e.panel.TargetChanged(card.Label, card.Neighbors)
}
