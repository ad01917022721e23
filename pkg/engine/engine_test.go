package engine

import (
	stderrors "errors"
	"io"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/graph"
	"github.com/matzehuels/netscope/pkg/interact"
	"github.com/matzehuels/netscope/pkg/scene"
	"github.com/matzehuels/netscope/pkg/sim"
	"github.com/matzehuels/netscope/pkg/viewport"
)

// recordingPanel remembers the last panel update.
type recordingPanel struct {
	visible   bool
	label     string
	neighbors []string
	changes   int
	clears    int
}

func (p *recordingPanel) TargetChanged(label string, neighbors []string) {
	p.visible = true
	p.label = label
	p.neighbors = neighbors
	p.changes++
}

func (p *recordingPanel) TargetCleared() {
	p.visible = false
	p.label = ""
	p.neighbors = nil
	p.clears++
}

// bobAnn normalizes to A=(5,95), B=(95,95), C=(5,5) in a 100x100 viewport.
func bobAnn() graph.Document {
	return graph.Document{
		Name: "bob-ann",
		Nodes: []graph.Node{
			{ID: "A", X: 0, Y: 0, Size: 4, Color: "red", Label: "Bob"},
			{ID: "B", X: 10, Y: 0, Size: 4, Color: "green", Label: "Ann"},
			{ID: "C", X: 0, Y: 10, Size: 4, Color: "blue"},
		},
		Edges: []graph.Edge{
			{Source: "A", Target: "B", Size: 1},
			{Source: "A", Target: "C", Size: 2},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *recordingPanel) {
	t.Helper()
	p := &recordingPanel{}
	e := New(Options{Width: 100, Height: 100, NodeScale: 2, Panel: p})
	if err := e.Load(bobAnn()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e, p
}

func classes(f scene.Frame) map[string]scene.Class {
	out := make(map[string]scene.Class, len(f.Nodes))
	for _, n := range f.Nodes {
		out[n.ID] = n.Class
	}
	return out
}

func near(a, b geom.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestInertEngine(t *testing.T) {
	e := New(Options{})
	if e.Loaded() {
		t.Fatal("new engine should be inert")
	}
	if f := e.Frame(); !f.Empty() || len(f.Edges) != 0 {
		t.Errorf("inert frame = %+v", f)
	}
	if pos := e.Tick(time.Second / 60); pos != nil {
		t.Errorf("Tick = %v, want nil", pos)
	}
	if r := e.Dispatch(interact.NodeClick{Node: "A"}); r.State != interact.Idle || len(r.Commands) != 0 {
		t.Errorf("Dispatch on inert engine = %+v", r)
	}
	if err := e.Select("A"); !stderrors.Is(err, ErrInert) {
		t.Errorf("Select = %v, want ErrInert", err)
	}
	e.PointerDown(geom.Pt(1, 1))
	e.PointerUp(geom.Pt(1, 1))
	e.Wheel(geom.Pt(1, 1), -3)
	if e.Transform() != viewport.Identity {
		t.Errorf("transform changed on inert engine: %+v", e.Transform())
	}
	if !e.Settled() {
		t.Error("inert engine should report settled")
	}
}

func TestLoadFrame(t *testing.T) {
	e, p := newTestEngine(t)

	f := e.Frame()
	if len(f.Nodes) != 3 || len(f.Edges) != 2 {
		t.Fatalf("frame has %d nodes, %d edges", len(f.Nodes), len(f.Edges))
	}
	want := map[string]geom.Point{"A": {X: 5, Y: 95}, "B": {X: 95, Y: 95}, "C": {X: 5, Y: 5}}
	for _, n := range f.Nodes {
		if !near(n.Center(), want[n.ID]) {
			t.Errorf("node %s at %v, want %v", n.ID, n.Center(), want[n.ID])
		}
		if n.Radius != 4 {
			t.Errorf("node %s radius = %v, want 4", n.ID, n.Radius)
		}
		if n.LabelX != n.X+n.Radius+3 || n.LabelY != n.Y+4 {
			t.Errorf("node %s label at (%v,%v)", n.ID, n.LabelX, n.LabelY)
		}
		if n.Class != scene.ClassNone {
			t.Errorf("node %s class = %v before any interaction", n.ID, n.Class)
		}
	}
	if c, _ := f.Node("C"); c.Label != graph.UnnamedLabel {
		t.Errorf("C label = %q", c.Label)
	}
	if f.Edges[1].Width != 2 || f.Edges[1].Source != "A" || f.Edges[1].Target != "C" {
		t.Errorf("edge = %+v", f.Edges[1])
	}
	if !near(geom.Pt(f.Edges[1].X2, f.Edges[1].Y2), want["C"]) {
		t.Errorf("edge endpoint = (%v,%v)", f.Edges[1].X2, f.Edges[1].Y2)
	}
	if p.clears == 0 || p.visible {
		t.Error("load should clear the panel")
	}
	if math.Abs(e.Scale()-9) > 1e-9 {
		t.Errorf("Scale = %v, want 9", e.Scale())
	}
}

func TestNodeScaleDefaultsToNormalizationScale(t *testing.T) {
	e := New(Options{Width: 100, Height: 100})
	if err := e.Load(bobAnn()); err != nil {
		t.Fatal(err)
	}
	f := e.Frame()
	if got := f.Nodes[0].Radius; math.Abs(got-4*9/2.0) > 1e-9 {
		t.Errorf("radius = %v, want 18", got)
	}
}

func TestBobAnnScenario(t *testing.T) {
	e, p := newTestEngine(t)

	if got := e.NeighborsOf("A"); !slices.Equal(got, []string{"B", "C"}) {
		t.Fatalf("NeighborsOf(A) = %v", got)
	}

	if err := e.Select("A"); err != nil {
		t.Fatal(err)
	}
	got := classes(e.Frame())
	if got["A"] != scene.ClassActive || got["B"] != scene.ClassNeighbor || got["C"] != scene.ClassNeighbor {
		t.Errorf("select A: %v", got)
	}
	if !p.visible || p.label != "Bob" || !slices.Equal(p.neighbors, []string{"Ann", graph.UnnamedLabel}) {
		t.Errorf("panel = %+v", p)
	}

	if err := e.Select("B"); err != nil {
		t.Fatal(err)
	}
	got = classes(e.Frame())
	if got["A"] != scene.ClassNeighbor || got["B"] != scene.ClassActive || got["C"] != scene.ClassInactive {
		t.Errorf("select B: %v", got)
	}
	edges := e.Frame().Edges
	if edges[0].Class != scene.ClassActive || edges[1].Class != scene.ClassInactive {
		t.Errorf("edge classes = %v, %v", edges[0].Class, edges[1].Class)
	}

	card, ok := e.Card()
	if !ok || card.Label != "Ann" || card.Header() != "Neighbors (1)" {
		t.Errorf("card = %+v", card)
	}

	e.ClearSelection()
	if e.Target() != "" || p.visible {
		t.Error("background click should clear highlight and panel")
	}
	if _, ok := e.Card(); ok {
		t.Error("no card without a target")
	}
	if err := e.Select("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Select(nope) = %v", err)
	}
}

func TestDanglingEdgeKeepsPriorGraph(t *testing.T) {
	e, _ := newTestEngine(t)
	if err := e.Select("A"); err != nil {
		t.Fatal(err)
	}

	bad := graph.Document{
		Nodes: []graph.Node{{ID: "x", Size: 1}},
		Edges: []graph.Edge{{Source: "x", Target: "ghost"}},
	}
	err := e.Load(bad)
	if !errors.Is(err, errors.ErrCodeReferentialIntegrity) {
		t.Fatalf("Load(bad) = %v, want REFERENTIAL_INTEGRITY", err)
	}

	f := e.Frame()
	if len(f.Nodes) != 3 {
		t.Fatalf("prior graph replaced: %d nodes", len(f.Nodes))
	}
	if _, ok := f.Node("x"); ok {
		t.Error("nodes of the failed load must not be rendered")
	}
	if e.Target() != "A" {
		t.Errorf("target = %q, want prior selection kept", e.Target())
	}
	if err := e.Select("B"); err != nil {
		t.Errorf("prior graph should stay interactive: %v", err)
	}
}

func TestFirstLoadFailureStaysInert(t *testing.T) {
	e := New(Options{})
	err := e.Load(graph.Document{Edges: []graph.Edge{{Source: "a", Target: "b"}}})
	if err == nil || e.Loaded() {
		t.Fatalf("err = %v, loaded = %v", err, e.Loaded())
	}
}

func TestStaleLoad(t *testing.T) {
	e := New(Options{Width: 100, Height: 100})
	first := e.BeginLoad()
	second := e.BeginLoad()

	err := e.CompleteLoad(first, bobAnn(), nil)
	if !stderrors.Is(err, ErrStaleLoad) || !errors.Is(err, errors.ErrCodeStaleLoad) {
		t.Fatalf("stale CompleteLoad = %v", err)
	}
	if e.Loaded() {
		t.Fatal("stale result must be discarded")
	}

	if err := e.CompleteLoad(second, bobAnn(), nil); err != nil {
		t.Fatalf("latest CompleteLoad = %v", err)
	}

	pending := e.BeginLoad()
	e.Reset()
	if err := e.CompleteLoad(pending, bobAnn(), nil); !stderrors.Is(err, ErrStaleLoad) {
		t.Errorf("load pending across Reset = %v", err)
	}
	if e.Loaded() {
		t.Error("Reset should make the engine inert")
	}
}

func TestFetchErrorKeepsState(t *testing.T) {
	e, _ := newTestEngine(t)
	err := e.CompleteLoad(e.BeginLoad(), graph.Document{}, io.ErrUnexpectedEOF)
	if !errors.Is(err, errors.ErrCodeLoad) || !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("err = %v", err)
	}
	if !e.Loaded() || e.Network().Len() != 3 {
		t.Error("fetch failure should keep the loaded graph")
	}

	coded := errors.New(errors.ErrCodeNetworkNotFound, "no such network")
	if err := e.CompleteLoad(e.BeginLoad(), graph.Document{}, coded); errors.GetCode(err) != errors.ErrCodeNetworkNotFound {
		t.Errorf("coded fetch error rewrapped: %v", err)
	}
}

func TestReloadResetsInteractionKeepsTransform(t *testing.T) {
	e, p := newTestEngine(t)
	_ = e.Select("A")
	e.SetTransform(viewport.Transform{X: 10, Y: 20, K: 2})

	if err := e.Load(bobAnn()); err != nil {
		t.Fatal(err)
	}
	if e.State() != interact.Idle || e.Target() != "" {
		t.Errorf("state = %+v, target = %q", e.State(), e.Target())
	}
	if p.visible {
		t.Error("reload should clear the panel")
	}
	if e.Transform() != (viewport.Transform{X: 10, Y: 20, K: 2}) {
		t.Errorf("transform = %+v, want kept across reload", e.Transform())
	}

	e.ResetView()
	if e.Transform() != viewport.Identity {
		t.Errorf("ResetView transform = %+v", e.Transform())
	}
}

func TestSetTransformClamps(t *testing.T) {
	e := New(Options{})
	e.SetTransform(viewport.Transform{K: 50})
	if e.Transform().K != viewport.DefaultMaxScale {
		t.Errorf("K = %v", e.Transform().K)
	}
}

func TestSingleIsolatedNode(t *testing.T) {
	e := New(Options{Width: 200, Height: 200})
	if err := e.Load(graph.Document{Nodes: []graph.Node{{ID: "solo", X: 3, Y: 3, Size: 2}}}); err != nil {
		t.Fatal(err)
	}
	if got := e.NeighborsOf("solo"); len(got) != 0 {
		t.Errorf("NeighborsOf = %v", got)
	}
	f := e.Frame()
	if !near(f.Nodes[0].Center(), geom.Pt(100, 100)) {
		t.Errorf("solo at %v, want viewport center", f.Nodes[0].Center())
	}
	// Fallback scale 1.0 drives the radius.
	if f.Nodes[0].Radius != 1 {
		t.Errorf("radius = %v, want 1", f.Nodes[0].Radius)
	}

	_ = e.Select("solo")
	if c := classes(e.Frame()); c["solo"] != scene.ClassActive {
		t.Errorf("class = %v", c["solo"])
	}
	card, _ := e.Card()
	if card.Header() != "Neighbors" || !slices.Equal(card.Lines(), []string{NoNeighbors}) {
		t.Errorf("card = %q", card.String())
	}
}

func TestDispatchIgnoresUnknownNodes(t *testing.T) {
	e, _ := newTestEngine(t)
	r := e.Dispatch(interact.DragStart{Node: "stale", At: geom.Pt(1, 1)})
	if len(r.Commands) != 0 || e.Dragging() {
		t.Errorf("stale drag start executed: %+v", r)
	}
}

func TestOptionsResolveSimDefaults(t *testing.T) {
	o := New(Options{Sim: sim.Config{Strength: 0.5}}).Options()

	want := sim.DefaultConfig()
	want.Strength = 0.5
	if o.Sim != want {
		t.Errorf("Options().Sim = %+v, want %+v", o.Sim, want)
	}
	if o.Sim.Frame <= 0 {
		t.Errorf("Options().Sim.Frame = %v", o.Sim.Frame)
	}
}

func TestDegree(t *testing.T) {
	if New(Options{}).Degree("A") != 0 {
		t.Error("inert engine should report degree 0")
	}

	e, _ := newTestEngine(t)
	for id, want := range map[string]int{"A": 2, "B": 1, "C": 1, "missing": 0} {
		if got := e.Degree(id); got != want {
			t.Errorf("Degree(%q) = %d, want %d", id, got, want)
		}
	}
}
