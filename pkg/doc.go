// Package pkg provides the core libraries for netscope network exploration.
//
// # Overview
//
// netscope takes a weighted network whose node positions are supplied by the
// data, relaxes it around those positions with a small spring simulation and
// lets a user hover, select, drag, pan and zoom. The pkg directory is
// organized into four areas:
//
//  1. Model - [graph], [network], [adjacency]
//  2. Layout and motion - [normalize], [sim], [viewport]
//  3. Interaction - [interact], [engine], [scene]
//  4. Infrastructure - [source], [cache], [config], [httputil], [observability]
//
// # Architecture
//
// The typical data flow through netscope:
//
//	file / URL / MongoDB
//	         ↓
//	    [source] package (resolve reference, fetch document)
//	         ↓
//	    [network] package (validate, resolve edges)
//	         ↓
//	    [normalize] package (fit positions into the viewport)
//	         ↓
//	    [engine] package (simulation + interaction state + transform)
//	         ↓
//	    [scene] frame → [render/svg], [render/dot], [render/cells]
//
// # Quick Start
//
// Load a network, settle it and write an SVG with one node highlighted:
//
//	resolver := source.NewResolver(source.ResolverOptions{})
//	doc, _ := resolver.Open(ctx, "data/client1.json")
//
//	e := engine.New(engine.Options{Width: 1024, Height: 768})
//	if err := e.Load(doc); err != nil {
//	    return err
//	}
//	e.Settle(2000)
//	_ = e.Select("n1")
//
//	f := e.Frame()
//	svg.Write(os.Stdout, &f)
//
// # Main Packages
//
// [graph] - The input document (nodes with positions, sizes, colors and
// labels; weighted undirected edges) and its JSON encoding.
//
// [network] - Validated node table with resolved edges. Dangling edges are
// an error, never silently dropped.
//
// [adjacency] - Neighbor index, each list ordered by display label.
//
// [normalize] - Maps raw positions into the viewport with one uniform scale.
//
// [sim] - Anchor simulation: every node is pulled toward its normalized
// position; a dragged node is pinned.
//
// [viewport] - Pan/zoom transform with scale limits.
//
// [interact] - Pure hover/selection/drag state machine.
//
// [engine] - Single owner of a loaded graph, tying the pieces together and
// exposing pointer gestures.
//
// [scene] - Render boundary types shared by every binder.
//
// [errors] - Coded errors used across packages.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test -short ./...                 # Skip Graphviz rendering
//	NETSCOPE_TEST_REDIS=localhost:6379 go test ./pkg/cache/...
//	NETSCOPE_TEST_MONGO=mongodb://localhost go test ./pkg/source/...
package pkg
