// Package engine owns one loaded graph and everything derived from it.
//
// An [Engine] ties the pieces together: it resolves and normalizes an input
// document, builds the adjacency index and the simulator, runs the
// interaction state machine and executes the commands it returns, keeps the
// pan/zoom transform, and produces [scene.Frame] values for renderers.
//
// # Lifecycle
//
// A new engine is inert: Frame is empty, Tick returns nil and events are
// ignored. Loading is split in two so the fetch can happen elsewhere:
//
//	t := e.BeginLoad()
//	go func() { doc, err := resolver.Open(ctx, ref); results <- result{t, doc, err} }()
//	// later, on the control goroutine:
//	err := e.CompleteLoad(r.ticket, r.doc, r.err)
//
// Only the most recent ticket is accepted; older ones fail with
// [ErrStaleLoad]. A failed load leaves the previous graph in place. A
// successful load replaces the network, adjacency, simulator and
// interaction state at once and clears the panel. The viewport transform
// survives reloads until [Engine.ResetView] is called.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Every method must be called
// from the same goroutine.
package engine
