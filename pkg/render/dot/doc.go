// Package dot renders a [scene.Frame] through Graphviz.
//
// [ToDOT] writes an undirected DOT graph whose node positions are pinned
// ("x,y!") to the frame's screen coordinates, so neato draws the layout
// the engine computed instead of running its own. [RenderSVG] feeds the
// DOT source to an in-process Graphviz via [github.com/goccy/go-graphviz].
//
//	src := dot.ToDOT(&frame, dot.Options{Labels: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Graphviz's y axis points up; positions are flipped against the frame
// height so the output is not mirrored.
package dot
