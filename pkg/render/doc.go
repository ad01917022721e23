// Package render groups the renderers that turn a [scene.Frame] into
// output.
//
//   - [svg]: standalone SVG with highlight classes as CSS classes
//   - [dot]: Graphviz DOT with pinned positions, rendered to SVG by neato
//   - [cells]: a terminal cell canvas styled with lipgloss
//
// Every renderer reads only the frame. None of them touch the engine, so a
// frame captured once can be rendered by several of them.
//
// [svg]: github.com/matzehuels/netscope/pkg/render/svg
// [dot]: github.com/matzehuels/netscope/pkg/render/dot
// [cells]: github.com/matzehuels/netscope/pkg/render/cells
package render
