// Package svg renders a [scene.Frame] as a standalone SVG document.
//
// The frame's transform is applied once on the viewport group, so the
// output matches what an interactive client shows for the same frame.
// Highlight classes become CSS classes ("node active", "edge neighbor")
// styled by an embedded stylesheet that [WithStyle] can replace.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/matzehuels/netscope/pkg/scene"
)

// DefaultCSS styles nodes, edges and labels by highlight class.
const DefaultCSS = `
    .edge { stroke: #999; stroke-opacity: 0.6; stroke-width: 1; }
    .edge.active { stroke: #333; stroke-opacity: 1; }
    .edge.inactive { stroke-opacity: 0.1; }
    .node circle { stroke: #fff; stroke-width: 1.5; }
    .node.active circle { stroke: #000; stroke-width: 2; }
    .node.neighbor circle { stroke: #333; }
    .node.inactive { opacity: 0.25; }
    .label { font: 10px sans-serif; fill: #222; pointer-events: none; }
    .node.inactive .label { visibility: hidden; }`

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	css        string
	background string
	edgeWidths bool
	labels     bool
}

// WithStyle replaces the embedded stylesheet.
func WithStyle(css string) Option { return func(r *renderer) { r.css = css } }

// WithBackground fills the canvas with color.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithEdgeWidths sets each edge's stroke-width from its scaled size
// instead of leaving it to the stylesheet.
func WithEdgeWidths() Option { return func(r *renderer) { r.edgeWidths = true } }

// WithoutLabels omits node labels.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// Render returns the SVG document for f.
func Render(f *scene.Frame, opts ...Option) []byte {
	var buf bytes.Buffer
	render(&buf, f, newRenderer(opts...))
	return buf.Bytes()
}

// Write writes the SVG document for f to w.
func Write(w io.Writer, f *scene.Frame, opts ...Option) error {
	_, err := w.Write(Render(f, opts...))
	return err
}

func newRenderer(opts ...Option) renderer {
	r := renderer{css: DefaultCSS, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func render(buf *bytes.Buffer, f *scene.Frame, r renderer) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		f.Width, f.Height, f.Width, f.Height)
	if r.css != "" {
		fmt.Fprintf(buf, "  <style>%s\n  </style>\n", r.css)
	}
	if r.background != "" {
		fmt.Fprintf(buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", escape(r.background))
	}

	fmt.Fprintf(buf, `  <g class="viewport" transform="%s">`+"\n", f.Transform.String())

	buf.WriteString(`    <g class="edges">` + "\n")
	for _, e := range f.Edges {
		renderEdge(buf, e, r.edgeWidths)
	}
	buf.WriteString("    </g>\n")

	buf.WriteString(`    <g class="nodes">` + "\n")
	for _, n := range f.Nodes {
		renderNode(buf, n, r.labels)
	}
	buf.WriteString("    </g>\n")

	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
}

func renderEdge(buf *bytes.Buffer, e scene.EdgeView, withWidth bool) {
	fmt.Fprintf(buf, `      <line class="%s" data-source="%s" data-target="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"`,
		classAttr("edge", e.Class), escape(e.Source), escape(e.Target), e.X1, e.Y1, e.X2, e.Y2)
	if withWidth && e.Width > 0 {
		fmt.Fprintf(buf, ` stroke-width="%.2f"`, e.Width)
	}
	buf.WriteString("/>\n")
}

func renderNode(buf *bytes.Buffer, n scene.NodeView, withLabel bool) {
	fmt.Fprintf(buf, `      <g class="%s" id="node-%s">`, classAttr("node", n.Class), escape(n.ID))
	fmt.Fprintf(buf, `<circle cx="%.2f" cy="%.2f" r="%.2f"`, n.X, n.Y, n.Radius)
	if n.Color != "" {
		fmt.Fprintf(buf, ` fill="%s"`, escape(n.Color))
	}
	buf.WriteString("/>")
	if withLabel {
		fmt.Fprintf(buf, `<text class="label" x="%.2f" y="%.2f">%s</text>`, n.LabelX, n.LabelY, escape(n.Label))
	}
	buf.WriteString("</g>\n")
}

func classAttr(base string, c scene.Class) string {
	if c == scene.ClassNone {
		return base
	}
	return base + " " + c.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
