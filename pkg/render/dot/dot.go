package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netscope/pkg/geom"
	"github.com/matzehuels/netscope/pkg/scene"
)

// pointsPerInch converts screen units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Labels draws node labels as external labels.
	Labels bool
	// EdgeWidths sets pen widths from the scaled edge sizes.
	EdgeWidths bool
}

// ToDOT converts a frame to DOT with pinned positions.
func ToDOT(f *scene.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, label=\"\", fontsize=10, fontname=\"Helvetica\", color=white, penwidth=1.5];\n")
	buf.WriteString("  edge [color=\"#999999\"];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(f, n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range f.Edges {
		attrs := edgeAttrs(f, e, opts)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(f *scene.Frame, n scene.NodeView, opts Options) []string {
	p := flip(f, f.Transform.Apply(n.Center()))
	d := 2 * n.Radius * f.Transform.K / pointsPerInch

	attrs := []string{
		fmt.Sprintf("pos=\"%s,%s!\"", num(p.X), num(p.Y)),
		fmt.Sprintf("width=%s", num(d)),
	}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
	}
	if opts.Labels {
		attrs = append(attrs, fmt.Sprintf("xlabel=%q", n.Label))
	}
	if n.Class != scene.ClassNone {
		attrs = append(attrs, fmt.Sprintf("class=%q", n.Class.String()))
	}
	switch n.Class {
	case scene.ClassActive:
		attrs = append(attrs, "color=black", "penwidth=2")
	case scene.ClassNeighbor:
		attrs = append(attrs, "color=\"#333333\"")
	case scene.ClassInactive:
		attrs = append(attrs, "fillcolor=\"#dddddd\"", "fontcolor=\"#bbbbbb\"")
	}
	return attrs
}

func edgeAttrs(f *scene.Frame, e scene.EdgeView, opts Options) []string {
	var attrs []string
	if opts.EdgeWidths && e.Width > 0 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%s", num(e.Width*f.Transform.K)))
	}
	if e.Class != scene.ClassNone {
		attrs = append(attrs, fmt.Sprintf("class=%q", e.Class.String()))
	}
	switch e.Class {
	case scene.ClassActive:
		attrs = append(attrs, "color=\"#333333\"")
	case scene.ClassInactive:
		attrs = append(attrs, "color=\"#eeeeee\"")
	}
	return attrs
}

func flip(f *scene.Frame, p geom.Point) geom.Point {
	return geom.Point{X: p.X, Y: f.Height - p.Y}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders DOT source to SVG with neato.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render converts a frame and renders it in one step.
func Render(ctx context.Context, f *scene.Frame, opts Options) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(f, opts))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the SVG scales like the native renderer's output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
