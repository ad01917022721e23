package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/render/dot"
	"github.com/matzehuels/netscope/pkg/render/svg"
	"github.com/matzehuels/netscope/pkg/scene"
)

// Render output formats.
const (
	formatSVG      = "svg"      // native SVG writer
	formatGraphviz = "graphviz" // SVG laid out by Graphviz neato with pinned positions
	formatDOT      = "dot"      // Graphviz source
	formatJSON     = "json"     // scene frame
)

var renderFormats = []string{formatSVG, formatGraphviz, formatDOT, formatJSON}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	loadOpts
	output     string // output path, "-" for stdout
	format     string
	selectID   string // node to highlight before rendering
	ticks      int    // simulation tick budget
	noLabels   bool
	edgeWidths bool
	background string
}

// renderCommand creates the render command for writing snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		format: formatSVG,
		ticks:  defaultSettleTicks,
	}

	cmd := &cobra.Command{
		Use:   "render <network>",
		Short: "Render a settled snapshot of a network",
		Long: `Render loads a network, runs the simulation until it settles and writes a
snapshot. With --select the node's neighborhood is highlighted first.

Formats:
  svg       native SVG (default)
  graphviz  SVG produced by Graphviz neato with pinned positions
  dot       Graphviz source
  json      the scene frame (node and edge views with classes)`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeNetworks,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	addLoadFlags(cmd, &opts.loadOpts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <network>.<ext>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(renderFormats, ", "))
	cmd.Flags().StringVar(&opts.selectID, "select", "", "highlight this node and its neighbors")
	cmd.Flags().IntVar(&opts.ticks, "ticks", opts.ticks, "maximum simulation ticks")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit node labels")
	cmd.Flags().BoolVar(&opts.edgeWidths, "edge-widths", false, "scale edge strokes by edge size")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color")

	cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return renderFormats, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (c *CLI) runRender(ctx context.Context, ref string, opts renderOpts) error {
	if !validFormat(opts.format) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want one of %s)", opts.format, strings.Join(renderFormats, ", "))
	}

	e, doc, err := c.loadEngine(ctx, ref, opts.loadOpts)
	if err != nil {
		return err
	}

	ticks := e.Settle(opts.ticks)
	if !e.Settled() {
		c.Logger.Warn("simulation did not settle", "ticks", opts.ticks)
	}
	c.Logger.Debug("settled", "ticks", ticks)

	if opts.selectID != "" {
		if err := e.Select(opts.selectID); err != nil {
			return err
		}
	}

	frame := e.Frame()
	data, err := renderFrame(ctx, &frame, opts)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = displayName(doc, ref) + "." + extension(opts.format)
	}
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", out)
	}

	printSuccess("Rendered %s", displayName(doc, ref))
	printStats(len(frame.Nodes), len(frame.Edges), e.Settled())
	printFile(out)
	return nil
}

func renderFrame(ctx context.Context, f *scene.Frame, opts renderOpts) ([]byte, error) {
	switch opts.format {
	case formatGraphviz:
		return dot.Render(ctx, f, dotOptions(opts))
	case formatDOT:
		return []byte(dot.ToDOT(f, dotOptions(opts))), nil
	case formatJSON:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}

	var svgOpts []svg.Option
	if opts.noLabels {
		svgOpts = append(svgOpts, svg.WithoutLabels())
	}
	if opts.edgeWidths {
		svgOpts = append(svgOpts, svg.WithEdgeWidths())
	}
	if opts.background != "" {
		svgOpts = append(svgOpts, svg.WithBackground(opts.background))
	}
	return svg.Render(f, svgOpts...), nil
}

func dotOptions(opts renderOpts) dot.Options {
	return dot.Options{Labels: !opts.noLabels, EdgeWidths: opts.edgeWidths}
}

func validFormat(f string) bool {
	for _, v := range renderFormats {
		if v == f {
			return true
		}
	}
	return false
}

func extension(format string) string {
	switch format {
	case formatGraphviz:
		return "svg"
	case formatDOT:
		return "dot"
	case formatJSON:
		return "json"
	}
	return "svg"
}
