package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/graph"
)

// loadOpts are the flags shared by every command that loads a network.
type loadOpts struct {
	noCache bool
	width   float64
	height  float64
	scale   float64 // node scale override
}

// engineOptions applies flag overrides to the configured engine options.
func (c *CLI) engineOptions(opts loadOpts) engine.Options {
	eo := c.Config.EngineOptions()
	if opts.width > 0 {
		eo.Width = opts.width
	}
	if opts.height > 0 {
		eo.Height = opts.height
	}
	if opts.scale > 0 {
		eo.NodeScale = opts.scale
	}
	eo.Logger = c.Logger
	return eo
}

// openDocument resolves ref through the configured sources.
func (c *CLI) openDocument(ctx context.Context, ref string, noCache bool) (graph.Document, error) {
	resolver, cleanup, err := c.newResolver(ctx, noCache)
	if err != nil {
		return graph.Document{}, err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, defaultLoadTimeout)
	defer cancel()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", ref))
	spinner.Start()
	doc, err := resolver.Open(ctx, ref)
	spinner.Stop()
	return doc, err
}

// loadEngine opens ref and installs it into a fresh engine.
func (c *CLI) loadEngine(ctx context.Context, ref string, opts loadOpts) (*engine.Engine, graph.Document, error) {
	prog := newProgress(loggerFromContext(ctx))
	doc, err := c.openDocument(ctx, ref, opts.noCache)
	if err != nil {
		return nil, graph.Document{}, err
	}

	e := engine.New(c.engineOptions(opts))
	if err := e.Load(doc); err != nil {
		return nil, graph.Document{}, err
	}
	prog.done(fmt.Sprintf("Loaded %s: %d nodes, %d edges", displayName(doc, ref), len(doc.Nodes), len(doc.Edges)))
	return e, doc, nil
}

func displayName(doc graph.Document, ref string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return ref
}

// addLoadFlags registers the shared load flags on a command.
func addLoadFlags(cmd *cobra.Command, opts *loadOpts) {
	flags := cmd.Flags()
	flags.BoolVar(&opts.noCache, "no-cache", false, "bypass the document cache")
	flags.Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	flags.Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	flags.Float64Var(&opts.scale, "node-scale", 0, "node size multiplier (default follows normalization)")
}
