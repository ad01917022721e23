package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/netscope/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	loadOpts
	addr        string
	allowRefs   bool
	maxSessions int
}

// serveCommand runs the HTTP session service.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive sessions over HTTP",
		Long: `Serve exposes the engine as a JSON API. Each session owns one engine;
clients post pointer and selection events, advance the simulation with tick
requests and fetch frames or SVG snapshots.

  GET    /healthz
  GET    /api/networks
  POST   /api/sessions                 {"network": "..."}
  GET    /api/sessions/{id}/frame
  POST   /api/sessions/{id}/events     {"type": "pointer_down", "x": 10, "y": 20}
  POST   /api/sessions/{id}/tick       {"dt": 16, "ticks": 1}
  POST   /api/sessions/{id}/load       {"network": "..."}
  GET    /api/sessions/{id}/svg?renderer=graphviz
  DELETE /api/sessions/{id}

Only catalog networks can be loaded unless --allow-refs is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resolver, cleanup, err := c.newResolver(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			addr := opts.addr
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			srv := server.New(server.Options{
				Resolver:    resolver,
				Engine:      c.engineOptions(opts.loadOpts),
				Logger:      c.Logger,
				IdleTimeout: c.Config.Server.IdleTimeout.Duration,
				MaxSessions: opts.maxSessions,
				AllowRefs:   opts.allowRefs,
			})
			defer srv.Close()

			printInfo("Serving %d networks on %s", len(resolver.Catalog()), StyleHighlight.Render("http://"+addr))
			return srv.Run(ctx, addr)
		},
	}

	addLoadFlags(cmd, &opts.loadOpts)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.allowRefs, "allow-refs", false, "let clients load arbitrary source references")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", 0, "maximum concurrent sessions (default 256)")
	return cmd
}
