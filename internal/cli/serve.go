package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/corral/pkg/observability"
	"github.com/matzehuels/corral/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxQubits int
		maxPairs  int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the realization HTTP API",
		Long: `Serve the realization API until interrupted.

Endpoints:
  GET  /healthz
  GET  /v1/topologies
  POST /v1/realize
  GET  /v1/realizations
  GET  /v1/realizations/{id}
  GET  /v1/realizations/{id}/svg

Cache and store backends come from the config file; with the memory store,
records are lost on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			observability.SetLogHooks(c.Logger)
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := c.newStore(ctx, false)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			srv := server.New(server.Config{
				Addr:             addr,
				ShutdownTimeout:  c.cfg.Server.ShutdownTimeout.Duration,
				MaxQubits:        maxQubits,
				MaxPairs:         maxPairs,
				MaxQubitDegree:   c.cfg.Realize.MaxQubitDegree,
				MaxCouplerDegree: c.cfg.Realize.MaxCouplerDegree,
			}, runner, st, c.Logger)

			printSuccess("Serving on %s", StyleLink.Render(addr))
			printDetail("cache: %s  store: %s", c.cfg.Cache.Backend, c.cfg.Store.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&maxQubits, "max-qubits", server.DefaultMaxQubits, "largest pattern accepted")
	cmd.Flags().IntVar(&maxPairs, "max-pairs", server.DefaultMaxPairs, "most coupled pairs accepted")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
