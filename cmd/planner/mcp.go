package main

import (
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the planner tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := a.engine()
			sim, err := a.simulator(engine)
			if err != nil {
				return err
			}
			server := mcp.NewServer(mcp.Config{
				Projector:      calculation.NewMemo(engine, 0),
				Simulator:      sim,
				MaxSimulations: a.cfg.MonteCarlo.MaxSimulations,
				RecentYears:    a.cfg.MonteCarlo.RecentYears,
				Logger:         a.logger,
				Version:        version,
			})

			a.logger.Info("starting stdio transport")
			// Run blocks until stdin closes or ctx is cancelled.
			return server.Run(ctx, &sdkmcp.StdioTransport{})
		},
	}
}
