package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rpgo/networth-planner/internal/api"
	"github.com/rpgo/networth-planner/internal/calculation"
	"github.com/rpgo/networth-planner/internal/scheduler"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner HTTP API with scheduled projection refreshes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := a.engine()
			memo := calculation.NewMemo(engine, 0)
			db, svc, err := a.openStore(memo)
			if err != nil {
				return err
			}
			defer db.Close()

			sim, err := a.simulator(engine)
			if err != nil {
				return err
			}
			svc.SetSimulator(sim)

			sched := scheduler.NewScheduler(ctx, svc, memo, a.logger)
			if err := sched.RegisterAll(a.cfg.Schedule.RefreshCron, a.cfg.Schedule.MemoPurgeCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			a.logger.Info("starting planner api", "addr", a.cfg.Server.Addr, "db", a.cfg.Storage.SQLitePath, "version", version)
			server := api.NewServer(svc, memo, a.logger)
			server.SetLimits(api.Limits{
				MaxSimulations: a.cfg.MonteCarlo.MaxSimulations,
				RequestTimeout: a.cfg.Server.RequestTimeout,
				RecentYears:    a.cfg.MonteCarlo.RecentYears,
			})
			if err := server.ListenAndServe(ctx, a.cfg.Server.Addr); err != nil {
				a.logger.Error("server error", "error", err)
				return err
			}
			a.logger.Info("shut down")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from configuration)")
	return cmd
}
