package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/careledger/internal/jobs"
)

func init() {
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(alertsCmd)
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the outbox dispatcher and visit alerts on their schedules until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sched, err := a.Scheduler()
		if err != nil {
			return err
		}

		sched.Start()
		slog.Info("worker started", "jobs", sched.Entries())

		<-ctx.Done()
		slog.Info("worker stopping")

		stopCtx, cancel := context.WithTimeout(context.Background(), a.Config.Worker.JobTimeout)
		defer cancel()

		sched.Stop(stopCtx)

		return nil
	},
}

func runOnce(name string) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Runner.Run(cmd.Context(), name); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s finished\n", name)

		return nil
	}
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Deliver one batch of due outbox events",
	Args:  cobra.NoArgs,
	RunE:  runOnce(jobs.JobOutboxDispatch),
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Flag late and missed visits once",
	Args:  cobra.NoArgs,
	RunE:  runOnce(jobs.JobVisitAlerts),
}
