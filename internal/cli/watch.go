package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/room-watch/internal/logger"
)

var (
	flagEvery time.Duration
	flagCron  string
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run checks on a schedule until interrupted",
		Long: `Runs the same check as the root command on an internal schedule instead of relying
on cron. The release window still applies to every run. Overlapping runs are never
started; a slow run pushes the next one back.`,
		RunE: runWatch,
	}

	cmd.Flags().DurationVar(&flagEvery, "every", 5*time.Minute, "Interval between checks")
	cmd.Flags().StringVar(&flagCron, "cron", "", "Cron expression instead of --every (e.g. \"*/5 * * * *\")")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print alerts instead of sending them")
	cmd.Flags().BoolVar(&flagIgnoreWindow, "ignore-window", false, "Run even outside the release window")

	return cmd
}

// jobDefinition picks the gocron schedule from the flags
func jobDefinition(every time.Duration, cron string) (gocron.JobDefinition, error) {
	if cron != "" {
		return gocron.CronJob(cron, false), nil
	}
	if every < time.Second {
		return nil, fmt.Errorf("--every must be at least 1s, got %s", every)
	}
	return gocron.DurationJob(every), nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	def, err := jobDefinition(flagEvery, flagCron)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, time.Now)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := gocron.NewScheduler(gocron.WithLocation(a.gate.Location()))
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		def,
		gocron.NewTask(func() { a.scheduledCheck(ctx) }),
		gocron.WithName("room-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create check job: %w", err)
	}

	a.log.Info("Starting scheduler", logger.Fields{
		"every": flagEvery.String(),
		"cron":  flagCron,
	})
	s.Start()

	<-ctx.Done()

	a.log.Info("Stopping scheduler", nil)
	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("stopping scheduler: %w", err)
	}
	return nil
}

// scheduledCheck is called by gocron for every tick
func (a *app) scheduledCheck(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result, err := a.monitor.Run(ctx)
	a.writeMetrics()
	if err != nil {
		// Store failures do not end the watch; the next tick retries
		a.log.Error("Scheduled check failed", nil, err)
		return
	}
	a.log.Debug("Scheduled check finished", logger.Fields{
		"outcome": string(result.Outcome),
		"run_id":  result.RunID,
	})
}
