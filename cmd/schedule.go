package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleNow bool

// scheduleCmd runs the scrape batch on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Scrape on a cron schedule",
	Long: `Runs the scrape batch on SCRAPE_SCHEDULE (standard 5-field cron, default hourly).
A run that is still going when the next one is due is skipped.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "Run once immediately before waiting for the schedule")
	RootCmd.AddCommand(scheduleCmd)
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	loc, err := e.cfg.Scrape.Location()
	if err != nil {
		return err
	}

	run := func() {
		if _, err := e.runBatch(ctx, batch{}); err != nil {
			e.logger.Error("Scheduled scrape failed", zap.Error(err))
		}
	}

	cl := cronLogger{s: e.logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(e.cfg.Scrape.Schedule, run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", e.cfg.Scrape.Schedule, err)
	}

	if scheduleNow {
		run()
	}

	c.Start()
	e.logger.Info("Scheduler started", zap.String("schedule", e.cfg.Scrape.Schedule))

	<-ctx.Done()
	e.logger.Info("Stopping scheduler...")
	<-c.Stop().Done()
	return nil
}
