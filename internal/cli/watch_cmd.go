package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// cronLogger routes scheduler events to slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}

// newWatchScheduler registers job on spec in loc without starting it.
func newWatchScheduler(spec string, loc *time.Location, logger *slog.Logger, job func()) (*cron.Cron, error) {
	l := cronLogger{log: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return c, nil
}

// watchJob plans from the current day on every tick and logs the outcome.
func watchJob(ctx context.Context, app *App, flags *planFlags, cmd *cobra.Command) func() {
	return func() {
		req, err := flags.request(cmd.Flags(), app)
		if err != nil {
			app.logger().Error("watch plan request", "error", err)
			return
		}
		resp, err := runPlan(ctx, app, req, cmd.ErrOrStderr(), false)
		if err != nil {
			app.logger().Error("watch plan failed", "error", err)
			return
		}
		printf(cmd, "%s planned %d blocks for %s..%s (%d warnings)\n",
			app.now().Format(time.DateTime), len(resp.Blocks), resp.From, resp.To, len(resp.Warnings))
	}
}

func newWatchCmd(app *App) *cobra.Command {
	var flags planFlags
	var spec string
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-plan on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cron") {
				spec = app.config().WatchCron
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			job := watchJob(ctx, app, &flags, cmd)
			c, err := newWatchScheduler(spec, location(app), app.logger(), job)
			if err != nil {
				return err
			}
			if once {
				job()
				return nil
			}

			c.Start()
			if entries := c.Entries(); len(entries) > 0 {
				printf(cmd, "Watching %q, next run %s. Press Ctrl+C to stop.\n", spec, entries[0].Next.Format(time.DateTime))
			}
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&spec, "cron", "", "Five-field cron schedule (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "Validate the schedule, run once and exit")
	return cmd
}

