package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// planFlags are the plan command's options. Constraint flags override the
// config file only when set on the command line.
type planFlags struct {
	from   string
	days   int
	dryRun bool
	asJSON bool

	dayStart         string
	dayEnd           string
	minGap           int
	maxGap           int
	maxPerDay        int
	maxPerObligation int
	maxPerPass       int
	weightThreshold  float64
	keywords         []string
}

func (f *planFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.from, "from", "", "First planned day (YYYY-MM-DD, default today)")
	fs.IntVar(&f.days, "days", 0, "Horizon in days (default from config)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "Compute the plan without saving it")
	fs.BoolVar(&f.asJSON, "json", false, "Output JSON")

	fs.StringVar(&f.dayStart, "day-start", "", "Business hours start (HH:MM)")
	fs.StringVar(&f.dayEnd, "day-end", "", "Business hours end (HH:MM)")
	fs.IntVar(&f.minGap, "min-gap", 0, "Shortest usable free window in minutes")
	fs.IntVar(&f.maxGap, "max-gap", 0, "Longest study block in minutes")
	fs.IntVar(&f.maxPerDay, "max-per-day", 0, "Study blocks per day")
	fs.IntVar(&f.maxPerObligation, "max-per-obligation", 0, "Study blocks per obligation per run")
	fs.IntVar(&f.maxPerPass, "max-per-pass", 0, "Study blocks per obligation in its allocation step")
	fs.Float64Var(&f.weightThreshold, "weight-threshold", 0, "Weight from which an obligation is critical")
	fs.StringSliceVar(&f.keywords, "keyword", nil, "Critical keyword (repeatable; replaces the configured list)")
}

// request builds a plan request from the config, applying changed flags.
func (f *planFlags) request(fs *pflag.FlagSet, app *App) (contract.PlanRequest, error) {
	cfg := app.config()
	c, err := cfg.Constraints()
	if err != nil {
		return contract.PlanRequest{}, err
	}

	if fs.Changed("day-start") {
		if c.DayStart, err = domain.ParseClock(f.dayStart); err != nil {
			return contract.PlanRequest{}, fmt.Errorf("--day-start: %w", err)
		}
	}
	if fs.Changed("day-end") {
		if c.DayEnd, err = domain.ParseClock(f.dayEnd); err != nil {
			return contract.PlanRequest{}, fmt.Errorf("--day-end: %w", err)
		}
	}
	if fs.Changed("min-gap") {
		c.MinGapMin = f.minGap
	}
	if fs.Changed("max-gap") {
		c.MaxGapMin = f.maxGap
	}
	if fs.Changed("max-per-day") {
		c.MaxBlocksPerDay = f.maxPerDay
	}
	if fs.Changed("max-per-obligation") {
		c.MaxBlocksPerObligation = f.maxPerObligation
	}
	if fs.Changed("max-per-pass") {
		c.MaxBlocksPerObligationPerPass = f.maxPerPass
	}
	if fs.Changed("weight-threshold") {
		c.WeightThreshold = f.weightThreshold
	}
	if fs.Changed("keyword") {
		c.Keywords = f.keywords
	}

	from, err := parseFromDate(f.from, app.now(), location(app))
	if err != nil {
		return contract.PlanRequest{}, err
	}
	req := contract.NewPlanRequest(from)
	req.Constraints = c
	req.HorizonDays = cfg.HorizonDays
	if fs.Changed("days") {
		req.HorizonDays = f.days
	}
	req.DryRun = f.dryRun
	return req, nil
}

func newPlanCmd(app *App) *cobra.Command {
	var flags planFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Allocate study blocks for critical obligations",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd.Flags(), app)
			if err != nil {
				return err
			}
			resp, err := runPlan(cmd.Context(), app, req, cmd.ErrOrStderr(), !flags.asJSON)
			if err != nil {
				return err
			}
			if flags.asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			printf(cmd, "%s", formatter.FormatPlan(resp, app.now()))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// runPlan executes one planning run, with a spinner on interactive terminals.
func runPlan(ctx context.Context, app *App, req contract.PlanRequest, progress io.Writer, spin bool) (*contract.PlanResponse, error) {
	if spin && app.interactive() {
		stop := formatter.StartSpinner(progress, "Planning study blocks...")
		defer stop()
	}
	return app.Planner.Plan(ctx, req)
}

func newBlocksCmd(app *App) *cobra.Command {
	var from string
	var days int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Show saved study blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseFromDate(from, app.now(), location(app))
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("days") {
				days = app.config().HorizonDays
			}
			blocks, err := app.Planner.ListBlocks(cmd.Context(), domain.FormatDate(start), days)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), blocks)
			}
			if len(blocks) == 0 {
				printf(cmd, "%s\n", formatter.Dim("No study blocks saved. Run `studyplan plan`."))
				return nil
			}
			printf(cmd, "%s", formatter.FormatBlocks(blocks, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 0, "Number of days (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
