package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all services and settings used by CLI commands.
type App struct {
	Subjects    service.SubjectService
	Obligations service.ObligationService
	Calendar    service.CalendarService
	Planner     service.PlanService
	Backfill    service.BackfillService
	Importer    service.CalendarImportService

	Config     *config.Config
	ConfigPath string

	// IsInteractive reports whether stdin is a terminal; forms and
	// spinners are only shown when it returns true.
	IsInteractive func() bool
	Now           func() time.Time
	Logger        *slog.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		a.Config = config.DefaultConfig()
	}
	return a.Config
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// NewRootCmd creates the top-level "studyplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Plan study time around exams and deadlines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default $STUDYPLAN_CONFIG or ~/.studyplan/config.yaml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("config") {
			return nil
		}
		// config init writes the file itself.
		if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			app.ConfigPath = cfgPath
			return nil
		}
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", cfgPath, err)
		}
		app.Config = cfg
		app.ConfigPath = cfgPath
		return nil
	}

	root.AddCommand(
		newSubjectCmd(app),
		newObligationCmd(app),
		newCalendarCmd(app),
		newPlanCmd(app),
		newBlocksCmd(app),
		newBackfillCmd(app),
		newWatchCmd(app),
		newConfigCmd(app),
	)

	return root
}
