package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/studyplan/internal/cache"
	"github.com/alexanderramin/studyplan/internal/cli"
	"github.com/alexanderramin/studyplan/internal/config"
	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/enrichment"
	"github.com/alexanderramin/studyplan/internal/llm"
	"github.com/alexanderramin/studyplan/internal/repository"
	"github.com/alexanderramin/studyplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Determine DB path: env var or default ~/.studyplan/studyplan.db
	dbPath := os.Getenv("STUDYPLAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".studyplan", "studyplan.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cfgPath, err)
	}

	level := slog.LevelWarn
	if os.Getenv("STUDYPLAN_LOG") == "1" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	subjectRepo := repository.NewSQLiteSubjectRepo(database)
	obligationRepo := repository.NewSQLiteObligationRepo(database)
	calendarRepo := repository.NewSQLiteCalendarRepo(database)
	blockRepo := repository.NewSQLiteStudyBlockRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if level == slog.LevelDebug {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Generation is optional: without a model every block uses the template
	// text and backfill needs an explicit candidates file.
	gatewayOpts := []enrichment.Option{enrichment.WithLogger(logger)}
	var client llm.LLMClient
	var extractor service.CandidateExtractor

	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		client, err = llm.NewClient(llmCfg, observer)
		if err != nil {
			return fmt.Errorf("configuring model client: %w", err)
		}
		extractor = enrichment.NewExtractor(client)

		if cacheCfg := cache.ConfigFromEnv(); cacheCfg.Enabled() {
			rc, err := cache.NewRedisCache(ctx, cacheCfg)
			if err != nil {
				logger.Warn("response cache disabled", "addr", cacheCfg.Addr, "error", err)
			} else {
				defer rc.Close()
				gatewayOpts = append(gatewayOpts, enrichment.WithCache(rc))
			}
		}
	}
	gateway := enrichment.NewGateway(client, gatewayOpts...)

	app := &cli.App{
		Subjects:    service.NewSubjectService(subjectRepo),
		Obligations: service.NewObligationService(obligationRepo),
		Calendar:    service.NewCalendarService(calendarRepo),
		Planner:     service.NewPlanService(obligationRepo, calendarRepo, blockRepo, gateway, uow, observers...),
		Backfill:    service.NewBackfillService(subjectRepo, calendarRepo, extractor, uow, observers...),
		Importer:    service.NewCalendarImportService(subjectRepo, uow, observers...),
		Config:      cfg,
		ConfigPath:  cfgPath,
		Logger:      logger,
	}

	// Detect interactive terminal for forms and spinners.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
