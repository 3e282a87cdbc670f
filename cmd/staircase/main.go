package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/staircase/internal/cli"
	"github.com/alexanderramin/staircase/internal/cli/formatter"
	"github.com/alexanderramin/staircase/internal/config"
	"github.com/alexanderramin/staircase/internal/db"
	"github.com/alexanderramin/staircase/internal/logging"
	"github.com/alexanderramin/staircase/internal/repository"
	"github.com/alexanderramin/staircase/internal/service"
	"github.com/alexanderramin/staircase/internal/telemetry"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdown, err := telemetry.Setup(ctx, telemetry.SettingsFrom(cfg))
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	database, err := db.OpenDB(cfg.DBPath, db.WithBusyTimeout(cfg.BusyTimeoutMs))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	catalogRepo := repository.NewSQLiteCatalogRepo(database)
	dayRepo := repository.NewSQLiteDayProgressRepo(database)
	closureRepo := repository.NewSQLiteClosureRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewZapUseCaseObserver(logger)

	// Wire services
	activation := service.NewActivationService(uow, observer)
	completion := service.NewCompletionService(catalogRepo, closureRepo, uow, observer)

	app := &cli.App{
		Progression: service.NewProgressionService(catalogRepo, dayRepo, closureRepo, activation, observer),
		Days:        completion,
		Closure:     completion,
		Catalog:     service.NewCatalogService(catalogRepo, uow, observer),
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
