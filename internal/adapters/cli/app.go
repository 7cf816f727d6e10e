package cli

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/batchreactor-go/internal/adapters/metrics"
	"github.com/andrescamacho/batchreactor-go/internal/adapters/persistence"
	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/application/prototype"
	"github.com/andrescamacho/batchreactor-go/internal/application/simulation"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/infrastructure/config"
	"github.com/andrescamacho/batchreactor-go/internal/infrastructure/database"
	"github.com/andrescamacho/batchreactor-go/internal/infrastructure/logging"
)

// app bundles the wiring shared by every command
type app struct {
	cfg      *config.Config
	logger   *logging.SlogLogger
	mediator common.Mediator
	db       *gorm.DB
}

type appOptions struct {
	// Open the database and register prototype handlers
	database bool

	// Applied to the loaded configuration before anything is wired
	override func(cfg *config.Config)
}

func newApp(opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if opts.override != nil {
		opts.override(cfg)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		mediator: common.NewMediator(),
	}
	a.mediator.RegisterMiddleware(common.LoggingMiddleware())

	var recorder reactor.MetricsRecorder
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		facilityMetrics := metrics.NewFacilityMetricsCollector()
		commandMetrics := metrics.NewCommandMetricsCollector()
		if err := facilityMetrics.Register(); err != nil {
			return nil, a.fail(fmt.Errorf("failed to register facility metrics: %w", err))
		}
		if err := commandMetrics.Register(); err != nil {
			return nil, a.fail(fmt.Errorf("failed to register command metrics: %w", err))
		}
		a.mediator.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))
		recorder = facilityMetrics
	}

	if err := common.RegisterHandler[*simulation.RunSimulationCommand](
		a.mediator, simulation.NewRunSimulationHandler(recorder, nil)); err != nil {
		return nil, a.fail(err)
	}

	if opts.database {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, a.fail(fmt.Errorf("failed to connect to database: %w", err))
		}
		a.db = db
		if err := database.AutoMigrate(db); err != nil {
			return nil, a.fail(fmt.Errorf("failed to migrate database: %w", err))
		}
		repo := persistence.NewGormPrototypeRepository(db, nil)
		if err := prototype.RegisterHandlers(a.mediator, repo); err != nil {
			return nil, a.fail(err)
		}
	}

	return a, nil
}

// context attaches the app logger for handlers
func (a *app) context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, a.logger)
}

func (a *app) send(ctx context.Context, request common.Request) (common.Response, error) {
	return a.mediator.Send(a.context(ctx), request)
}

func (a *app) Close() error {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			return err
		}
		a.db = nil
	}
	return a.logger.Close()
}

func (a *app) fail(err error) error {
	_ = a.Close()
	return err
}
