package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// RunSimulationCommand deploys one facility next to a fuel source and a spent-fuel sink and
// steps the simulation for Ticks steps.
type RunSimulationCommand struct {
	Facility       reactor.Config
	Ticks          int
	TicksPerSecond float64

	// Source defaults to the facility's in-commodity and in-recipe
	Source SourceConfig

	// Sink defaults to the facility's out-commodity; a zero quantity deploys no sink
	Sink SinkConfig

	// Full batches loaded into the core at deployment
	InitialCore int

	// Fresh fuel placed in reserves at deployment
	InitialReserves float64
}

// RunSimulationResponse reports the outcome of a run
type RunSimulationResponse struct {
	RunID         RunID
	Status        shared.LifecycleStatus
	Error         string
	TicksExecuted int
	Traded        float64
	Supplied      float64
	Sold          float64
	Final         reactor.Status
	History       []reactor.Status
	Duration      time.Duration
}

// RunSimulationHandler handles RunSimulationCommand
type RunSimulationHandler struct {
	metrics reactor.MetricsRecorder
	clock   shared.Clock
}

// NewRunSimulationHandler creates a new run simulation handler.
// metrics may be nil when metrics are disabled; clock defaults to the real clock.
func NewRunSimulationHandler(metrics reactor.MetricsRecorder, clock shared.Clock) *RunSimulationHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RunSimulationHandler{
		metrics: metrics,
		clock:   clock,
	}
}

// Handle executes the run simulation command
func (h *RunSimulationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunSimulationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Ticks < 0 {
		return nil, shared.NewValidationError("ticks", "must not be negative")
	}

	logger := common.LoggerFromContext(ctx)
	stepClock := shared.NewStepClock(0)

	facility, err := h.buildFacility(cmd, stepClock, logger)
	if err != nil {
		return nil, err
	}

	source := NewSource(h.sourceConfig(cmd))
	agents := []Agent{facility, source}
	var sink *Sink
	if sinkCfg := h.sinkConfig(cmd); sinkCfg.Quantity > 0 {
		sink = NewSink(sinkCfg)
		agents = append(agents, sink)
	}

	run := NewRun(facility.Name(), cmd.Ticks, h.clock)
	traded := 0.0
	stepper := NewStepper(stepClock, agents,
		WithTicksPerSecond(cmd.TicksPerSecond),
		WithObserver(func(t int, report RoundReport) {
			run.Record(facility.Status())
			traded += report.Traded()
		}),
	)

	if err := run.Start(); err != nil {
		return nil, err
	}
	facility.Deploy(stepClock.Time())
	logger.Log("INFO", "simulation started", map[string]interface{}{
		"run_id":   run.ID().String(),
		"facility": facility.Name(),
		"ticks":    cmd.Ticks,
	})

	runErr := stepper.Run(ctx, cmd.Ticks)
	cancelled := runErr != nil && (errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded))
	if err := run.Finish(runErr, cancelled); err != nil {
		return nil, err
	}

	response := &RunSimulationResponse{
		RunID:         run.ID(),
		Status:        run.Status(),
		TicksExecuted: len(run.History()),
		Traded:        traded,
		Supplied:      source.Supplied(),
		Final:         facility.Status(),
		History:       run.History(),
		Duration:      run.Duration(),
	}
	if sink != nil {
		response.Sold = sink.Received()
	}

	metadata := map[string]interface{}{
		"run_id":   run.ID().String(),
		"status":   string(run.Status()),
		"ticks":    response.TicksExecuted,
		"supplied": response.Supplied,
		"sold":     response.Sold,
	}
	if runErr != nil && !cancelled {
		response.Error = runErr.Error()
		metadata["error"] = runErr.Error()
		logger.Log("ERROR", "simulation failed", metadata)
		return response, fmt.Errorf("simulation %s failed: %w", run.ID(), runErr)
	}

	logger.Log("INFO", "simulation finished", metadata)
	return response, nil
}

func (h *RunSimulationHandler) buildFacility(cmd *RunSimulationCommand, timeline shared.Timeline, logger common.Logger) (*reactor.Reactor, error) {
	opts := []reactor.Option{
		reactor.WithTimeline(timeline),
		reactor.WithLogger(logger),
	}
	if h.metrics != nil {
		opts = append(opts, reactor.WithMetrics(h.metrics))
	}

	if cmd.InitialCore > 0 {
		batches := make([]*material.Material, cmd.InitialCore)
		for i := range batches {
			m, err := material.New(cmd.Facility.BatchSize, cmd.Facility.InRecipe)
			if err != nil {
				return nil, fmt.Errorf("failed to create initial core batch: %w", err)
			}
			batches[i] = m
		}
		opts = append(opts, reactor.WithInitialCore(batches...))
	}
	if cmd.InitialReserves > 0 {
		m, err := material.New(cmd.InitialReserves, cmd.Facility.InRecipe)
		if err != nil {
			return nil, fmt.Errorf("failed to create initial reserves: %w", err)
		}
		opts = append(opts, reactor.WithInitialReserves(m))
	}

	facility, err := reactor.NewReactor(cmd.Facility, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build facility: %w", err)
	}
	return facility, nil
}

func (h *RunSimulationHandler) sourceConfig(cmd *RunSimulationCommand) SourceConfig {
	cfg := cmd.Source
	if cfg.Commodity == "" {
		cfg.Commodity = cmd.Facility.InCommodity
	}
	if cfg.Recipe == "" {
		cfg.Recipe = cmd.Facility.InRecipe
	}
	return cfg
}

func (h *RunSimulationHandler) sinkConfig(cmd *RunSimulationCommand) SinkConfig {
	cfg := cmd.Sink
	if cfg.Commodity == "" {
		cfg.Commodity = cmd.Facility.OutCommodity
	}
	if cfg.Recipe == "" {
		cfg.Recipe = cmd.Facility.OutRecipe
	}
	return cfg
}
