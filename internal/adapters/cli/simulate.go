package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/batchreactor-go/internal/adapters/metrics"
	"github.com/andrescamacho/batchreactor-go/internal/application/prototype"
	"github.com/andrescamacho/batchreactor-go/internal/application/simulation"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/infrastructure/config"
)

type simulateOptions struct {
	facilityFile    string
	prototypeName   string
	ticks           int
	ticksPerSecond  float64
	sinkQuantity    float64
	sourceCapacity  float64
	initialCore     int
	initialReserves float64
	history         bool
	serveMetrics    bool
}

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a facility simulation",
		Long: `Deploy one batch reactor with a fresh fuel source and an optional spent fuel
buyer, then step the simulation.

Each tick runs the facility's tick phase, one market round, then the tock phase.
Flags left unset fall back to the simulation section of the config file.

Examples:
  batchreactor simulate --facility configs/lwr.yaml --ticks 60 --sink 30
  batchreactor simulate --prototype lwr --ticks 120 --tps 4 --metrics
  batchreactor simulate --facility configs/lwr.yaml --initial-core 3 --history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.facilityFile == "") == (opts.prototypeName == "") {
				return fmt.Errorf("exactly one of --facility or --prototype is required")
			}
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.facilityFile, "facility", "f", "", "Facility definition file (YAML)")
	cmd.Flags().StringVarP(&opts.prototypeName, "prototype", "p", "", "Stored prototype name")
	cmd.Flags().IntVar(&opts.ticks, "ticks", 0, "Ticks to execute")
	cmd.Flags().Float64Var(&opts.ticksPerSecond, "tps", 0, "Ticks per second (0 = as fast as possible)")
	cmd.Flags().Float64Var(&opts.sinkQuantity, "sink", 0, "Spent fuel demand per tick (0 = no buyer)")
	cmd.Flags().Float64Var(&opts.sourceCapacity, "source-capacity", 0, "Fresh fuel supply per tick (0 = unlimited)")
	cmd.Flags().IntVar(&opts.initialCore, "initial-core", 0, "Full batches loaded into the core at deployment")
	cmd.Flags().Float64Var(&opts.initialReserves, "initial-reserves", 0, "Fresh fuel placed in reserves at deployment")
	cmd.Flags().BoolVar(&opts.history, "history", false, "Print the facility status after every tick")
	cmd.Flags().BoolVar(&opts.serveMetrics, "metrics", false, "Expose Prometheus metrics while the run executes")

	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	a, err := newApp(appOptions{
		database: opts.prototypeName != "",
		override: func(cfg *config.Config) {
			if opts.serveMetrics {
				cfg.Metrics.Enabled = true
			}
			applySimulationFlags(cmd, opts, &cfg.Simulation)
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	facility, err := resolveFacility(cmd.Context(), a, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Metrics.Enabled {
		metricsCtx, cancelMetrics := context.WithCancel(ctx)
		defer cancelMetrics()
		go func() {
			if err := metrics.Serve(metricsCtx, a.cfg.Metrics.Address(), a.cfg.Metrics.Path); err != nil {
				a.logger.Log("ERROR", "metrics server stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
		a.logger.Log("INFO", "serving metrics", map[string]interface{}{
			"address": a.cfg.Metrics.Address(),
			"path":    a.cfg.Metrics.Path,
		})
	}

	sim := a.cfg.Simulation
	response, runErr := a.send(ctx, &simulation.RunSimulationCommand{
		Facility:        facility,
		Ticks:           sim.Ticks,
		TicksPerSecond:  sim.TicksPerSecond,
		Source:          simulation.SourceConfig{Name: "source", Capacity: sim.SourceCapacity},
		Sink:            simulation.SinkConfig{Name: "sink", Quantity: sim.SinkQuantity},
		InitialCore:     sim.InitialCore,
		InitialReserves: sim.InitialReserves,
	})

	result, ok := response.(*simulation.RunSimulationResponse)
	if !ok || result == nil {
		if runErr != nil {
			return runErr
		}
		return fmt.Errorf("unexpected response type")
	}

	out := cmd.OutOrStdout()
	if opts.history {
		printHistory(out, result.History)
	}
	printRunSummary(out, facility, result)

	return runErr
}

// applySimulationFlags lets explicitly set flags override the configured simulation defaults
func applySimulationFlags(cmd *cobra.Command, opts *simulateOptions, sim *config.SimulationConfig) {
	flags := cmd.Flags()
	if flags.Changed("ticks") {
		sim.Ticks = opts.ticks
	}
	if flags.Changed("tps") {
		sim.TicksPerSecond = opts.ticksPerSecond
	}
	if flags.Changed("sink") {
		sim.SinkQuantity = opts.sinkQuantity
	}
	if flags.Changed("source-capacity") {
		sim.SourceCapacity = opts.sourceCapacity
	}
	if flags.Changed("initial-core") {
		sim.InitialCore = opts.initialCore
	}
	if flags.Changed("initial-reserves") {
		sim.InitialReserves = opts.initialReserves
	}
}

func resolveFacility(ctx context.Context, a *app, opts *simulateOptions) (reactor.Config, error) {
	if opts.facilityFile != "" {
		return config.LoadFacilityConfig(opts.facilityFile)
	}

	response, err := a.send(ctx, &prototype.GetPrototypeQuery{Name: opts.prototypeName})
	if err != nil {
		return reactor.Config{}, err
	}
	result, ok := response.(*prototype.GetPrototypeResponse)
	if !ok {
		return reactor.Config{}, fmt.Errorf("unexpected response type")
	}
	return result.Config, nil
}
