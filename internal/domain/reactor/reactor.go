package reactor

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/batchreactor-go/internal/domain/buffer"
	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// Buffer names
const (
	ReservesBuffer = "reserves"
	CoreBuffer     = "core"
	StorageBuffer  = "storage"
)

// Reactor is a batch-fed facility: it buys fresh fuel into reserves, loads whole batches
// into its core, irradiates the core for ProcessTime ticks, discharges spent batches into
// storage and sells them.
//
// Invariants:
// - reserves, core and storage are disjoint; material moves between them by reference
// - core never holds more than NBatches batches
// - reserves hold at most one batch lighter than BatchSize, and it is the last one
//
// A Reactor is driven by a single stepper goroutine; it performs no locking.
type Reactor struct {
	id  string
	cfg Config

	phase     Phase
	startTime int
	endTime   int
	now       int

	reserves *buffer.BatchBuffer
	core     *buffer.BatchBuffer
	storage  *buffer.BatchBuffer

	policy   OrderPolicy
	timeline shared.Timeline
	logger   Logger
	metrics  MetricsRecorder
}

// Option customizes a Reactor at construction
type Option func(*Reactor) error

// WithLogger routes facility events to logger
func WithLogger(logger Logger) Option {
	return func(r *Reactor) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// WithMetrics routes facility events to a metrics recorder
func WithMetrics(recorder MetricsRecorder) Option {
	return func(r *Reactor) error {
		if recorder != nil {
			r.metrics = recorder
		}
		return nil
	}
}

// WithOrderPolicy overrides the policy selected by Config.OrderPolicy
func WithOrderPolicy(policy OrderPolicy) Option {
	return func(r *Reactor) error {
		if policy != nil {
			r.policy = policy
		}
		return nil
	}
}

// WithTimeline makes the reactor read the current tick from the stepper between callbacks
func WithTimeline(timeline shared.Timeline) Option {
	return func(r *Reactor) error {
		r.timeline = timeline
		return nil
	}
}

// WithInitialCore loads whole batches straight into the core
func WithInitialCore(batches ...*material.Material) Option {
	return func(r *Reactor) error {
		if r.core.Count()+len(batches) > r.cfg.NBatches {
			return shared.NewConfigurationError("initial_core",
				fmt.Sprintf("%d batches exceed core size %d", r.core.Count()+len(batches), r.cfg.NBatches))
		}
		for _, m := range batches {
			if !shared.QuantitiesEqual(m.Quantity(), r.cfg.BatchSize) {
				return shared.NewConfigurationError("initial_core",
					fmt.Sprintf("batch of %g does not match batch size %g", m.Quantity(), r.cfg.BatchSize))
			}
			r.core.Push(m)
		}
		return nil
	}
}

// WithInitialReserves delivers material into reserves as if it had been bought
func WithInitialReserves(mats ...*material.Material) Option {
	return func(r *Reactor) error {
		for _, m := range mats {
			if err := r.absorbDelivery(m); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewReactor validates cfg and creates a facility in the INITIAL phase with empty buffers.
// NLoad and NReserves are taken as given; start from DefaultConfig for their defaults.
func NewReactor(cfg Config, opts ...Option) (*Reactor, error) {
	if cfg.OrderPolicy == "" {
		cfg.OrderPolicy = OrderPolicyImmediate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Reactor{
		id:       uuid.New().String(),
		cfg:      cfg,
		phase:    PhaseInitial,
		reserves: buffer.New(ReservesBuffer),
		core:     buffer.New(CoreBuffer),
		storage:  buffer.New(StorageBuffer),
		policy:   PolicyFor(cfg.OrderPolicy),
		logger:   noOpLogger{},
		metrics:  noOpMetrics{},
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Getters

func (r *Reactor) ID() string     { return r.id }
func (r *Reactor) Config() Config { return r.cfg }
func (r *Reactor) Phase() Phase   { return r.phase }
func (r *Reactor) StartTime() int { return r.startTime }
func (r *Reactor) EndTime() int   { return r.endTime }
func (r *Reactor) Name() string   { return r.cfg.Name }

// Production returns the declared production capacity, reported to metrics only
func (r *Reactor) Production() Production {
	return r.cfg.Production
}

// Reserves, Core and Storage expose the buffers for inspection. Callers must not mutate them.
func (r *Reactor) Reserves() *buffer.BatchBuffer { return r.reserves }
func (r *Reactor) Core() *buffer.BatchBuffer     { return r.core }
func (r *Reactor) Storage() *buffer.BatchBuffer  { return r.storage }

// Inventory returns the total mass held across all three buffers
func (r *Reactor) Inventory() float64 {
	return r.reserves.Quantity() + r.core.Quantity() + r.storage.Quantity()
}

// Deploy puts the facility into service at tick t
func (r *Reactor) Deploy(t int) {
	r.now = t
	r.setPhase(PhaseInitial, t)
	r.metrics.RecordProduction(r.label(), r.cfg.Production)
	r.logger.Log("DEBUG", "batch reactor entering the simulation", map[string]interface{}{
		"facility": r.label(),
		"tick":     t,
	})
	r.logger.Log("DEBUG", r.String(), nil)
}

// CanDecommission reports whether every buffer is empty
func (r *Reactor) CanDecommission() bool {
	return r.reserves.IsEmpty() && r.core.IsEmpty() && r.storage.IsEmpty()
}

// BufferStatus summarizes one buffer
type BufferStatus struct {
	Count    int
	Quantity float64
}

// Status is a point-in-time snapshot of a facility
type Status struct {
	FacilityID string
	Name       string
	Tick       int
	Phase      Phase
	PhaseLabel string
	StartTime  int
	EndTime    int
	Reserves   BufferStatus
	Core       BufferStatus
	Storage    BufferStatus
}

// Status returns the current snapshot
func (r *Reactor) Status() Status {
	return Status{
		FacilityID: r.id,
		Name:       r.cfg.Name,
		Tick:       r.time(),
		Phase:      r.phase,
		PhaseLabel: r.phase.Label(),
		StartTime:  r.startTime,
		EndTime:    r.endTime,
		Reserves:   BufferStatus{Count: r.reserves.Count(), Quantity: r.reserves.Quantity()},
		Core:       BufferStatus{Count: r.core.Count(), Quantity: r.core.Quantity()},
		Storage:    BufferStatus{Count: r.storage.Count(), Quantity: r.storage.Quantity()},
	}
}

func (r *Reactor) String() string {
	return fmt.Sprintf("BatchReactor %s has facility parameters {Process Time = %d, Refuel Time = %d, "+
		"Core Loading = %g, Batches Per Core = %d, converts commodity '%s' into commodity '%s'}",
		r.label(), r.cfg.ProcessTime, r.cfg.RefuelTime, r.cfg.CoreLoading(), r.cfg.NBatches,
		r.cfg.InCommodity, r.cfg.OutCommodity)
}

func (r *Reactor) label() string {
	if r.cfg.Name != "" {
		return r.cfg.Name
	}
	return r.id[:8]
}

// time returns the current tick as seen by the stepper, falling back to the last callback tick
func (r *Reactor) time() int {
	if r.timeline != nil {
		return r.timeline.Time()
	}
	return r.now
}
