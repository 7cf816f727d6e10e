package simulation

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// RunID identifies a simulation run
type RunID string

// NewRunID generates a fresh run id
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func (id RunID) String() string { return string(id) }

// Run tracks the lifecycle and per-tick history of one simulation
type Run struct {
	id        RunID
	facility  string
	ticks     int
	lifecycle *shared.LifecycleStateMachine
	history   []reactor.Status
}

// NewRun creates a PENDING run for a facility over the given number of ticks
func NewRun(facility string, ticks int, clock shared.Clock) *Run {
	return &Run{
		id:        NewRunID(),
		facility:  facility,
		ticks:     ticks,
		lifecycle: shared.NewLifecycleStateMachine(clock),
	}
}

func (r *Run) ID() RunID                      { return r.id }
func (r *Run) Facility() string               { return r.facility }
func (r *Run) Ticks() int                     { return r.ticks }
func (r *Run) Status() shared.LifecycleStatus { return r.lifecycle.Status() }
func (r *Run) LastError() error               { return r.lifecycle.LastError() }
func (r *Run) Duration() time.Duration        { return r.lifecycle.RuntimeDuration() }

// History returns the facility snapshot recorded after every executed tick
func (r *Run) History() []reactor.Status {
	out := make([]reactor.Status, len(r.history))
	copy(out, r.history)
	return out
}

// Start marks the run as RUNNING
func (r *Run) Start() error { return r.lifecycle.Start() }

// Record appends a facility snapshot
func (r *Run) Record(status reactor.Status) {
	r.history = append(r.history, status)
}

// Finish moves the run to its terminal state based on the stepper outcome
func (r *Run) Finish(err error, cancelled bool) error {
	switch {
	case cancelled:
		return r.lifecycle.Stop()
	case err != nil:
		return r.lifecycle.Fail(err)
	default:
		return r.lifecycle.Complete()
	}
}
