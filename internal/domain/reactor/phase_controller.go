package reactor

import (
	"fmt"

	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// Tick is the decision point of a step. It evaluates at most one phase transition:
//
//	INITIAL    -> PROCESSING  core full
//	PROCESSING -> WAITING     t >= startTime+ProcessTime, after discharging NLoad batches
//	WAITING    -> PROCESSING  core full and t >= endTime+RefuelTime
//
// A discharge failure is fatal for the facility and leaves the phase unchanged.
func (r *Reactor) Tick(t int) error {
	r.now = t

	switch r.phase {
	case PhaseInitial:
		if r.coreFull() {
			r.setPhase(PhaseProcessing, t)
		}

	case PhaseProcessing:
		if t >= r.startTime+r.cfg.ProcessTime {
			if err := r.discharge(t); err != nil {
				return fmt.Errorf("facility %s tick %d: %w", r.label(), t, err)
			}
			r.endTime = t
			r.setPhase(PhaseWaiting, t)
		}

	case PhaseWaiting:
		if r.coreFull() && t >= r.endTime+r.cfg.RefuelTime {
			r.setPhase(PhaseProcessing, t)
		}

	default:
		return fmt.Errorf("facility %s tick %d: unknown phase %q", r.label(), t, r.phase)
	}

	return nil
}

// Tock is the commit point of a step: outside PROCESSING it loads whole batches from reserves
// into the core. Refuelling never changes the phase; the next Tick picks up a full core.
func (r *Reactor) Tock(t int) error {
	r.now = t

	if r.phase == PhaseInitial || r.phase == PhaseWaiting {
		if moved := r.refuel(); moved > 0 {
			r.metrics.RecordRefuel(r.label(), moved)
			r.logger.Log("DEBUG", "loaded batches into core", map[string]interface{}{
				"facility":   r.label(),
				"batches":    moved,
				"core_count": r.core.Count(),
				"tick":       t,
			})
		}
	}

	r.metrics.RecordStatus(r.Status())
	return nil
}

// discharge moves NLoad batches from core to storage, transmuting each to OutRecipe.
// The core count is checked up front so a failure moves nothing.
func (r *Reactor) discharge(t int) error {
	if r.core.Count() < r.cfg.NLoad {
		return fmt.Errorf("discharge of %d batches with %d in core: %w",
			r.cfg.NLoad, r.core.Count(), shared.NewEmptyBufferError(CoreBuffer))
	}

	moved := 0.0
	for i := 0; i < r.cfg.NLoad; i++ {
		batch, err := r.core.Pop()
		if err != nil {
			return err
		}
		if err := batch.Transmute(r.cfg.OutRecipe); err != nil {
			return err
		}
		moved += batch.Quantity()
		r.storage.Push(batch)
	}

	r.metrics.RecordDischarge(r.label(), r.cfg.NLoad, moved)
	r.logger.Log("INFO", "discharged spent batches", map[string]interface{}{
		"facility": r.label(),
		"batches":  r.cfg.NLoad,
		"quantity": moved,
		"recipe":   r.cfg.OutRecipe,
		"tick":     t,
	})
	return nil
}

// refuel moves full batches from the head of reserves into the core until the core is full
// or the head batch is partial. It returns the number of batches moved.
func (r *Reactor) refuel() int {
	moved := 0
	for r.core.Count() < r.cfg.NBatches && r.fullBatchAvailable() {
		batch, err := r.reserves.Pop()
		if err != nil {
			break
		}
		r.core.Push(batch)
		moved++
	}
	return moved
}

func (r *Reactor) fullBatchAvailable() bool {
	head, err := r.reserves.Peek()
	if err != nil {
		return false
	}
	return head.Quantity() >= r.cfg.BatchSize-shared.QuantityTolerance
}

func (r *Reactor) coreFull() bool {
	return r.core.Count() == r.cfg.NBatches
}

func (r *Reactor) setPhase(next Phase, t int) {
	prev := r.phase
	if next == PhaseProcessing {
		r.startTime = t
	}
	r.phase = next

	if prev == next {
		return
	}
	r.metrics.RecordPhaseTransition(r.label(), prev, next)
	r.logger.Log("INFO", fmt.Sprintf("entering %s", next.Label()), map[string]interface{}{
		"facility": r.label(),
		"from":     string(prev),
		"to":       string(next),
		"tick":     t,
	})
}
