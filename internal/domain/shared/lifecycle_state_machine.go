package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus represents the state of a simulation run
type LifecycleStatus string

const (
	// LifecycleStatusPending indicates the run is created but not started
	LifecycleStatusPending LifecycleStatus = "PENDING"

	// LifecycleStatusRunning indicates the stepper is advancing the run
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusCompleted indicates every requested tick was executed
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"

	// LifecycleStatusFailed indicates a facility halted the run with an invariant violation
	LifecycleStatusFailed LifecycleStatus = "FAILED"

	// LifecycleStatusStopped indicates the run was cancelled before its last tick
	LifecycleStatusStopped LifecycleStatus = "STOPPED"
)

// LifecycleStateMachine tracks PENDING → RUNNING → COMPLETED/FAILED/STOPPED.
//
// Invariants:
// - COMPLETED, FAILED and STOPPED are terminal
// - Timestamps come from the injected Clock
type LifecycleStateMachine struct {
	status     LifecycleStatus
	createdAt  time.Time
	startedAt  *time.Time
	finishedAt *time.Time
	lastError  error
	clock      Clock
}

// NewLifecycleStateMachine creates a new lifecycle state machine in PENDING state
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}

	return &LifecycleStateMachine{
		status:    LifecycleStatusPending,
		createdAt: clock.Now(),
		clock:     clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) CreatedAt() time.Time    { return sm.createdAt }
func (sm *LifecycleStateMachine) StartedAt() *time.Time   { return sm.startedAt }
func (sm *LifecycleStateMachine) FinishedAt() *time.Time  { return sm.finishedAt }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }

// Start transitions from PENDING to RUNNING
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}

	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	return nil
}

// Complete transitions from RUNNING to COMPLETED
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	sm.finish(LifecycleStatusCompleted, nil)
	return nil
}

// Fail records err and transitions to FAILED from any non-terminal state
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	sm.finish(LifecycleStatusFailed, err)
	return nil
}

// Stop transitions to STOPPED from any non-terminal state
func (sm *LifecycleStateMachine) Stop() error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot stop from %s state", sm.status)
	}
	sm.finish(LifecycleStatusStopped, nil)
	return nil
}

func (sm *LifecycleStateMachine) finish(status LifecycleStatus, err error) {
	now := sm.clock.Now()
	sm.status = status
	sm.lastError = err
	sm.finishedAt = &now
}

// IsRunning returns true while the stepper owns the run
func (sm *LifecycleStateMachine) IsRunning() bool {
	return sm.status == LifecycleStatusRunning
}

// IsFinished returns true once the run reached a terminal state
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted ||
		sm.status == LifecycleStatusFailed ||
		sm.status == LifecycleStatusStopped
}

// RuntimeDuration returns how long the run has been (or was) running, 0 if never started
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}

	end := sm.clock.Now()
	if sm.finishedAt != nil {
		end = *sm.finishedAt
	}
	return end.Sub(*sm.startedAt)
}
