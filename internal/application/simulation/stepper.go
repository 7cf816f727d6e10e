package simulation

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// StepObserver is called after every completed step
type StepObserver func(t int, report RoundReport)

// Stepper drives agents through discrete steps: every agent ticks, the exchange clears one
// round, then every agent tocks. Agents are only ever called from the stepper's goroutine.
type Stepper struct {
	clock    *shared.StepClock
	agents   []Agent
	exchange *Exchange
	limiter  *rate.Limiter
	observer StepObserver
}

// StepperOption customizes a Stepper
type StepperOption func(*Stepper)

// WithTicksPerSecond paces steps in wall-clock time; 0 or less runs unpaced
func WithTicksPerSecond(tps float64) StepperOption {
	return func(s *Stepper) {
		if tps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(tps), 1)
		}
	}
}

// WithObserver registers a callback invoked after each step
func WithObserver(observer StepObserver) StepperOption {
	return func(s *Stepper) {
		s.observer = observer
	}
}

// NewStepper creates a stepper over clock. The clock is shared with agents that need the
// current tick during exchange rounds.
func NewStepper(clock *shared.StepClock, agents []Agent, opts ...StepperOption) *Stepper {
	s := &Stepper{
		clock:    clock,
		agents:   agents,
		exchange: NewExchange(agents...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the stepper's timeline
func (s *Stepper) Clock() *shared.StepClock {
	return s.clock
}

// Step executes one tick, exchange round and tock at the current tick, then advances the clock
func (s *Stepper) Step(ctx context.Context) (RoundReport, error) {
	t := s.clock.Time()
	logger := common.LoggerFromContext(ctx)

	for _, a := range s.agents {
		if err := a.Tick(t); err != nil {
			return RoundReport{Tick: t}, fmt.Errorf("%s tick %d: %w", a.Name(), t, err)
		}
	}

	report, err := s.exchange.Round(t)
	if err != nil {
		return report, err
	}
	if len(report.Trades) > 0 {
		logger.Log("DEBUG", "exchange round cleared", map[string]interface{}{
			"tick":     t,
			"requests": report.Requests,
			"bids":     report.Bids,
			"trades":   len(report.Trades),
			"quantity": report.Traded(),
		})
	}

	for _, a := range s.agents {
		if err := a.Tock(t); err != nil {
			return report, fmt.Errorf("%s tock %d: %w", a.Name(), t, err)
		}
	}

	if s.observer != nil {
		s.observer(t, report)
	}
	s.clock.Advance()
	return report, nil
}

// Run executes ticks steps. It returns ctx.Err() if cancelled between steps and the first
// agent or settlement error otherwise.
func (s *Stepper) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		}
		if _, err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}
