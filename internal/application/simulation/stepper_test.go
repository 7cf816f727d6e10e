package simulation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/batchreactor-go/internal/application/simulation"
	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// recordingAgent appends every callback it receives to a shared journal
type recordingAgent struct {
	quietAgent
	name    string
	journal *[]string
	failAt  int
}

func (a *recordingAgent) ID() string   { return a.name }
func (a *recordingAgent) Name() string { return a.name }

func (a *recordingAgent) Tick(t int) error {
	*a.journal = append(*a.journal, fmt.Sprintf("%s tick %d", a.name, t))
	if a.failAt >= 0 && t == a.failAt {
		return errors.New("boom")
	}
	return nil
}

func (a *recordingAgent) Tock(t int) error {
	*a.journal = append(*a.journal, fmt.Sprintf("%s tock %d", a.name, t))
	return nil
}

func (a *recordingAgent) MaterialRequests() []*exchange.RequestPortfolio {
	*a.journal = append(*a.journal, a.name+" requests")
	return nil
}

func TestStepper_TicksAllBeforeExchangeBeforeTocks(t *testing.T) {
	var journal []string
	agents := []simulation.Agent{
		&recordingAgent{name: "a", journal: &journal, failAt: -1},
		&recordingAgent{name: "b", journal: &journal, failAt: -1},
	}
	clock := shared.NewStepClock(0)

	_, err := simulation.NewStepper(clock, agents).Step(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"a tick 0", "b tick 0",
		"a requests", "b requests",
		"a tock 0", "b tock 0",
	}, journal)
	assert.Equal(t, 1, clock.Time())
}

func TestStepper_RunStopsOnAgentError(t *testing.T) {
	var journal []string
	agent := &recordingAgent{name: "a", journal: &journal, failAt: 2}
	clock := shared.NewStepClock(0)

	err := simulation.NewStepper(clock, []simulation.Agent{agent}).Run(context.Background(), 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a tick 2")
	assert.Equal(t, 2, clock.Time())
	assert.Equal(t, "a tick 2", journal[len(journal)-1])
}

func TestStepper_RunHonoursCancellation(t *testing.T) {
	var journal []string
	agent := &recordingAgent{name: "a", journal: &journal, failAt: -1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := simulation.NewStepper(shared.NewStepClock(0), []simulation.Agent{agent}).Run(ctx, 5)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, journal)
}

func TestStepper_PacedRunCompletes(t *testing.T) {
	var journal []string
	agent := &recordingAgent{name: "a", journal: &journal, failAt: -1}
	clock := shared.NewStepClock(0)

	err := simulation.NewStepper(clock, []simulation.Agent{agent}, simulation.WithTicksPerSecond(1000)).
		Run(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, clock.Time())
}

func TestStepper_ObserverSeesEveryStep(t *testing.T) {
	clock := shared.NewStepClock(0)
	facility, err := reactor.NewReactor(facilityConfig(), reactor.WithTimeline(clock))
	require.NoError(t, err)

	var ticks []int
	traded := 0.0
	stepper := simulation.NewStepper(clock, []simulation.Agent{facility, freshSource(0)},
		simulation.WithObserver(func(t int, report simulation.RoundReport) {
			ticks = append(ticks, t)
			traded += report.Traded()
		}),
	)

	require.NoError(t, stepper.Run(context.Background(), 3))

	assert.Equal(t, []int{0, 1, 2}, ticks)
	assert.Equal(t, reactor.PhaseProcessing, facility.Phase())
	assert.Equal(t, 1, facility.StartTime())
	assert.InDelta(t, 60, traded, tol)
}
