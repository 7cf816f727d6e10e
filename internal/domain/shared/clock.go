package shared

import "time"

// Timeline exposes the simulation's current tick to components that are queried
// outside of their tick/tock callbacks (exchange rounds).
type Timeline interface {
	Time() int
}

// StepClock is a Timeline advanced explicitly by the stepper
type StepClock struct {
	tick int
}

// NewStepClock creates a StepClock positioned at the given tick
func NewStepClock(start int) *StepClock {
	return &StepClock{tick: start}
}

// Time returns the current tick
func (c *StepClock) Time() int {
	return c.tick
}

// Set moves the clock to a specific tick
func (c *StepClock) Set(tick int) {
	c.tick = tick
}

// Advance moves the clock forward by one tick and returns the new tick
func (c *StepClock) Advance() int {
	c.tick++
	return c.tick
}

// Clock is an abstraction for wall-clock time, allowing time to be mocked in tests.
// It timestamps simulation runs; facility logic only ever sees ticks.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the actual system time
type RealClock struct{}

// Now returns the current system time in UTC
func (r *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock creates a RealClock instance
func NewRealClock() Clock {
	return &RealClock{}
}

// MockClock implements Clock with a controllable time for testing
type MockClock struct {
	CurrentTime time.Time
}

// Now returns the mock's current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Advance moves the mock clock forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// NewMockClock creates a MockClock starting at the given time
func NewMockClock(startTime time.Time) *MockClock {
	return &MockClock{CurrentTime: startTime}
}
