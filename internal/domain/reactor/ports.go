package reactor

import (
	"context"
	"errors"
)

// ErrPrototypeNotFound is returned by PrototypeRepository when no prototype has the given name
var ErrPrototypeNotFound = errors.New("prototype not found")

// Logger receives facility events. Levels are DEBUG, INFO, WARN, ERROR.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// MetricsRecorder receives facility events for metrics collection
type MetricsRecorder interface {
	RecordPhaseTransition(facility string, from, to Phase)
	RecordDischarge(facility string, batches int, quantity float64)
	RecordRefuel(facility string, batches int)
	RecordOrder(facility string, quantity float64)
	RecordSale(facility string, quantity float64)
	RecordDelivery(facility string, quantity float64)
	RecordStatus(status Status)
	RecordProduction(facility string, production Production)
}

// PrototypeRepository stores named facility configurations for later deployment
type PrototypeRepository interface {
	Save(ctx context.Context, cfg Config) error
	FindByName(ctx context.Context, name string) (*Config, error)
	ListAll(ctx context.Context) ([]Config, error)
	Delete(ctx context.Context, name string) error
}

type noOpLogger struct{}

func (noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

type noOpMetrics struct{}

func (noOpMetrics) RecordPhaseTransition(facility string, from, to Phase)          {}
func (noOpMetrics) RecordDischarge(facility string, batches int, quantity float64) {}
func (noOpMetrics) RecordRefuel(facility string, batches int)                      {}
func (noOpMetrics) RecordOrder(facility string, quantity float64)                  {}
func (noOpMetrics) RecordSale(facility string, quantity float64)                   {}
func (noOpMetrics) RecordDelivery(facility string, quantity float64)               {}
func (noOpMetrics) RecordStatus(status Status)                                     {}
func (noOpMetrics) RecordProduction(facility string, production Production)        {}
