package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
)

var phases = []reactor.Phase{reactor.PhaseInitial, reactor.PhaseProcessing, reactor.PhaseWaiting}

// FacilityMetricsCollector implements reactor.MetricsRecorder on Prometheus collectors
type FacilityMetricsCollector struct {
	// Phase metrics
	phase            *prometheus.GaugeVec
	phaseTransitions *prometheus.CounterVec
	tick             *prometheus.GaugeVec

	// Batch flow
	dischargedBatches  *prometheus.CounterVec
	dischargedQuantity *prometheus.CounterVec
	refuelledBatches   *prometheus.CounterVec

	// Trading
	orderedQuantity   *prometheus.CounterVec
	soldQuantity      *prometheus.CounterVec
	deliveredQuantity *prometheus.CounterVec

	// Buffers
	bufferQuantity *prometheus.GaugeVec
	bufferBatches  *prometheus.GaugeVec

	// Declared production
	productionCapacity *prometheus.GaugeVec
	productionCost     *prometheus.GaugeVec
}

// NewFacilityMetricsCollector creates a new facility metrics collector
func NewFacilityMetricsCollector() *FacilityMetricsCollector {
	return &FacilityMetricsCollector{
		phase: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "phase",
				Help:      "1 for the facility's current phase, 0 otherwise",
			},
			[]string{"facility", "phase"},
		),
		phaseTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "phase_transitions_total",
				Help:      "Total number of phase transitions",
			},
			[]string{"facility", "from", "to"},
		),
		tick: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick",
				Help:      "Last tick observed by the facility",
			},
			[]string{"facility"},
		),
		dischargedBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "discharged_batches_total",
				Help:      "Total number of batches discharged from the core",
			},
			[]string{"facility"},
		),
		dischargedQuantity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "discharged_quantity_total",
				Help:      "Total spent fuel mass discharged into storage",
			},
			[]string{"facility"},
		),
		refuelledBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refuelled_batches_total",
				Help:      "Total number of batches loaded from reserves into the core",
			},
			[]string{"facility"},
		),
		orderedQuantity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ordered_quantity_total",
				Help:      "Total fresh fuel mass requested from the market",
			},
			[]string{"facility"},
		),
		soldQuantity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sold_quantity_total",
				Help:      "Total spent fuel mass sold from storage",
			},
			[]string{"facility"},
		),
		deliveredQuantity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "delivered_quantity_total",
				Help:      "Total fresh fuel mass received into reserves",
			},
			[]string{"facility"},
		),
		bufferQuantity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "buffer_quantity",
				Help:      "Material mass held per buffer",
			},
			[]string{"facility", "buffer"},
		),
		bufferBatches: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "buffer_batches",
				Help:      "Batches held per buffer",
			},
			[]string{"facility", "buffer"},
		),
		productionCapacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_capacity",
				Help:      "Declared production capacity per facility and commodity",
			},
			[]string{"facility", "commodity"},
		),
		productionCost: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "production_cost",
				Help:      "Declared production cost per facility and commodity",
			},
			[]string{"facility", "commodity"},
		),
	}
}

// Register registers all facility metrics with the Prometheus registry
func (c *FacilityMetricsCollector) Register() error {
	return register(
		c.phase,
		c.phaseTransitions,
		c.tick,
		c.dischargedBatches,
		c.dischargedQuantity,
		c.refuelledBatches,
		c.orderedQuantity,
		c.soldQuantity,
		c.deliveredQuantity,
		c.bufferQuantity,
		c.bufferBatches,
		c.productionCapacity,
		c.productionCost,
	)
}

// RecordPhaseTransition counts the transition and moves the phase gauge
func (c *FacilityMetricsCollector) RecordPhaseTransition(facility string, from, to reactor.Phase) {
	fromLabel := string(from)
	if fromLabel == "" {
		fromLabel = "NONE"
	}
	c.phaseTransitions.WithLabelValues(facility, fromLabel, string(to)).Inc()
	c.setPhase(facility, to)
}

// RecordDischarge records batches moved from the core to storage
func (c *FacilityMetricsCollector) RecordDischarge(facility string, batches int, quantity float64) {
	c.dischargedBatches.WithLabelValues(facility).Add(float64(batches))
	c.dischargedQuantity.WithLabelValues(facility).Add(quantity)
}

// RecordRefuel records batches moved from reserves to the core
func (c *FacilityMetricsCollector) RecordRefuel(facility string, batches int) {
	c.refuelledBatches.WithLabelValues(facility).Add(float64(batches))
}

// RecordOrder records the size of a posted fresh fuel request
func (c *FacilityMetricsCollector) RecordOrder(facility string, quantity float64) {
	c.orderedQuantity.WithLabelValues(facility).Add(quantity)
}

// RecordSale records spent fuel handed to a buyer
func (c *FacilityMetricsCollector) RecordSale(facility string, quantity float64) {
	c.soldQuantity.WithLabelValues(facility).Add(quantity)
}

// RecordDelivery records fresh fuel received into reserves
func (c *FacilityMetricsCollector) RecordDelivery(facility string, quantity float64) {
	c.deliveredQuantity.WithLabelValues(facility).Add(quantity)
}

// RecordStatus refreshes the per-tick gauges from a facility snapshot
func (c *FacilityMetricsCollector) RecordStatus(status reactor.Status) {
	facility := statusLabel(status)

	c.tick.WithLabelValues(facility).Set(float64(status.Tick))
	c.setPhase(facility, status.Phase)

	buffers := map[string]reactor.BufferStatus{
		reactor.ReservesBuffer: status.Reserves,
		reactor.CoreBuffer:     status.Core,
		reactor.StorageBuffer:  status.Storage,
	}
	for name, b := range buffers {
		c.bufferQuantity.WithLabelValues(facility, name).Set(b.Quantity)
		c.bufferBatches.WithLabelValues(facility, name).Set(float64(b.Count))
	}
}

// RecordProduction publishes the facility's declared production
func (c *FacilityMetricsCollector) RecordProduction(facility string, production reactor.Production) {
	if production.Commodity == "" {
		return
	}
	c.productionCapacity.WithLabelValues(facility, production.Commodity).Set(production.Capacity)
	c.productionCost.WithLabelValues(facility, production.Commodity).Set(production.Cost)
}

func (c *FacilityMetricsCollector) setPhase(facility string, current reactor.Phase) {
	for _, p := range phases {
		value := 0.0
		if p == current {
			value = 1
		}
		c.phase.WithLabelValues(facility, string(p)).Set(value)
	}
}

// statusLabel names a facility the same way the reactor labels its events
func statusLabel(status reactor.Status) string {
	if status.Name != "" {
		return status.Name
	}
	if len(status.FacilityID) > 8 {
		return status.FacilityID[:8]
	}
	return status.FacilityID
}
