package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
)

func withRegistry(t *testing.T) {
	t.Helper()
	InitRegistry()
	t.Cleanup(func() { Registry = nil })
}

// ============================================================================
// Facility metrics
// ============================================================================

func TestFacilityMetrics_CountersAccumulate(t *testing.T) {
	c := NewFacilityMetricsCollector()

	c.RecordDischarge("lwr", 3, 30)
	c.RecordDischarge("lwr", 1, 10)
	c.RecordRefuel("lwr", 2)
	c.RecordOrder("lwr", 15)
	c.RecordSale("lwr", 12.5)
	c.RecordDelivery("lwr", 15)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.dischargedBatches.WithLabelValues("lwr")))
	assert.Equal(t, 40.0, testutil.ToFloat64(c.dischargedQuantity.WithLabelValues("lwr")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.refuelledBatches.WithLabelValues("lwr")))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.orderedQuantity.WithLabelValues("lwr")))
	assert.Equal(t, 12.5, testutil.ToFloat64(c.soldQuantity.WithLabelValues("lwr")))
	assert.Equal(t, 15.0, testutil.ToFloat64(c.deliveredQuantity.WithLabelValues("lwr")))
}

func TestFacilityMetrics_PhaseGaugeIsOneHot(t *testing.T) {
	c := NewFacilityMetricsCollector()

	c.RecordPhaseTransition("lwr", "", reactor.PhaseInitial)
	c.RecordPhaseTransition("lwr", reactor.PhaseInitial, reactor.PhaseProcessing)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.phase.WithLabelValues("lwr", "PROCESSING")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.phase.WithLabelValues("lwr", "INITIAL")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.phase.WithLabelValues("lwr", "WAITING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.phaseTransitions.WithLabelValues("lwr", "NONE", "INITIAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.phaseTransitions.WithLabelValues("lwr", "INITIAL", "PROCESSING")))
}

func TestFacilityMetrics_StatusSetsBufferGauges(t *testing.T) {
	c := NewFacilityMetricsCollector()

	c.RecordStatus(reactor.Status{
		FacilityID: "0123456789abcdef",
		Tick:       12,
		Phase:      reactor.PhaseWaiting,
		Reserves:   reactor.BufferStatus{Count: 2, Quantity: 20},
		Core:       reactor.BufferStatus{Count: 3, Quantity: 30},
		Storage:    reactor.BufferStatus{Count: 1, Quantity: 7.5},
	})

	assert.Equal(t, 12.0, testutil.ToFloat64(c.tick.WithLabelValues("01234567")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.phase.WithLabelValues("01234567", "WAITING")))
	assert.Equal(t, 20.0, testutil.ToFloat64(c.bufferQuantity.WithLabelValues("01234567", "reserves")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.bufferBatches.WithLabelValues("01234567", "core")))
	assert.Equal(t, 7.5, testutil.ToFloat64(c.bufferQuantity.WithLabelValues("01234567", "storage")))
}

func TestFacilityMetrics_Production(t *testing.T) {
	c := NewFacilityMetricsCollector()

	c.RecordProduction("lwr", reactor.Production{Commodity: "power", Capacity: 1000, Cost: 1.5})
	c.RecordProduction("bare", reactor.Production{})

	assert.Equal(t, 1000.0, testutil.ToFloat64(c.productionCapacity.WithLabelValues("lwr", "power")))
	assert.Equal(t, 1.5, testutil.ToFloat64(c.productionCost.WithLabelValues("lwr", "power")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.productionCapacity))
}

func TestFacilityMetrics_DrivenByReactor(t *testing.T) {
	c := NewFacilityMetricsCollector()
	cfg := reactor.DefaultConfig()
	cfg.Name = "lwr"
	cfg.InCommodity, cfg.InRecipe = "fresh_fuel", "uox"
	cfg.OutCommodity, cfg.OutRecipe = "spent_fuel", "spent_uox"
	cfg.BatchSize = 10
	cfg.NBatches = 1
	cfg.ProcessTime = 1

	r, err := reactor.NewReactor(cfg, reactor.WithMetrics(c))
	require.NoError(t, err)
	r.Deploy(0)
	require.NoError(t, r.Tock(0))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.phase.WithLabelValues("lwr", "INITIAL")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.bufferQuantity.WithLabelValues("lwr", "core")))
}

// ============================================================================
// Registry and exposure
// ============================================================================

func TestRegister_NoRegistryIsNoOp(t *testing.T) {
	Registry = nil

	assert.False(t, IsEnabled())
	assert.NoError(t, NewFacilityMetricsCollector().Register())
	assert.NoError(t, NewCommandMetricsCollector().Register())
}

func TestRegister_DuplicateFails(t *testing.T) {
	withRegistry(t)

	require.NoError(t, NewFacilityMetricsCollector().Register())
	assert.Error(t, NewFacilityMetricsCollector().Register())
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	withRegistry(t)
	c := NewFacilityMetricsCollector()
	require.NoError(t, c.Register())
	c.RecordSale("lwr", 4)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `batchreactor_facility_sold_quantity_total{facility="lwr"} 4`)
}

func TestHandler_DisabledIsNotFound(t *testing.T) {
	Registry = nil

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 404, rec.Code)
}

// ============================================================================
// Mediator middleware
// ============================================================================

type pingCommand struct{ fail bool }

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	collector := NewCommandMetricsCollector()
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, common.HandlerFunc(
		func(ctx context.Context, request common.Request) (common.Response, error) {
			if request.(*pingCommand).fail {
				return nil, errors.New("boom")
			}
			return "ok", nil
		})))
	m.RegisterMiddleware(PrometheusMiddleware(collector))

	_, err := m.Send(context.Background(), &pingCommand{})
	require.NoError(t, err)
	_, err = m.Send(context.Background(), &pingCommand{fail: true})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("pingCommand", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.commandsTotal.WithLabelValues("pingCommand", "error")))
}

func TestPrometheusMiddleware_NilCollectorPassesThrough(t *testing.T) {
	mw := PrometheusMiddleware(nil)

	resp, err := mw(context.Background(), &pingCommand{}, func(ctx context.Context, request common.Request) (common.Response, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
