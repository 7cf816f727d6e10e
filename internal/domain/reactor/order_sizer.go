package reactor

import (
	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// OrderWindow is what an OrderPolicy sees when deciding whether a fuel order may go out
type OrderWindow struct {
	Tick         int
	Phase        Phase
	StartTime    int
	ProcessTime  int
	PreorderTime int
}

// NextNeed returns the tick at which fresh fuel is next required.
// While processing that is the end of the current run, otherwise fuel is needed now.
func (w OrderWindow) NextNeed() int {
	if w.Phase == PhaseProcessing {
		return w.StartTime + w.ProcessTime
	}
	return w.Tick
}

// OrderPolicy decides whether the current tick may place a fuel order
type OrderPolicy interface {
	Name() string
	Eligible(window OrderWindow) bool
}

// ImmediateOrderPolicy orders whenever reserves are short
type ImmediateOrderPolicy struct{}

func (ImmediateOrderPolicy) Name() string                { return OrderPolicyImmediate }
func (ImmediateOrderPolicy) Eligible(_ OrderWindow) bool { return true }

// LookaheadOrderPolicy holds orders back until the next need is within PreorderTime ticks
type LookaheadOrderPolicy struct{}

func (LookaheadOrderPolicy) Name() string { return OrderPolicyLookahead }

func (LookaheadOrderPolicy) Eligible(w OrderWindow) bool {
	return w.Tick >= w.NextNeed()-w.PreorderTime
}

// PolicyFor maps an order policy name to its implementation, defaulting to immediate
func PolicyFor(name string) OrderPolicy {
	if name == OrderPolicyLookahead {
		return LookaheadOrderPolicy{}
	}
	return ImmediateOrderPolicy{}
}

// OrderSize returns the fresh fuel needed to bring reserves up to NReserves full batches.
// A deficit within tolerance is reported as zero.
func (r *Reactor) OrderSize() float64 {
	deficit := float64(r.cfg.NReserves)*r.cfg.BatchSize - r.reserves.Quantity()
	if deficit <= shared.QuantityTolerance {
		return 0
	}
	return deficit
}

// MaterialRequests returns at most one request portfolio for InCommodity, constrained to the deficit
func (r *Reactor) MaterialRequests() []*exchange.RequestPortfolio {
	deficit := r.OrderSize()
	if deficit == 0 {
		return nil
	}

	window := r.orderWindow()
	if !r.policy.Eligible(window) {
		r.logger.Log("DEBUG", "fuel order deferred by policy", map[string]interface{}{
			"facility":  r.label(),
			"policy":    r.policy.Name(),
			"tick":      window.Tick,
			"next_need": window.NextNeed(),
		})
		return nil
	}

	portfolio := &exchange.RequestPortfolio{Requester: r.id}
	portfolio.AddRequest(exchange.NewRequest(r.id, r.cfg.InCommodity, r.cfg.InRecipe, deficit))
	portfolio.AddConstraint(exchange.CapacityConstraint{Capacity: deficit})

	r.metrics.RecordOrder(r.label(), deficit)
	r.logger.Log("DEBUG", "requesting fresh fuel", map[string]interface{}{
		"facility":  r.label(),
		"commodity": r.cfg.InCommodity,
		"quantity":  deficit,
		"tick":      window.Tick,
	})

	return []*exchange.RequestPortfolio{portfolio}
}

func (r *Reactor) orderWindow() OrderWindow {
	return OrderWindow{
		Tick:         r.time(),
		Phase:        r.phase,
		StartTime:    r.startTime,
		ProcessTime:  r.cfg.ProcessTime,
		PreorderTime: r.cfg.PreorderTime,
	}
}
