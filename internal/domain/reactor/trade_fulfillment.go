package reactor

import (
	"fmt"

	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// MaterialBids answers requests for OutCommodity from storage. A request is bid on only when
// its quantity is strictly below the stored quantity, and the portfolio carries one constraint
// equal to the stored quantity. Bids may add up to more than that constraint; clearing enforces it.
// No portfolio is returned when there is nothing to bid.
func (r *Reactor) MaterialBids(requests exchange.CommodityRequests) []*exchange.BidPortfolio {
	stored := r.storage.Quantity()
	if shared.IsNegligible(stored) {
		return nil
	}

	portfolio := &exchange.BidPortfolio{Bidder: r.id}
	for _, req := range requests[r.cfg.OutCommodity] {
		if req.Quantity >= stored {
			continue
		}
		portfolio.AddBid(exchange.Bid{
			Request: req,
			Bidder:  r.id,
			Offer:   exchange.Offer{Recipe: r.cfg.OutRecipe, Quantity: req.Quantity},
		})
	}

	if portfolio.IsEmpty() {
		return nil
	}
	portfolio.AddConstraint(exchange.CapacityConstraint{Capacity: stored})

	r.logger.Log("DEBUG", "bidding spent fuel", map[string]interface{}{
		"facility":  r.label(),
		"commodity": r.cfg.OutCommodity,
		"bids":      len(portfolio.Bids),
		"stored":    stored,
	})
	return []*exchange.BidPortfolio{portfolio}
}

// MaterialTrades settles accepted sales by withdrawing each traded amount from storage and
// handing it over as a single material. The total is checked first so a shortfall withdraws nothing.
func (r *Reactor) MaterialTrades(trades []exchange.Trade) ([]exchange.TradeResponse, error) {
	total := 0.0
	for _, tr := range trades {
		total += tr.Amount
	}
	if shared.ExceedsQuantity(total, r.storage.Quantity()) {
		return nil, fmt.Errorf("facility %s settling %d trades: %w", r.label(), len(trades),
			shared.NewInsufficientQuantityError(StorageBuffer, total, r.storage.Quantity()))
	}

	responses := make([]exchange.TradeResponse, 0, len(trades))
	for _, tr := range trades {
		batches, err := r.storage.PopQuantity(tr.Amount)
		if err != nil {
			return responses, fmt.Errorf("facility %s settling %s: %w", r.label(), tr, err)
		}
		if len(batches) == 0 {
			batches = []*material.Material{material.MustNew(0, r.cfg.OutRecipe)}
		}
		delivered, err := material.Combine(batches)
		if err != nil {
			return responses, fmt.Errorf("facility %s settling %s: %w", r.label(), tr, err)
		}
		responses = append(responses, exchange.TradeResponse{Trade: tr, Material: delivered})
		r.metrics.RecordSale(r.label(), delivered.Quantity())
	}

	if len(responses) > 0 {
		r.logger.Log("INFO", "sold spent fuel", map[string]interface{}{
			"facility": r.label(),
			"trades":   len(responses),
			"quantity": total,
			"stored":   r.storage.Quantity(),
		})
	}
	return responses, nil
}

// AcceptMaterialTrades absorbs delivered fresh fuel into reserves in BatchSize batches
func (r *Reactor) AcceptMaterialTrades(responses []exchange.TradeResponse) error {
	if len(responses) == 0 {
		return nil
	}

	mats := make([]*material.Material, 0, len(responses))
	for _, resp := range responses {
		if resp.Material == nil {
			return fmt.Errorf("facility %s: trade %s delivered no material", r.label(), resp.Trade)
		}
		mats = append(mats, resp.Material)
	}

	delivery, err := material.Combine(mats)
	if err != nil {
		return fmt.Errorf("facility %s accepting delivery: %w", r.label(), err)
	}

	qty := delivery.Quantity()
	if err := r.absorbDelivery(delivery); err != nil {
		return fmt.Errorf("facility %s accepting delivery: %w", r.label(), err)
	}

	r.metrics.RecordDelivery(r.label(), qty)
	r.logger.Log("DEBUG", "accepted fresh fuel", map[string]interface{}{
		"facility": r.label(),
		"quantity": qty,
		"reserves": r.reserves.Count(),
	})
	return nil
}

// absorbDelivery tops up a partial trailing batch, then carves full batches from the remainder
// and pushes what is left as the new trailing partial batch.
func (r *Reactor) absorbDelivery(delivery *material.Material) error {
	size := r.cfg.BatchSize

	if !r.reserves.IsEmpty() {
		last, err := r.reserves.PopBack()
		if err != nil {
			return err
		}

		room := size - last.Quantity()
		switch {
		case room <= shared.QuantityTolerance:
			// trailing batch already full
		case delivery.Quantity() <= room+shared.QuantityTolerance:
			if err := last.Absorb(delivery); err != nil {
				return err
			}
			return r.pushReserve(last)
		default:
			topUp, err := delivery.Extract(room)
			if err != nil {
				return err
			}
			if err := last.Absorb(topUp); err != nil {
				return err
			}
		}
		if err := r.pushReserve(last); err != nil {
			return err
		}
	}

	for shared.ExceedsQuantity(delivery.Quantity(), size) {
		chunk, err := delivery.Extract(size)
		if err != nil {
			return err
		}
		r.reserves.Push(chunk)
	}

	if !shared.IsNegligible(delivery.Quantity()) {
		return r.pushReserve(delivery)
	}
	if delivery.Quantity() == 0 {
		return nil
	}

	// fold drift into the trailing batch so no mass is lost
	tail, err := r.reserves.PopBack()
	if err != nil {
		r.logger.Log("DEBUG", "dropping negligible delivery remainder", map[string]interface{}{
			"facility": r.label(),
			"quantity": delivery.Quantity(),
		})
		return nil
	}
	if err := tail.Absorb(delivery); err != nil {
		return err
	}
	return r.pushReserve(tail)
}

// pushReserve stages a batch in reserves, snapping it to exactly BatchSize when it is full within tolerance
func (r *Reactor) pushReserve(batch *material.Material) error {
	if shared.QuantitiesEqual(batch.Quantity(), r.cfg.BatchSize) {
		if err := batch.SnapTo(r.cfg.BatchSize); err != nil {
			return err
		}
	}
	r.reserves.Push(batch)
	return nil
}
