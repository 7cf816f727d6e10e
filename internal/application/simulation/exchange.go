package simulation

import (
	"fmt"
	"math"

	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// RoundReport summarizes one exchange round
type RoundReport struct {
	Tick     int
	Requests int
	Bids     int
	Trades   []exchange.Trade
}

// Traded returns the total quantity cleared in the round
func (r RoundReport) Traded() float64 {
	total := 0.0
	for _, tr := range r.Trades {
		total += tr.Amount
	}
	return total
}

// Exchange clears requests against bids once per step.
//
// Clearing is greedy in agent registration order: each request is filled from the bids on it
// in bidder order, bounded by the request quantity, the bid offer, and the remaining capacity
// of both portfolios. Agents never trade with themselves.
type Exchange struct {
	agents []Agent
	byID   map[string]Agent
}

// NewExchange creates an exchange over the given agents
func NewExchange(agents ...Agent) *Exchange {
	ex := &Exchange{byID: make(map[string]Agent)}
	for _, a := range agents {
		ex.Add(a)
	}
	return ex
}

// Add registers an agent with the exchange
func (ex *Exchange) Add(a Agent) {
	ex.agents = append(ex.agents, a)
	ex.byID[a.ID()] = a
}

// Round gathers requests and bids, clears them and settles every trade.
// A settlement failure aborts the round and is returned.
func (ex *Exchange) Round(t int) (RoundReport, error) {
	report := RoundReport{Tick: t}

	var requestPortfolios []*exchange.RequestPortfolio
	index := exchange.CommodityRequests{}
	for _, a := range ex.agents {
		for _, p := range a.MaterialRequests() {
			requestPortfolios = append(requestPortfolios, p)
			for _, req := range p.Requests {
				index[req.Commodity] = append(index[req.Commodity], req)
				report.Requests++
			}
		}
	}
	if len(requestPortfolios) == 0 {
		return report, nil
	}

	bidsByRequest := make(map[string][]bidRef)
	bidderRemaining := make(map[*exchange.BidPortfolio]float64)
	for _, a := range ex.agents {
		for _, p := range a.MaterialBids(index) {
			bidderRemaining[p] = p.Capacity()
			for _, b := range p.Bids {
				if b.Bidder == b.Request.Requester {
					continue
				}
				bidsByRequest[b.Request.ID] = append(bidsByRequest[b.Request.ID], bidRef{bid: b, portfolio: p})
				report.Bids++
			}
		}
	}

	for _, rp := range requestPortfolios {
		requesterRemaining := rp.Capacity()
		for _, req := range rp.Requests {
			wanted := req.Quantity
			for _, ref := range bidsByRequest[req.ID] {
				amount := math.Min(math.Min(wanted, ref.bid.Offer.Quantity),
					math.Min(bidderRemaining[ref.portfolio], requesterRemaining))
				if amount <= shared.QuantityTolerance {
					continue
				}
				report.Trades = append(report.Trades, exchange.Trade{Request: req, Bid: ref.bid, Amount: amount})
				wanted -= amount
				requesterRemaining -= amount
				bidderRemaining[ref.portfolio] -= amount
				if wanted <= shared.QuantityTolerance {
					break
				}
			}
		}
	}

	if err := ex.settle(report.Trades); err != nil {
		return report, fmt.Errorf("exchange round at tick %d: %w", t, err)
	}
	return report, nil
}

type bidRef struct {
	bid       exchange.Bid
	portfolio *exchange.BidPortfolio
}

// settle asks each bidder for material, then hands it to the requesters, both in agent order
func (ex *Exchange) settle(trades []exchange.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	byBidder := make(map[string][]exchange.Trade)
	for _, tr := range trades {
		byBidder[tr.Bid.Bidder] = append(byBidder[tr.Bid.Bidder], tr)
	}

	byRequester := make(map[string][]exchange.TradeResponse)
	for _, a := range ex.agents {
		batch, ok := byBidder[a.ID()]
		if !ok {
			continue
		}
		responses, err := a.MaterialTrades(batch)
		if err != nil {
			return fmt.Errorf("%s failed to fulfil %d trades: %w", a.Name(), len(batch), err)
		}
		for _, resp := range responses {
			requester := resp.Trade.Request.Requester
			byRequester[requester] = append(byRequester[requester], resp)
		}
	}

	for _, a := range ex.agents {
		responses, ok := byRequester[a.ID()]
		if !ok {
			continue
		}
		if err := a.AcceptMaterialTrades(responses); err != nil {
			return fmt.Errorf("%s failed to accept %d deliveries: %w", a.Name(), len(responses), err)
		}
	}
	return nil
}
