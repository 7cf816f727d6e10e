package exchange

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
)

// Request describes material an agent wants to buy in one exchange round
type Request struct {
	ID        string
	Requester string
	Commodity string
	Recipe    string
	Quantity  float64
}

// NewRequest creates a request with a generated id
func NewRequest(requester, commodity, recipe string, quantity float64) Request {
	return Request{
		ID:        uuid.New().String(),
		Requester: requester,
		Commodity: commodity,
		Recipe:    recipe,
		Quantity:  quantity,
	}
}

// CapacityConstraint caps the total quantity the clearing may assign within a portfolio
type CapacityConstraint struct {
	Capacity float64
}

// RequestPortfolio groups the requests of one agent with their constraints
type RequestPortfolio struct {
	Requester   string
	Requests    []Request
	Constraints []CapacityConstraint
}

// AddRequest appends a request to the portfolio
func (p *RequestPortfolio) AddRequest(r Request) {
	p.Requests = append(p.Requests, r)
}

// AddConstraint appends a capacity constraint to the portfolio
func (p *RequestPortfolio) AddConstraint(c CapacityConstraint) {
	p.Constraints = append(p.Constraints, c)
}

// Capacity returns the tightest constraint of the portfolio, +Inf if none
func (p *RequestPortfolio) Capacity() float64 {
	return tightest(p.Constraints)
}

// Offer is the material a bidder proposes to deliver
type Offer struct {
	Recipe   string
	Quantity float64
}

// Bid answers one request with an offer
type Bid struct {
	Request Request
	Bidder  string
	Offer   Offer
}

// BidPortfolio groups the bids of one agent with their constraints
type BidPortfolio struct {
	Bidder      string
	Bids        []Bid
	Constraints []CapacityConstraint
}

// AddBid appends a bid to the portfolio
func (p *BidPortfolio) AddBid(b Bid) {
	p.Bids = append(p.Bids, b)
}

// AddConstraint appends a capacity constraint to the portfolio
func (p *BidPortfolio) AddConstraint(c CapacityConstraint) {
	p.Constraints = append(p.Constraints, c)
}

// Capacity returns the tightest constraint of the portfolio, +Inf if none
func (p *BidPortfolio) Capacity() float64 {
	return tightest(p.Constraints)
}

// TotalQuantity sums the offered quantities of every bid
func (p *BidPortfolio) TotalQuantity() float64 {
	total := 0.0
	for _, b := range p.Bids {
		total += b.Offer.Quantity
	}
	return total
}

// IsEmpty reports whether the portfolio carries no bids
func (p *BidPortfolio) IsEmpty() bool {
	return len(p.Bids) == 0
}

// CommodityRequests indexes the requests of a round by commodity
type CommodityRequests map[string][]Request

// Trade is a cleared match between a request and a bid
type Trade struct {
	Request Request
	Bid     Bid
	Amount  float64
}

func (t Trade) String() string {
	return fmt.Sprintf("Trade(%s: %s -> %s, %g)", t.Request.Commodity, t.Bid.Bidder, t.Request.Requester, t.Amount)
}

// TradeResponse pairs a trade with the material the supplier handed over
type TradeResponse struct {
	Trade    Trade
	Material *material.Material
}

func tightest(constraints []CapacityConstraint) float64 {
	capacity := math.Inf(1)
	for _, c := range constraints {
		capacity = math.Min(capacity, c.Capacity)
	}
	return capacity
}
