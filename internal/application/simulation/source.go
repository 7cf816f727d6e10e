package simulation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
)

// SourceConfig describes a supplier of one commodity
type SourceConfig struct {
	Name      string  `mapstructure:"name" json:"name"`
	Commodity string  `mapstructure:"commodity" json:"commodity" validate:"required"`
	Recipe    string  `mapstructure:"recipe" json:"recipe" validate:"required"`
	Capacity  float64 `mapstructure:"capacity" json:"capacity" validate:"min=0"` // per tick, 0 = unlimited
}

// Source supplies fresh material of a single commodity to every request it can serve
type Source struct {
	id       string
	cfg      SourceConfig
	supplied float64
}

// NewSource creates a source agent
func NewSource(cfg SourceConfig) *Source {
	if cfg.Name == "" {
		cfg.Name = "source-" + cfg.Commodity
	}
	return &Source{id: uuid.New().String(), cfg: cfg}
}

func (s *Source) ID() string           { return s.id }
func (s *Source) Name() string         { return s.cfg.Name }
func (s *Source) Supplied() float64    { return s.supplied }
func (s *Source) Tick(t int) error     { return nil }
func (s *Source) Tock(t int) error     { return nil }
func (s *Source) Config() SourceConfig { return s.cfg }

// MaterialRequests returns nothing; a source never buys
func (s *Source) MaterialRequests() []*exchange.RequestPortfolio {
	return nil
}

// MaterialBids offers the full requested quantity of every request for the source's commodity
func (s *Source) MaterialBids(requests exchange.CommodityRequests) []*exchange.BidPortfolio {
	reqs := requests[s.cfg.Commodity]
	if len(reqs) == 0 {
		return nil
	}

	portfolio := &exchange.BidPortfolio{Bidder: s.id}
	for _, req := range reqs {
		portfolio.AddBid(exchange.Bid{
			Request: req,
			Bidder:  s.id,
			Offer:   exchange.Offer{Recipe: s.cfg.Recipe, Quantity: req.Quantity},
		})
	}
	if s.cfg.Capacity > 0 {
		portfolio.AddConstraint(exchange.CapacityConstraint{Capacity: s.cfg.Capacity})
	}
	return []*exchange.BidPortfolio{portfolio}
}

// MaterialTrades creates fresh material for each trade
func (s *Source) MaterialTrades(trades []exchange.Trade) ([]exchange.TradeResponse, error) {
	responses := make([]exchange.TradeResponse, 0, len(trades))
	for _, tr := range trades {
		m, err := material.New(tr.Amount, s.cfg.Recipe)
		if err != nil {
			return responses, fmt.Errorf("source %s: %w", s.cfg.Name, err)
		}
		s.supplied += tr.Amount
		responses = append(responses, exchange.TradeResponse{Trade: tr, Material: m})
	}
	return responses, nil
}

// AcceptMaterialTrades returns nil; a source never receives material
func (s *Source) AcceptMaterialTrades(responses []exchange.TradeResponse) error {
	return nil
}
