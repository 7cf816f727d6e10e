package simulation

import (
	"github.com/google/uuid"

	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/shared"
)

// SinkConfig describes a buyer with a fixed demand per tick
type SinkConfig struct {
	Name      string  `mapstructure:"name" json:"name"`
	Commodity string  `mapstructure:"commodity" json:"commodity" validate:"required"`
	Recipe    string  `mapstructure:"recipe" json:"recipe"`
	Quantity  float64 `mapstructure:"quantity" json:"quantity" validate:"gt=0"`
}

// Sink requests the same quantity of one commodity every tick and keeps what it receives
type Sink struct {
	id       string
	cfg      SinkConfig
	received float64
	lots     int
}

// NewSink creates a sink agent
func NewSink(cfg SinkConfig) *Sink {
	if cfg.Name == "" {
		cfg.Name = "sink-" + cfg.Commodity
	}
	return &Sink{id: uuid.New().String(), cfg: cfg}
}

func (s *Sink) ID() string        { return s.id }
func (s *Sink) Name() string      { return s.cfg.Name }
func (s *Sink) Received() float64 { return s.received }
func (s *Sink) Lots() int         { return s.lots }
func (s *Sink) Tick(t int) error  { return nil }
func (s *Sink) Tock(t int) error  { return nil }

// MaterialRequests asks for the configured quantity, constrained to that quantity
func (s *Sink) MaterialRequests() []*exchange.RequestPortfolio {
	portfolio := &exchange.RequestPortfolio{Requester: s.id}
	portfolio.AddRequest(exchange.NewRequest(s.id, s.cfg.Commodity, s.cfg.Recipe, s.cfg.Quantity))
	portfolio.AddConstraint(exchange.CapacityConstraint{Capacity: s.cfg.Quantity})
	return []*exchange.RequestPortfolio{portfolio}
}

// MaterialBids returns nothing; a sink never sells
func (s *Sink) MaterialBids(requests exchange.CommodityRequests) []*exchange.BidPortfolio {
	return nil
}

// MaterialTrades is never called on a sink
func (s *Sink) MaterialTrades(trades []exchange.Trade) ([]exchange.TradeResponse, error) {
	if len(trades) > 0 {
		return nil, shared.NewInsufficientQuantityError("sink "+s.cfg.Name, trades[0].Amount, 0)
	}
	return nil, nil
}

// AcceptMaterialTrades records delivered material
func (s *Sink) AcceptMaterialTrades(responses []exchange.TradeResponse) error {
	for _, resp := range responses {
		if resp.Material == nil {
			continue
		}
		s.received += resp.Material.Quantity()
		s.lots++
	}
	return nil
}
