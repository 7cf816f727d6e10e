package simulation

import (
	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
)

// Agent is a participant the stepper drives and the exchange clears.
// *reactor.Reactor, *Source and *Sink implement it.
type Agent interface {
	ID() string
	Name() string

	Tick(t int) error
	Tock(t int) error

	MaterialRequests() []*exchange.RequestPortfolio
	MaterialBids(requests exchange.CommodityRequests) []*exchange.BidPortfolio
	MaterialTrades(trades []exchange.Trade) ([]exchange.TradeResponse, error)
	AcceptMaterialTrades(responses []exchange.TradeResponse) error
}
