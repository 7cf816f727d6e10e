package reactor_test

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/batchreactor-go/internal/domain/exchange"
	"github.com/andrescamacho/batchreactor-go/internal/domain/material"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
)

// cycleContext holds state for batch reactor cycle scenarios
type cycleContext struct {
	cfg             reactor.Config
	initialCore     int
	initialReserves float64

	reactor   *reactor.Reactor
	bids      []*exchange.BidPortfolio
	responses []exchange.TradeResponse
	err       error
}

func (cc *cycleContext) reset() {
	cc.cfg = reactor.DefaultConfig()
	cc.cfg.Name = "scenario-reactor"
	cc.cfg.InCommodity = "fresh_fuel"
	cc.cfg.InRecipe = "uox"
	cc.cfg.OutCommodity = "spent_fuel"
	cc.cfg.OutRecipe = "spent_uox"
	cc.initialCore = 0
	cc.initialReserves = 0
	cc.reactor = nil
	cc.bids = nil
	cc.responses = nil
	cc.err = nil
}

// facility builds the reactor on first use so Given steps can keep adjusting the configuration
func (cc *cycleContext) facility() (*reactor.Reactor, error) {
	if cc.reactor != nil {
		return cc.reactor, nil
	}

	var opts []reactor.Option
	if cc.initialCore > 0 {
		opts = append(opts, reactor.WithInitialCore(fullBatches(cc.initialCore, cc.cfg.BatchSize)...))
	}
	if cc.initialReserves > 0 {
		opts = append(opts, reactor.WithInitialReserves(material.MustNew(cc.initialReserves, cc.cfg.InRecipe)))
	}

	r, err := reactor.NewReactor(cc.cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build reactor: %w", err)
	}
	cc.reactor = r
	return r, nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (cc *cycleContext) aBatchReactor(batchSize float64, nBatches, processTime int) error {
	cc.cfg.BatchSize = batchSize
	cc.cfg.NBatches = nBatches
	cc.cfg.ProcessTime = processTime
	return nil
}

func (cc *cycleContext) theReactorDischargesBatchesPerRun(nLoad int) error {
	cc.cfg.NLoad = nLoad
	return nil
}

func (cc *cycleContext) theReactorNeedsTicksToRefuel(refuelTime int) error {
	cc.cfg.RefuelTime = refuelTime
	return nil
}

func (cc *cycleContext) theReactorKeepsBatchesInReserve(nReserves int) error {
	cc.cfg.NReserves = nReserves
	return nil
}

func (cc *cycleContext) theCoreStartsWithFullBatches(n int) error {
	cc.initialCore = n
	return nil
}

func (cc *cycleContext) reservesHoldUnitsOfFreshFuel(qty float64) error {
	cc.initialReserves = qty
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (cc *cycleContext) tickIsProcessed(t int) error {
	r, err := cc.facility()
	if err != nil {
		return err
	}
	return r.Tick(t)
}

func (cc *cycleContext) tockIsProcessed(t int) error {
	r, err := cc.facility()
	if err != nil {
		return err
	}
	return r.Tock(t)
}

func (cc *cycleContext) ticksThroughAreProcessed(from, to int) error {
	r, err := cc.facility()
	if err != nil {
		return err
	}
	for t := from; t <= to; t++ {
		if err := r.Tick(t); err != nil {
			return err
		}
		if err := r.Tock(t); err != nil {
			return err
		}
	}
	return nil
}

func (cc *cycleContext) aDeliveryOfUnitsArrives(qty float64) error {
	r, err := cc.facility()
	if err != nil {
		return err
	}
	return r.AcceptMaterialTrades([]exchange.TradeResponse{{
		Trade:    exchange.Trade{Amount: qty},
		Material: material.MustNew(qty, cc.cfg.InRecipe),
	}})
}

func (cc *cycleContext) aBuyerRequestsUnitsOf(qty float64, commodity string) error {
	r, err := cc.facility()
	if err != nil {
		return err
	}
	cc.bids = r.MaterialBids(exchange.CommodityRequests{
		commodity: {exchange.NewRequest("buyer", commodity, cc.cfg.OutRecipe, qty)},
	})
	return nil
}

func (cc *cycleContext) aTradeForUnitsOfSpentFuelIsSettled(qty float64) error {
	r, err := cc.facility()
	if err != nil {
		return err
	}
	req := exchange.NewRequest("buyer", cc.cfg.OutCommodity, cc.cfg.OutRecipe, qty)
	cc.responses, cc.err = r.MaterialTrades([]exchange.Trade{{
		Request: req,
		Bid:     exchange.Bid{Request: req, Bidder: r.ID(), Offer: exchange.Offer{Recipe: cc.cfg.OutRecipe, Quantity: qty}},
		Amount:  qty,
	}})
	return cc.err
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (cc *cycleContext) thePhaseShouldBe(expected string) error {
	if got := cc.reactor.Phase(); string(got) != expected {
		return fmt.Errorf("expected phase %s, got %s", expected, got)
	}
	return nil
}

func (cc *cycleContext) theStartTimeShouldBe(expected int) error {
	if got := cc.reactor.StartTime(); got != expected {
		return fmt.Errorf("expected start time %d, got %d", expected, got)
	}
	return nil
}

func (cc *cycleContext) storageShouldHoldBatches(expected int) error {
	if got := cc.reactor.Storage().Count(); got != expected {
		return fmt.Errorf("expected %d batches in storage, got %d", expected, got)
	}
	return nil
}

func (cc *cycleContext) storageShouldHoldTheseBatches(table *godog.Table) error {
	return batchesShouldMatchTable("storage", cc.reactor.Storage().Batches(), table)
}

func (cc *cycleContext) storageShouldHoldUnits(expected float64) error {
	if got := cc.reactor.Storage().Quantity(); !approx(got, expected) {
		return fmt.Errorf("expected %g units in storage, got %g", expected, got)
	}
	return nil
}

func (cc *cycleContext) theCoreShouldHoldBatches(expected int) error {
	if got := cc.reactor.Core().Count(); got != expected {
		return fmt.Errorf("expected %d batches in core, got %d", expected, got)
	}
	return nil
}

func (cc *cycleContext) reservesShouldHoldUnits(expected float64) error {
	if got := cc.reactor.Reserves().Quantity(); !approx(got, expected) {
		return fmt.Errorf("expected %g units in reserves, got %g", expected, got)
	}
	return nil
}

func (cc *cycleContext) reservesShouldHoldTheseBatches(table *godog.Table) error {
	return batchesShouldMatchTable("reserves", cc.reactor.Reserves().Batches(), table)
}

func (cc *cycleContext) noBidPortfolioShouldBeProduced() error {
	if len(cc.bids) != 0 {
		return fmt.Errorf("expected no bid portfolio, got %d", len(cc.bids))
	}
	return nil
}

func (cc *cycleContext) aBidPortfolioWithBidsShouldBeProduced(expected int) error {
	if len(cc.bids) != 1 {
		return fmt.Errorf("expected one bid portfolio, got %d", len(cc.bids))
	}
	if got := len(cc.bids[0].Bids); got != expected {
		return fmt.Errorf("expected %d bids, got %d", expected, got)
	}
	return nil
}

func (cc *cycleContext) thePortfolioCapacityShouldBeUnits(expected float64) error {
	if got := cc.bids[0].Capacity(); !approx(got, expected) {
		return fmt.Errorf("expected portfolio capacity %g, got %g", expected, got)
	}
	return nil
}

func (cc *cycleContext) theBuyerShouldReceiveASingleMaterialOfUnits(expected float64) error {
	if len(cc.responses) != 1 {
		return fmt.Errorf("expected one trade response, got %d", len(cc.responses))
	}
	if got := cc.responses[0].Material.Quantity(); !approx(got, expected) {
		return fmt.Errorf("expected delivered material of %g, got %g", expected, got)
	}
	return nil
}

func (cc *cycleContext) theReactorShouldRequestUnitsOf(expected float64, commodity string) error {
	portfolios := cc.reactor.MaterialRequests()
	if len(portfolios) != 1 || len(portfolios[0].Requests) != 1 {
		return fmt.Errorf("expected a single fuel request, got %d portfolios", len(portfolios))
	}
	req := portfolios[0].Requests[0]
	if req.Commodity != commodity {
		return fmt.Errorf("expected request for %s, got %s", commodity, req.Commodity)
	}
	if !approx(req.Quantity, expected) {
		return fmt.Errorf("expected request of %g, got %g", expected, req.Quantity)
	}
	return nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

// batchesShouldMatchTable compares a buffer front to back against a | quantity | recipe | table
func batchesShouldMatchTable(buffer string, batches []*material.Material, table *godog.Table) error {
	if len(table.Rows) == 0 {
		return fmt.Errorf("expected a table with a header row")
	}
	rows := table.Rows[1:]
	if len(batches) != len(rows) {
		return fmt.Errorf("expected %d batches in %s, got %d", len(rows), buffer, len(batches))
	}

	for i, row := range rows {
		qty, err := strconv.ParseFloat(getCellValueFromTable(table, row, "quantity"), 64)
		if err != nil {
			return fmt.Errorf("row %d: invalid quantity: %w", i+1, err)
		}
		if got := batches[i].Quantity(); !approx(got, qty) {
			return fmt.Errorf("%s batch %d holds %g, expected %g", buffer, i, got, qty)
		}
		if recipe := getCellValueFromTable(table, row, "recipe"); recipe != "" && batches[i].Recipe() != recipe {
			return fmt.Errorf("%s batch %d has recipe %s, expected %s", buffer, i, batches[i].Recipe(), recipe)
		}
	}
	return nil
}

// getCellValueFromTable gets a cell value from a table row by column name.
// The first row is the header.
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}

// ============================================================================
// Scenario Initialization
// ============================================================================

func InitializeCycleScenario(sc *godog.ScenarioContext) {
	cc := &cycleContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^a batch reactor with batch size (\d+), (\d+) batches per core and process time (\d+)$`, cc.aBatchReactor)
	sc.Step(`^the reactor discharges (\d+) batches per run$`, cc.theReactorDischargesBatchesPerRun)
	sc.Step(`^the reactor needs (\d+) ticks to refuel$`, cc.theReactorNeedsTicksToRefuel)
	sc.Step(`^the reactor keeps (\d+) batches in reserve$`, cc.theReactorKeepsBatchesInReserve)
	sc.Step(`^the core starts with (\d+) full batches$`, cc.theCoreStartsWithFullBatches)
	sc.Step(`^reserves hold (\d+) units of fresh fuel$`, cc.reservesHoldUnitsOfFreshFuel)

	// Action steps
	sc.Step(`^tick (\d+) is processed$`, cc.tickIsProcessed)
	sc.Step(`^tock (\d+) is processed$`, cc.tockIsProcessed)
	sc.Step(`^ticks (\d+) through (\d+) are processed$`, cc.ticksThroughAreProcessed)
	sc.Step(`^a delivery of (\d+(?:\.\d+)?) units arrives$`, cc.aDeliveryOfUnitsArrives)
	sc.Step(`^a buyer requests (\d+) units of "([^"]*)"$`, cc.aBuyerRequestsUnitsOf)
	sc.Step(`^a trade for (\d+) units of spent fuel is settled$`, cc.aTradeForUnitsOfSpentFuelIsSettled)

	// Assertion steps
	sc.Step(`^the phase should be "([^"]*)"$`, cc.thePhaseShouldBe)
	sc.Step(`^the start time should be (\d+)$`, cc.theStartTimeShouldBe)
	sc.Step(`^storage should hold (\d+) batches$`, cc.storageShouldHoldBatches)
	sc.Step(`^storage should hold these batches:$`, cc.storageShouldHoldTheseBatches)
	sc.Step(`^storage should hold (\d+) units$`, cc.storageShouldHoldUnits)
	sc.Step(`^the core should hold (\d+) batches$`, cc.theCoreShouldHoldBatches)
	sc.Step(`^reserves should hold (\d+) units$`, cc.reservesShouldHoldUnits)
	sc.Step(`^reserves should hold these batches:$`, cc.reservesShouldHoldTheseBatches)
	sc.Step(`^no bid portfolio should be produced$`, cc.noBidPortfolioShouldBeProduced)
	sc.Step(`^a bid portfolio with (\d+) bids? should be produced$`, cc.aBidPortfolioWithBidsShouldBeProduced)
	sc.Step(`^the portfolio capacity should be (\d+) units$`, cc.thePortfolioCapacityShouldBeUnits)
	sc.Step(`^the buyer should receive a single material of (\d+) units$`, cc.theBuyerShouldReceiveASingleMaterialOfUnits)
	sc.Step(`^the reactor should request (\d+) units of "([^"]*)"$`, cc.theReactorShouldRequestUnitsOf)
}
