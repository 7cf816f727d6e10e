package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andrescamacho/batchreactor-go/internal/application/simulation"
	"github.com/andrescamacho/batchreactor-go/internal/domain/reactor"
)

func printHistory(out io.Writer, history []reactor.Status) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tPHASE\tRESERVES\tCORE\tSTORAGE")
	fmt.Fprintln(w, "----\t-----\t--------\t----\t-------")
	for _, s := range history {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			s.Tick,
			s.Phase,
			formatBuffer(s.Reserves),
			formatBuffer(s.Core),
			formatBuffer(s.Storage),
		)
	}
	w.Flush()
	fmt.Fprintln(out)
}

func printRunSummary(out io.Writer, facility reactor.Config, result *simulation.RunSimulationResponse) {
	fmt.Fprintf(out, "=== Run %s ===\n", result.RunID)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Facility:\t%s\n", facility.Name)
	fmt.Fprintf(w, "Status:\t%s\n", result.Status)
	if result.Error != "" {
		fmt.Fprintf(w, "Error:\t%s\n", result.Error)
	}
	fmt.Fprintf(w, "Ticks:\t%d\n", result.TicksExecuted)
	fmt.Fprintf(w, "Final phase:\t%s (%s)\n", result.Final.Phase, result.Final.PhaseLabel)
	fmt.Fprintf(w, "Fresh fuel supplied:\t%.4f\n", result.Supplied)
	fmt.Fprintf(w, "Spent fuel sold:\t%.4f\n", result.Sold)
	fmt.Fprintf(w, "Traded:\t%.4f\n", result.Traded)
	fmt.Fprintf(w, "Reserves:\t%s\n", formatBuffer(result.Final.Reserves))
	fmt.Fprintf(w, "Core:\t%s\n", formatBuffer(result.Final.Core))
	fmt.Fprintf(w, "Storage:\t%s\n", formatBuffer(result.Final.Storage))
	fmt.Fprintf(w, "Duration:\t%s\n", result.Duration)
	w.Flush()
}

func printPrototype(out io.Writer, cfg reactor.Config) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s\n", cfg.Name)
	fmt.Fprintf(w, "Fuel in:\t%s (%s)\n", cfg.InCommodity, cfg.InRecipe)
	fmt.Fprintf(w, "Fuel out:\t%s (%s)\n", cfg.OutCommodity, cfg.OutRecipe)
	fmt.Fprintf(w, "Batch size:\t%g\n", cfg.BatchSize)
	fmt.Fprintf(w, "Batches per core:\t%d\n", cfg.NBatches)
	fmt.Fprintf(w, "Core loading:\t%g\n", cfg.CoreLoading())
	fmt.Fprintf(w, "Batches per discharge:\t%d\n", cfg.NLoad)
	fmt.Fprintf(w, "Reserve batches:\t%d\n", cfg.NReserves)
	fmt.Fprintf(w, "Process time:\t%d\n", cfg.ProcessTime)
	fmt.Fprintf(w, "Refuel time:\t%d\n", cfg.RefuelTime)
	fmt.Fprintf(w, "Preorder time:\t%d\n", cfg.PreorderTime)
	fmt.Fprintf(w, "Order policy:\t%s\n", cfg.OrderPolicy)
	if cfg.Production.Commodity != "" {
		fmt.Fprintf(w, "Production:\t%s capacity=%g cost=%g\n",
			cfg.Production.Commodity, cfg.Production.Capacity, cfg.Production.Cost)
	}
	w.Flush()
}

func printPrototypeList(out io.Writer, prototypes []reactor.Config) {
	if len(prototypes) == 0 {
		fmt.Fprintln(out, "No prototypes stored")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tIN\tOUT\tBATCH\tCORE\tPROCESS\tREFUEL\tPOLICY")
	fmt.Fprintln(w, "----\t--\t---\t-----\t----\t-------\t------\t------")
	for _, cfg := range prototypes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%d\t%d\t%s\n",
			cfg.Name,
			cfg.InCommodity,
			cfg.OutCommodity,
			cfg.BatchSize,
			cfg.NBatches,
			cfg.ProcessTime,
			cfg.RefuelTime,
			cfg.OrderPolicy,
		)
	}
	w.Flush()
}

func formatBuffer(b reactor.BufferStatus) string {
	return fmt.Sprintf("%d (%.4f)", b.Count, b.Quantity)
}
