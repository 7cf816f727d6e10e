package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "batchreactor",
		Short: "Batch reactor facility simulator",
		Long: `batchreactor deploys a batch reactor facility next to a fresh fuel source and a
spent fuel buyer and steps the simulation tick by tick.

Facility definitions are YAML files or named prototypes stored in the database.

Examples:
  batchreactor simulate --facility configs/lwr.yaml --ticks 60 --sink 30
  batchreactor prototype add --file configs/lwr.yaml
  batchreactor simulate --prototype lwr --ticks 120 --history
  batchreactor prototype list
  batchreactor config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml, /etc/batchreactor/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewPrototypeCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
