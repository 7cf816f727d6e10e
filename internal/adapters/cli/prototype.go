package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/batchreactor-go/internal/application/prototype"
	"github.com/andrescamacho/batchreactor-go/internal/infrastructure/config"
)

// NewPrototypeCommand creates the prototype command with subcommands
func NewPrototypeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prototype",
		Short: "Manage stored facility prototypes",
		Long: `Store named facility definitions so simulations can deploy them by name.

Examples:
  batchreactor prototype add --file configs/lwr.yaml
  batchreactor prototype add --file configs/lwr.yaml --name lwr-fast
  batchreactor prototype list
  batchreactor prototype show lwr
  batchreactor prototype delete lwr`,
	}

	cmd.AddCommand(newPrototypeAddCommand())
	cmd.AddCommand(newPrototypeListCommand())
	cmd.AddCommand(newPrototypeShowCommand())
	cmd.AddCommand(newPrototypeDeleteCommand())

	return cmd
}

// newPrototypeAddCommand creates the prototype add subcommand
func newPrototypeAddCommand() *cobra.Command {
	var (
		file string
		name string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a facility definition as a prototype",
		Long: `Validate a facility definition file and store it under its name.
An existing prototype with the same name is replaced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file flag is required")
			}

			facility, err := config.LoadFacilityConfig(file)
			if err != nil {
				return err
			}
			if name != "" {
				facility.Name = name
			}

			a, err := newApp(appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.send(cmd.Context(), &prototype.SavePrototypeCommand{Config: facility})
			if err != nil {
				return err
			}
			result, ok := response.(*prototype.SavePrototypeResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Prototype %s saved\n", result.Config.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Facility definition file (required)")
	cmd.Flags().StringVar(&name, "name", "", "Store under this name instead of the file's")

	return cmd
}

// newPrototypeListCommand creates the prototype list subcommand
func newPrototypeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored prototypes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.send(cmd.Context(), &prototype.ListPrototypesQuery{})
			if err != nil {
				return err
			}
			result, ok := response.(*prototype.ListPrototypesResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printPrototypeList(cmd.OutOrStdout(), result.Prototypes)
			return nil
		},
	}
}

// newPrototypeShowCommand creates the prototype show subcommand
func newPrototypeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one stored prototype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.send(cmd.Context(), &prototype.GetPrototypeQuery{Name: args[0]})
			if err != nil {
				return err
			}
			result, ok := response.(*prototype.GetPrototypeResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printPrototype(cmd.OutOrStdout(), result.Config)
			return nil
		},
	}
}

// newPrototypeDeleteCommand creates the prototype delete subcommand
func newPrototypeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored prototype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{database: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.send(cmd.Context(), &prototype.DeletePrototypeCommand{Name: args[0]}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Prototype %s deleted\n", args[0])
			return nil
		},
	}
}
