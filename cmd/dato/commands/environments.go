package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewEnvironmentsCommand creates the environments command group.
func NewEnvironmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "environments",
		Aliases: []string{"environment", "envs", "env"},
		Short:   "Manage environments",
		Long:    "List, fork, promote, rename and delete primary and sandbox environments",
	}

	cmd.AddCommand(newEnvironmentsListCommand())
	cmd.AddCommand(newEnvironmentsForkCommand())
	cmd.AddCommand(newEnvironmentsPromoteCommand())
	cmd.AddCommand(newEnvironmentsRenameCommand())
	cmd.AddCommand(newEnvironmentsDestroyCommand())

	return cmd
}

func newEnvironmentsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			environments, err := client.Environments().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list environments: %w", err)
			}

			return outputResult(environments.Data, renderEnvironmentsTable)
		},
	}
}

func renderEnvironmentsTable(environments []dato.Environment) error {
	if len(environments) == 0 {
		_, _ = os.Stdout.WriteString("No environments found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Primary", "Status", "Forked From", "Created", "Last Change")

	for _, environment := range environments {
		primary := ""
		if environment.Meta.Primary {
			primary = constants.CheckMarkSymbol
		}

		_ = table.Append(environment.ID, primary, environment.Meta.Status,
			stringPtrOrNA(environment.Meta.ForkedFrom),
			formatTime(environment.Meta.CreatedAt),
			formatTimePtr(environment.Meta.LastDataChangeAt))
	}

	_ = table.Render()

	return nil
}

func renderEnvironment(environment *dato.Environment) error {
	return outputResult(environment, func(environment *dato.Environment) error {
		return renderEnvironmentsTable([]dato.Environment{*environment})
	})
}

func newEnvironmentsForkCommand() *cobra.Command {
	var options dato.EnvironmentForkOptions

	cmd := &cobra.Command{
		Use:   "fork SOURCE NEW_ID",
		Short: "Fork an environment",
		Long:  "Create a sandbox NEW_ID as a copy of SOURCE and wait for the copy to finish",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			environment, err := client.Environments().Fork(context.Background(), args[0], args[1], &options)
			if err != nil {
				return fmt.Errorf("failed to fork environment: %w", err)
			}

			return renderEnvironment(environment)
		},
	}

	cmd.Flags().BoolVar(&options.Fast, "fast", false, "fast fork; writes on the source are blocked meanwhile")
	cmd.Flags().BoolVar(&options.Force, "force", false, "run a fast fork even with pending changes")
	cmd.Flags().BoolVar(&options.ImmediateReturn, "no-wait", false, "return without waiting for the fork to finish")

	return cmd
}

func newEnvironmentsPromoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "promote ID",
		Short: "Promote a sandbox to primary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			environment, err := client.Environments().Promote(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to promote environment: %w", err)
			}

			return renderEnvironment(environment)
		},
	}
}

func newEnvironmentsRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID NEW_ID",
		Short: "Rename an environment",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			environment, err := client.Environments().Rename(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to rename environment: %w", err)
			}

			return renderEnvironment(environment)
		},
	}
}

func newEnvironmentsDestroyCommand() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:     "destroy ID",
		Aliases: []string{"delete"},
		Short:   "Delete a sandbox environment",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireConfirmation(confirmed)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Environments().Destroy(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete environment: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted environment %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm deletion")

	return cmd
}
