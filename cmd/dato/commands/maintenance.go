package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/spf13/cobra"
)

// NewMaintenanceCommand creates the maintenance command group.
func NewMaintenanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Manage maintenance mode",
		Long:  "Show or toggle maintenance mode, which makes the project read-only",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show maintenance mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			mode, err := client.MaintenanceMode().Find(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get maintenance mode: %w", err)
			}

			return outputResult(mode, renderMaintenanceMode)
		},
	})

	cmd.AddCommand(newMaintenanceOnCommand())

	cmd.AddCommand(&cobra.Command{
		Use:   "off",
		Short: "Deactivate maintenance mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			mode, err := client.MaintenanceMode().Deactivate(context.Background())
			if err != nil {
				return fmt.Errorf("failed to deactivate maintenance mode: %w", err)
			}

			return outputResult(mode, renderMaintenanceMode)
		},
	})

	return cmd
}

func newMaintenanceOnCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "on",
		Short: "Activate maintenance mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			mode, err := client.MaintenanceMode().Activate(context.Background(), force)
			if err != nil {
				return fmt.Errorf("failed to activate maintenance mode: %w", err)
			}

			return outputResult(mode, renderMaintenanceMode)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "activate even if collaborators are editing")

	return cmd
}

func renderMaintenanceMode(mode *dato.MaintenanceMode) error {
	status := constants.StatusDisabled
	if mode.Active {
		status = constants.StatusEnabled
	}

	_, _ = fmt.Fprintf(os.Stdout, "Maintenance mode: %s\n", status)

	return nil
}
