package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewDashboardCommand creates the dashboard command group.
func NewDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Use the Dashboard API",
		Long:  "Account-level operations. Uses dashboard_token (DATO_DASHBOARD_TOKEN) when set.",
	}

	cmd.AddCommand(newDashboardSitesCommand())

	return cmd
}

func newDashboardSitesCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List the projects of the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := CreateDashboardClient()
			if err != nil {
				return err
			}

			ctx := context.Background()
			fetch := dashboard.Sites().List

			var sites []dato.DashboardSite
			if all {
				sites, err = dato.FetchAllPages(ctx, fetch, nil, nil)
			} else {
				var page *dato.ListResponse[dato.DashboardSite]

				page, err = fetch(ctx, nil)
				if page != nil {
					sites = page.Data
				}
			}

			if err != nil {
				return fmt.Errorf("failed to list sites: %w", err)
			}

			return outputResult(sites, renderDashboardSitesTable)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "fetch all pages")

	return cmd
}

func renderDashboardSitesTable(sites []dato.DashboardSite) error {
	if len(sites) == 0 {
		_, _ = os.Stdout.WriteString("No sites found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Domain", "Internal Domain", "Created", "Last Change")

	for _, site := range sites {
		_ = table.Append(site.ID, site.Name, stringPtrOrNA(site.Domain), valueOrNA(site.InternalDomain),
			formatTime(site.CreatedAt), formatTimePtr(site.LastDataChangeAt))
	}

	_ = table.Render()

	return nil
}
