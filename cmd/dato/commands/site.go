package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSiteCommand creates the site command.
func NewSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "site",
		Short: "Show project settings",
		Long:  "Display the settings of the project and environment in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			site, err := client.Site().Find(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get site: %w", err)
			}

			return outputResult(site, renderSiteTable)
		},
	}
}

func renderSiteTable(site *dato.Site) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", site.ID)
	_ = table.Append("Name", site.Name)
	_ = table.Append("Domain", stringPtrOrNA(site.Domain))
	_ = table.Append("Internal Domain", valueOrNA(site.InternalDomain))
	_ = table.Append("Locales", strings.Join(site.Locales, ", "))
	_ = table.Append("Timezone", valueOrNA(site.Timezone))
	_ = table.Append("No Index", formatBool(site.NoIndex))
	_ = table.Append("Models", fmt.Sprint(len(site.ItemTypes)))
	_ = table.Append("Created", formatTime(site.Meta.CreatedAt))

	_ = table.Render()

	return nil
}
