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

// NewModelsCommand creates the models command group.
func NewModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "models",
		Aliases: []string{"model", "item-types"},
		Short:   "Inspect models",
		Long:    "List and inspect the models and block models of the project",
	}

	cmd.AddCommand(newModelsListCommand())
	cmd.AddCommand(newModelsGetCommand())

	return cmd
}

func newModelsListCommand() *cobra.Command {
	var blocks bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List models",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			models, err := client.ItemTypes().ListPagedIterator(context.Background(), nil).All()
			if err != nil {
				return fmt.Errorf("failed to list models: %w", err)
			}

			models = filterModels(models, blocks)

			return outputResult(models, renderModelsTable)
		},
	}

	cmd.Flags().BoolVar(&blocks, "blocks", false, "list block models instead of models")

	return cmd
}

func filterModels(models []dato.ItemType, blocks bool) []dato.ItemType {
	filtered := make([]dato.ItemType, 0, len(models))

	for _, model := range models {
		if model.ModularBlock == blocks {
			filtered = append(filtered, model)
		}
	}

	return filtered
}

func renderModelsTable(models []dato.ItemType) error {
	if len(models) == 0 {
		_, _ = os.Stdout.WriteString("No models found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "API Key", "Name", "Singleton", "Sortable", "Fields")

	for _, model := range models {
		_ = table.Append(model.ID, model.APIKey, model.Name,
			formatBool(model.Singleton),
			formatBool(model.Sortable),
			fmt.Sprint(len(model.Fields)))
	}

	_ = table.Render()

	return nil
}

func newModelsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID_OR_API_KEY",
		Short: "Get model details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			model, err := client.ItemTypes().Find(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get model: %w", err)
			}

			return outputResult(model, renderModelTable)
		},
	}
}

func renderModelTable(model *dato.ItemType) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", model.ID)
	_ = table.Append("Name", model.Name)
	_ = table.Append("API Key", model.APIKey)
	_ = table.Append("Singleton", formatBool(model.Singleton))
	_ = table.Append("Sortable", formatBool(model.Sortable))
	_ = table.Append("Tree", formatBool(model.Tree))
	_ = table.Append("Block", formatBool(model.ModularBlock))
	_ = table.Append("Draft Mode", formatBool(model.DraftModeActive))
	_ = table.Append("Title Field", refID(model.TitleField))
	_ = table.Append("Fields", fmt.Sprint(len(model.Fields)))

	_ = table.Render()

	return nil
}

// NewFieldsCommand creates the fields command group.
func NewFieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field"},
		Short:   "Inspect model fields",
	}

	cmd.AddCommand(newFieldsListCommand())

	return cmd
}

func newFieldsListCommand() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the fields of a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" {
				return constants.ErrModelRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			fields, err := client.Fields().List(context.Background(), model)
			if err != nil {
				return fmt.Errorf("failed to list fields: %w", err)
			}

			return outputResult(fields.Data, renderFieldsTable)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model ID or API key")

	return cmd
}

func renderFieldsTable(fields []dato.Field) error {
	if len(fields) == 0 {
		_, _ = os.Stdout.WriteString("No fields found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Position", "ID", "API Key", "Label", "Type", "Localized")

	for _, field := range fields {
		_ = table.Append(fmt.Sprint(field.Position), field.ID, field.APIKey, field.Label,
			field.FieldType, formatBool(field.Localized))
	}

	_ = table.Render()

	return nil
}
