package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewItemsCommand creates the items command group.
func NewItemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item", "records"},
		Short:   "Manage records",
		Long:    "List, create, update, publish and delete records",
	}

	cmd.AddCommand(newItemsListCommand())
	cmd.AddCommand(newItemsGetCommand())
	cmd.AddCommand(newItemsCreateCommand())
	cmd.AddCommand(newItemsUpdateCommand())
	cmd.AddCommand(newItemsDestroyCommand())
	cmd.AddCommand(newItemsPublishCommand())
	cmd.AddCommand(newItemsUnpublishCommand())
	cmd.AddCommand(newItemsVersionsCommand())

	return cmd
}

type itemsListOptions struct {
	model   string
	query   string
	where   []string
	orderBy string
	locale  string
	version string
	limit   int
	offset  int
	all     bool
}

func newItemsListCommand() *cobra.Command {
	var opts itemsListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		Long: `List records, optionally restricted to models and field conditions.

  dato items list --model article --where title:matches=hello --order-by _updated_at_DESC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemsListCommand(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model API keys or IDs, comma separated")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "full-text search")
	cmd.Flags().StringArrayVar(&opts.where, "where", nil, "field condition FIELD:OPERATOR=VALUE (repeatable)")
	cmd.Flags().StringVar(&opts.orderBy, "order-by", "", "sort order, e.g. _updated_at_DESC")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "locale used for sorting and search")
	cmd.Flags().StringVar(&opts.version, "version", "", "published or current")
	cmd.Flags().IntVar(&opts.limit, "limit", constants.DefaultPageSize, "records per page")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "records to skip")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch all pages")

	return cmd
}

func buildItemsQuery(opts itemsListOptions) (*dato.QueryParams, error) {
	params := dato.NewQueryParams().WithLimit(opts.limit).WithOffset(opts.offset)

	if opts.model != "" {
		params.WithType(strings.Split(opts.model, ",")...)
	}

	if opts.query != "" {
		params.WithQuery(opts.query)
	}

	for _, condition := range opts.where {
		field, rest, ok := strings.Cut(condition, ":")
		operator, value, hasValue := strings.Cut(rest, "=")

		if !ok || !hasValue || field == "" || operator == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldFlag, condition)
		}

		params.WithFieldFilter(field, operator, value)
	}

	if opts.orderBy != "" {
		params.WithOrderBy(opts.orderBy)
	}

	if opts.locale != "" {
		params.WithLocale(opts.locale)
	}

	if opts.version != "" {
		params.WithVersion(opts.version)
	}

	return params, nil
}

func runItemsListCommand(opts itemsListOptions) error {
	params, err := buildItemsQuery(opts)
	if err != nil {
		return err
	}

	client, err := CreateClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if opts.all {
		items, err := client.Items().ListPagedIterator(ctx, params).All()
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		return outputResult(items, renderItemsTable)
	}

	page, err := client.Items().List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	err = outputResult(page.Data, renderItemsTable)
	if err != nil {
		return err
	}

	printListFooter(len(page.Data)+opts.offset, page.Meta.TotalCount, false)

	return nil
}

func renderItemsTable(items []dato.Item) error {
	if len(items) == 0 {
		_, _ = os.Stdout.WriteString("No records found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Model", "Status", "Updated", "Valid")

	for _, item := range items {
		_ = table.Append(item.ID, item.ItemType.ID, item.Meta.Status,
			formatTime(item.Meta.UpdatedAt),
			formatBool(item.Meta.IsValid))
	}

	_ = table.Render()

	return nil
}

func newItemsGetCommand() *cobra.Command {
	var (
		version string
		nested  bool
	)

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := dato.NewQueryParams()
			if version != "" {
				params.WithVersion(version)
			}

			if nested {
				params.WithNested(true)
			}

			item, err := client.Items().FindWithParams(context.Background(), args[0], params)
			if err != nil {
				return fmt.Errorf("failed to get record: %w", err)
			}

			return outputResult(item, renderItemTable)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "published or current")
	cmd.Flags().BoolVar(&nested, "nested", false, "expand blocks inline")

	return cmd
}

func renderItemTable(item *dato.Item) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", item.ID)
	_ = table.Append("Model", item.ItemType.ID)
	_ = table.Append("Status", item.Meta.Status)
	_ = table.Append("Created", formatTime(item.Meta.CreatedAt))
	_ = table.Append("Updated", formatTime(item.Meta.UpdatedAt))
	_ = table.Append("Published", formatTimePtr(item.Meta.PublishedAt))
	_ = table.Append("Current Version", valueOrNA(item.Meta.CurrentVersion))

	_ = table.Render()

	if len(item.Fields) == 0 {
		return nil
	}

	_, _ = os.Stdout.WriteString("\nFields:\n")

	fieldTable := tablewriter.NewWriter(os.Stdout)
	fieldTable.Header("Field", "Value")

	keys := item.FieldKeys()
	sort.Strings(keys)

	for _, key := range keys {
		_ = fieldTable.Append(key, summarizeValue(item.Fields[key]))
	}

	_ = fieldTable.Render()

	return nil
}

const maxValueWidth = 60

func summarizeValue(value interface{}) string {
	if value == nil {
		return ""
	}

	text := fmt.Sprint(value)
	if len(text) > maxValueWidth {
		text = text[:maxValueWidth-3] + "..."
	}

	return strings.ReplaceAll(text, "\n", " ")
}

func newItemsCreateCommand() *cobra.Command {
	var (
		model      string
		jsonFields string
		fieldFlags []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Long: `Create a record of a model.

  dato items create --model article --field title=Hello --field 'tags=["a","b"]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if model == "" {
				return constants.ErrModelRequired
			}

			fields, err := collectFields(jsonFields, fieldFlags)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			itemType, err := client.ItemTypes().Find(ctx, model)
			if err != nil {
				return fmt.Errorf("failed to resolve model %s: %w", model, err)
			}

			item, err := client.Items().Create(ctx, &dato.ItemCreateRequest{
				ItemType: dato.NewRef(dato.TypeItemType, itemType.ID),
				Fields:   fields,
			})
			if err != nil {
				return fmt.Errorf("failed to create record: %w", err)
			}

			return outputResult(item, renderItemTable)
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model ID or API key")
	cmd.Flags().StringVar(&jsonFields, "json", "", "fields as a JSON object")
	cmd.Flags().StringArrayVarP(&fieldFlags, "field", "f", nil, "field value KEY=VALUE (repeatable)")

	return cmd
}

func newItemsUpdateCommand() *cobra.Command {
	var (
		jsonFields string
		fieldFlags []string
		version    string
	)

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := collectFields(jsonFields, fieldFlags)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			item, err := client.Items().Update(context.Background(), args[0], &dato.ItemUpdateRequest{
				Fields:         fields,
				CurrentVersion: version,
			})
			if err != nil {
				return fmt.Errorf("failed to update record: %w", err)
			}

			return outputResult(item, renderItemTable)
		},
	}

	cmd.Flags().StringVar(&jsonFields, "json", "", "fields as a JSON object")
	cmd.Flags().StringArrayVarP(&fieldFlags, "field", "f", nil, "field value KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&version, "current-version", "", "fail if the record changed since this version")

	return cmd
}

func newItemsDestroyCommand() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:     "destroy ID...",
		Aliases: []string{"delete"},
		Short:   "Delete records",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := requireConfirmation(confirmed)
			if err != nil {
				return err
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if len(args) > 1 {
				err = client.Items().BulkDestroy(ctx, args)
				if err != nil {
					return fmt.Errorf("failed to delete records: %w", err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Deleted %d records\n", len(args))

				return nil
			}

			_, err = client.Items().Destroy(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete record: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted record %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm deletion")

	return cmd
}

func newItemsPublishCommand() *cobra.Command {
	var locales []string

	cmd := &cobra.Command{
		Use:   "publish ID...",
		Short: "Publish records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if len(args) > 1 {
				err = client.Items().BulkPublish(ctx, args)
				if err != nil {
					return fmt.Errorf("failed to publish records: %w", err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Published %d records\n", len(args))

				return nil
			}

			var request *dato.ItemPublishRequest
			if len(locales) > 0 {
				request = &dato.ItemPublishRequest{ContentInLocales: locales, NonLocalizedContent: true}
			}

			item, err := client.Items().Publish(ctx, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to publish record: %w", err)
			}

			return outputResult(item, renderItemTable)
		},
	}

	cmd.Flags().StringSliceVar(&locales, "locales", nil, "publish only these locales")

	return cmd
}

func newItemsUnpublishCommand() *cobra.Command {
	var locales []string

	cmd := &cobra.Command{
		Use:   "unpublish ID...",
		Short: "Unpublish records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if len(args) > 1 {
				err = client.Items().BulkUnpublish(ctx, args)
				if err != nil {
					return fmt.Errorf("failed to unpublish records: %w", err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Unpublished %d records\n", len(args))

				return nil
			}

			var request *dato.ItemUnpublishRequest
			if len(locales) > 0 {
				request = &dato.ItemUnpublishRequest{ContentInLocales: locales}
			}

			item, err := client.Items().Unpublish(ctx, args[0], request)
			if err != nil {
				return fmt.Errorf("failed to unpublish record: %w", err)
			}

			return outputResult(item, renderItemTable)
		},
	}

	cmd.Flags().StringSliceVar(&locales, "locales", nil, "unpublish only these locales")

	return cmd
}

func newItemsVersionsCommand() *cobra.Command {
	var restore string

	cmd := &cobra.Command{
		Use:   "versions ID",
		Short: "List the versions of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			if restore != "" {
				item, err := client.ItemVersions().Restore(ctx, restore)
				if err != nil {
					return fmt.Errorf("failed to restore version: %w", err)
				}

				return outputResult(item, renderItemTable)
			}

			versions, err := client.Items().ListVersions(ctx, args[0], nil)
			if err != nil {
				return fmt.Errorf("failed to list versions: %w", err)
			}

			return outputResult(versions.Data, renderVersionsTable)
		},
	}

	cmd.Flags().StringVar(&restore, "restore", "", "restore this version ID instead of listing")

	return cmd
}

func renderVersionsTable(versions []dato.ItemVersion) error {
	if len(versions) == 0 {
		_, _ = os.Stdout.WriteString("No versions found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Created", "Editor", "Published", "Current", "Valid")

	for _, version := range versions {
		current := ""
		if version.Meta.IsCurrent {
			current = constants.CheckMarkSymbol
		}

		_ = table.Append(version.ID, formatTime(version.Meta.CreatedAt), refID(version.Editor),
			formatBool(version.Meta.IsPublished), current, formatBool(version.Meta.IsValid))
	}

	_ = table.Render()

	return nil
}
