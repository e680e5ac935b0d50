package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewUploadsCommand creates the uploads command group.
func NewUploadsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uploads",
		Aliases: []string{"upload", "assets"},
		Short:   "Manage assets",
		Long:    "List, upload, tag and delete assets of the media area",
	}

	cmd.AddCommand(newUploadsListCommand())
	cmd.AddCommand(newUploadsGetCommand())
	cmd.AddCommand(newUploadsCreateCommand())
	cmd.AddCommand(newUploadsDestroyCommand())
	cmd.AddCommand(newUploadsTagCommand())

	return cmd
}

func newUploadsListCommand() *cobra.Command {
	var (
		query  string
		limit  int
		offset int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			params := dato.NewQueryParams().WithLimit(limit).WithOffset(offset)
			if query != "" {
				params.WithQuery(query)
			}

			if all {
				uploads, err := client.Uploads().ListPagedIterator(ctx, params).All()
				if err != nil {
					return fmt.Errorf("failed to list assets: %w", err)
				}

				return outputResult(uploads, renderUploadsTable)
			}

			page, err := client.Uploads().List(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list assets: %w", err)
			}

			err = outputResult(page.Data, renderUploadsTable)
			if err != nil {
				return err
			}

			printListFooter(len(page.Data)+offset, page.Meta.TotalCount, false)

			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "full-text search")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "assets per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "assets to skip")
	cmd.Flags().BoolVar(&all, "all", false, "fetch all pages")

	return cmd
}

func renderUploadsTable(uploads []dato.Upload) error {
	if len(uploads) == 0 {
		_, _ = os.Stdout.WriteString("No assets found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Filename", "Type", "Size", "Tags", "Created")

	for _, upload := range uploads {
		_ = table.Append(upload.ID, upload.Filename, upload.MimeType,
			formatSize(upload.Size),
			strings.Join(upload.Tags, ", "),
			formatTime(upload.CreatedAt))
	}

	_ = table.Render()

	return nil
}

func formatSize(size int64) string {
	const unit = 1024

	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

func newUploadsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Get an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			upload, err := client.Uploads().Find(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get asset: %w", err)
			}

			return outputResult(upload, renderUploadTable)
		},
	}
}

func renderUploadTable(upload *dato.Upload) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", upload.ID)
	_ = table.Append("Filename", upload.Filename)
	_ = table.Append("URL", upload.URL)
	_ = table.Append("MIME Type", upload.MimeType)
	_ = table.Append("Size", formatSize(upload.Size))

	if upload.Width != nil && upload.Height != nil {
		_ = table.Append("Dimensions", fmt.Sprintf("%dx%d", *upload.Width, *upload.Height))
	}

	_ = table.Append("Author", stringPtrOrNA(upload.Author))
	_ = table.Append("Copyright", stringPtrOrNA(upload.Copyright))
	_ = table.Append("Tags", strings.Join(upload.Tags, ", "))
	_ = table.Append("Created", formatTime(upload.CreatedAt))
	_ = table.Append("Updated", formatTime(upload.UpdatedAt))

	_ = table.Render()

	return nil
}

func newUploadsCreateCommand() *cobra.Command {
	var (
		author    string
		copyright string
		notes     string
		tags      []string
	)

	cmd := &cobra.Command{
		Use:   "create FILE",
		Short: "Upload a file",
		Long:  "Upload a local file to storage and create an asset from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &dato.UploadCreateRequest{Tags: tags}

			if author != "" {
				request.Author = &author
			}

			if copyright != "" {
				request.Copyright = &copyright
			}

			if notes != "" {
				request.Notes = &notes
			}

			upload, err := client.Uploads().CreateFromFile(context.Background(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", args[0], err)
			}

			return outputResult(upload, renderUploadTable)
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "asset author")
	cmd.Flags().StringVar(&copyright, "copyright", "", "asset copyright")
	cmd.Flags().StringVar(&notes, "notes", "", "asset notes")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "asset tags")

	return cmd
}

func newUploadsDestroyCommand() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:     "destroy ID...",
		Aliases: []string{"delete"},
		Short:   "Delete assets",
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
				err = client.Uploads().BulkDestroy(ctx, args)
				if err != nil {
					return fmt.Errorf("failed to delete assets: %w", err)
				}

				_, _ = fmt.Fprintf(os.Stdout, "Deleted %d assets\n", len(args))

				return nil
			}

			_, err = client.Uploads().Destroy(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete asset: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted asset %s\n", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "confirm deletion")

	return cmd
}

func newUploadsTagCommand() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "tag ID...",
		Short: "Add tags to assets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(tags) == 0 {
				return constants.ErrNoTagsGiven
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Uploads().BulkTag(context.Background(), tags, args)
			if err != nil {
				return fmt.Errorf("failed to tag assets: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Tagged %d assets with %s\n", len(args), strings.Join(tags, ", "))

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags to add")

	return cmd
}
