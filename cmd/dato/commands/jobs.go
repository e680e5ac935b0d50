package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/fivetwenty-io/dato-client/pkg/dato"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewJobsCommand creates the jobs command group.
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Inspect asynchronous jobs",
	}

	cmd.AddCommand(newJobsGetCommand())

	return cmd
}

func newJobsGetCommand() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Get the result of a job",
		Long:  "Get the result of a job. While the job runs the API answers not found, unless --wait is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			var result *dato.JobResult
			if wait {
				result, err = client.JobResults().Wait(ctx, args[0])
			} else {
				result, err = client.JobResults().Find(ctx, args[0])
			}

			if err != nil {
				if dato.IsNotFound(err) && !wait {
					_, _ = fmt.Fprintf(os.Stdout, "Job %s is still running\n", args[0])

					return nil
				}

				return fmt.Errorf("failed to get job result: %w", err)
			}

			return outputResult(result, renderJobResultTable)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "poll until the job completes")

	return cmd
}

func renderJobResultTable(result *dato.JobResult) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("ID", result.ID)
	_ = table.Append("Status", fmt.Sprint(result.Status))
	_ = table.Append("Succeeded", formatBool(result.Succeeded()))

	_ = table.Render()

	if !result.Succeeded() {
		_, _ = fmt.Fprintf(os.Stdout, "\n%v\n", result.Err())
	}

	return nil
}
