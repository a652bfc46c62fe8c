package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/cli/output"
	"github.com/leapstack-labs/firefly/internal/project"
	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// NewDatasetCommand creates the dataset command.
func NewDatasetCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dataset <name>",
		Short: "Execute a dataset and print its rows",
		Long: `Execute the named dataset's query on its connection and print the full result.

The table follows --output; use --format csv for comma-separated values.`,
		Example: `  # Print a dataset as a table
  firefly dataset revenue

  # Export as CSV
  firefly dataset revenue --format csv > revenue.csv

  # Rows as JSON objects
  firefly dataset revenue -o json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNames(project.SectionDatasets),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Table format override (csv)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{output.TableCSV}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runDataset(cmd *cobra.Command, name, format string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	table, err := cmdCtx.Project.ShowDataset(cmd.Context(), name)
	if err != nil {
		return err
	}
	return writeDataset(cmd, cmdCtx.Renderer, name, table, format)
}

func writeDataset(cmd *cobra.Command, r *output.Renderer, name string, table *core.Table, format string) error {
	if format != "" {
		if format != output.TableCSV {
			return fmt.Errorf("unsupported format %q (valid: csv)", format)
		}
		return output.WriteTable(r.Writer(), table, output.TableCSV)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.DatasetOutput{
			Name:     name,
			Columns:  table.Columns,
			Rows:     table.Records(),
			RowCount: table.Len(),
		})
	case output.ModeHTML:
		m, err := render.ToMarkup(cmd.Context(), render.Table(render.DefaultChartType, table))
		if err != nil {
			return err
		}
		r.Println(m.String())
		return nil
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(2, name))
		r.Println("")
		return output.WriteTable(r.Writer(), table, output.TableMarkdown)
	default:
		return output.WriteTable(r.Writer(), table, output.TableText)
	}
}
