package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/project"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// NewChartCommand creates the chart command.
func NewChartCommand() *cobra.Command {
	var page bool

	cmd := &cobra.Command{
		Use:   "chart <name>",
		Short: "Render a chart",
		Long: `Execute the chart's dataset and render it.

With --output html the HTML markup is printed as is (add --page for a
standalone document); other modes print a markdown rendition.`,
		Example: `  # Render a chart in the terminal
  firefly chart revenue

  # Write a standalone HTML page
  firefly chart revenue -o html --page > revenue.html`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNames(project.SectionCharts),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := cmdCtx.Project.ShowChart(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeMarkup(cmd, cmdCtx.Renderer, core.KindChart, args[0], m, page)
		},
	}

	cmd.Flags().BoolVar(&page, "page", false, "Wrap HTML output in a complete document")
	return cmd
}
