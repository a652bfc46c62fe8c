package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/project"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	var page bool

	cmd := &cobra.Command{
		Use:   "dashboard <name>",
		Short: "Render a dashboard",
		Long: `Render every widget of the dashboard in order.

With --output html the HTML markup is printed as is (add --page for a
standalone document); other modes print a markdown rendition.`,
		Example: `  # Render a dashboard in the terminal
  firefly dashboard overview

  # Write a standalone HTML page
  firefly dashboard overview -o html --page > overview.html`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeNames(project.SectionDashboards),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			m, err := cmdCtx.Project.ShowDashboard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeMarkup(cmd, cmdCtx.Renderer, core.KindDashboard, args[0], m, page)
		},
	}

	cmd.Flags().BoolVar(&page, "page", false, "Wrap HTML output in a complete document")
	return cmd
}
