package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/firefly/internal/cli/output"
	"github.com/leapstack-labs/firefly/internal/project"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List declared connections, datasets, charts and dashboards",
		Long: `List every entity declared in the document, per kind, in declaration order.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List everything in ./firefly.yaml
  firefly list

  # List as JSON
  firefly list --output json

  # List another document
  firefly list -f reports/sales.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	names := cmdCtx.Project.List()
	r := cmdCtx.Renderer

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.ListOutput{
			Connections: nonNil(names[project.SectionConnections]),
			Datasets:    nonNil(names[project.SectionDatasets]),
			Charts:      nonNil(names[project.SectionCharts]),
			Dashboards:  nonNil(names[project.SectionDashboards]),
		})
	case output.ModeMarkdown, output.ModeHTML:
		listMarkdown(r, names)
	default:
		listText(r, names)
	}
	return nil
}

// listText outputs names in styled text format.
func listText(r *output.Renderer, names map[string][]string) {
	styles := r.Styles()
	title := cases.Title(language.English)

	for i, kind := range project.Kinds {
		if i > 0 {
			r.Println("")
		}
		r.Header(2, fmt.Sprintf("%s (%d)", title.String(kind), len(names[kind])))
		if len(names[kind]) == 0 {
			r.Println(styles.Muted.Render("  (none)"))
			continue
		}
		for j, name := range names[kind] {
			r.Printf("  %2d. %s\n", j+1, styles.Name.Render(name))
		}
	}
}

// listMarkdown outputs names in markdown format.
func listMarkdown(r *output.Renderer, names map[string][]string) {
	title := cases.Title(language.English)

	for i, kind := range project.Kinds {
		if i > 0 {
			r.Println("")
		}
		r.Println(output.FormatHeader(2, title.String(kind)))
		r.Println("")
		if len(names[kind]) == 0 {
			r.Println("_none_")
			continue
		}
		for _, name := range names[kind] {
			r.Println("- " + strings.TrimSpace(name))
		}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
