package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/catalog"
	"github.com/leapstack-labs/firefly/internal/cli/config"
	"github.com/leapstack-labs/firefly/internal/cli/output"
	"github.com/leapstack-labs/firefly/internal/project"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Project  *project.Project
	Renderer *output.Renderer
}

// NewCommandContext loads the document and creates a renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutProject(cmd)

	p, err := project.Load(cmd.Context(), cc.Cfg.Document, project.WithLogger(cc.Logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", cc.Cfg.Document, err)
	}
	cc.Project = p

	cleanup := func() {
		if err := p.Close(); err != nil {
			cc.Logger.Warn("failed to close connections", slog.String("error", err.Error()))
		}
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutProject creates a CommandContext without loading
// the document. Useful for commands that don't need database access.
func NewCommandContextWithoutProject(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		logger.Warn("falling back to auto output", slog.String("error", err.Error()))
		mode = output.ModeAuto
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// completeNames returns a completion function offering the names declared
// for kind in the current document.
func completeNames(kind string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cfg := config.GetCurrentConfig()
		p, err := project.Load(cmd.Context(), cfg.Document)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		defer func() { _ = p.Close() }()
		return registeredNames(p.Catalog(), kind), cobra.ShellCompDirectiveNoFileComp
	}
}

// registeredNames returns the sorted names registered for a document section.
func registeredNames(cat *catalog.Catalog, section string) []string {
	switch section {
	case project.SectionConnections:
		return cat.Connections.Names()
	case project.SectionDatasets:
		return cat.Datasets.Names()
	case project.SectionCharts:
		return cat.Charts.Names()
	case project.SectionDashboards:
		return cat.Dashboards.Names()
	}
	return nil
}
