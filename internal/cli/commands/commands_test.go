package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/firefly/internal/catalog"
	"github.com/leapstack-labs/firefly/internal/project"
)

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{name: "list", cmd: NewListCommand(), use: "list"},
		{name: "dataset", cmd: NewDatasetCommand(), use: "dataset <name>", flags: []string{"format"}},
		{name: "chart", cmd: NewChartCommand(), use: "chart <name>", flags: []string{"page"}},
		{name: "dashboard", cmd: NewDashboardCommand(), use: "dashboard <name>", flags: []string{"page"}},
		{name: "serve", cmd: NewServeCommand(), use: "serve", flags: []string{"port", "watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestNamedCommandsRequireOneArg(t *testing.T) {
	for _, cmd := range []*cobra.Command{NewDatasetCommand(), NewChartCommand(), NewDashboardCommand()} {
		t.Run(cmd.Name(), func(t *testing.T) {
			assert.Error(t, cmd.Args(cmd, nil))
			assert.NoError(t, cmd.Args(cmd, []string{"x"}))
			assert.Error(t, cmd.Args(cmd, []string{"x", "y"}))
			assert.NotNil(t, cmd.ValidArgsFunction)
		})
	}
}

func TestRegisteredNames(t *testing.T) {
	cat := catalog.New(nil)
	cat.Datasets.Register("zeta", &catalog.Dataset{Name: "zeta"})
	cat.Datasets.Register("alpha", &catalog.Dataset{Name: "alpha"})

	assert.Equal(t, []string{"alpha", "zeta"}, registeredNames(cat, project.SectionDatasets))
	assert.Empty(t, registeredNames(cat, project.SectionCharts))
	assert.Nil(t, registeredNames(cat, "widgets"))
}
