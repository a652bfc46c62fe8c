package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/cli/output"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the Firefly version, commit and build date.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContextWithoutProject(cmd).Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}
			r.Printf("Firefly v%s\n", info.Version)
			r.Println("Declarative SQL dashboards built with Go")
			r.Muted(fmt.Sprintf("commit %s, built %s", info.GitCommit, info.BuildDate))
			return nil
		},
	}
}
