package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/cli/config"
	"github.com/leapstack-labs/firefly/internal/server"
)

// NewServeCommand creates the serve command.
// --port and --watch are read through the settings layer as serve.port
// and serve.watch, so they can also come from .firefly.yaml or the environment.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts and dashboards over HTTP",
		Long: `Start a local web server that renders the document's charts and
dashboards as HTML pages and its datasets as JSON.

Routes:
  /                    index of every dashboard, chart and dataset
  /dashboards/{name}   rendered dashboard
  /charts/{name}       rendered chart
  /datasets/{name}     dataset rows as JSON

With --watch the document is reloaded whenever it changes and open pages
refresh themselves.`,
		Example: `  # Serve on the default port
  firefly serve

  # Serve on a custom port and reload on change
  firefly serve --port 3000 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, _, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			cfg := cmdCtx.Cfg

			srv := server.New(server.Config{
				Document: cfg.Document,
				Port:     cfg.Serve.Port,
				Watch:    cfg.Serve.Watch,
				Logger:   cmdCtx.Logger,
			}, cmdCtx.Project)

			r := cmdCtx.Renderer
			r.Success(fmt.Sprintf("Serving %s on http://localhost:%d", cfg.Document, cfg.Serve.Port))
			r.Muted("Press Ctrl+C to stop")

			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to serve on")
	cmd.Flags().Bool("watch", false, "Reload the document when it changes")
	return cmd
}
