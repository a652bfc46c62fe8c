package catalog

import (
	"context"
	"log/slog"
	"os"
	"regexp"

	"github.com/leapstack-labs/firefly/pkg/adapter"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// Connection is a named database connection. Its handle is opened when the
// connection is constructed.
type Connection struct {
	Name        string
	Description string
	Type        string
	Config      map[string]any

	handle adapter.Adapter
}

// NewConnection builds the connection handle and registers the connection
// under its name.
func NewConnection(ctx context.Context, cat *Catalog, spec ConnectionSpec) (*Connection, error) {
	if err := spec.Validate(); err != nil {
		return nil, invalidConfig(core.KindConnection, spec.Name, err)
	}

	rawURL, _ := spec.Config["url"].(string)
	cfg, err := adapter.ParseURL(expandEnvVars(rawURL))
	if err != nil {
		return nil, &core.InvalidConfigError{Kind: core.KindConnection, Name: spec.Name, Field: "config.url", Err: err}
	}
	if cfg.Type == "" {
		cfg.Type = adapter.NormalizeType(spec.Type)
	}
	cfg.Params = connectionParams(spec.Config)

	logger := cat.logger.With(slog.String("connection", spec.Name))

	handle, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		return nil, &core.ConnectionError{Connection: spec.Name, Err: err}
	}

	conn := &Connection{
		Name:        spec.Name,
		Description: spec.Description,
		Type:        cfg.Type,
		Config:      spec.Config,
		handle:      handle,
	}
	cat.track(conn)
	cat.Connections.Register(conn.Name, conn)

	logger.Debug("connection opened", slog.String("type", cfg.Type))
	return conn, nil
}

// Query runs sql on a connection acquired for this call only.
func (c *Connection) Query(ctx context.Context, sql string) (*core.Table, error) {
	return c.handle.Query(ctx, sql)
}

// Dialect returns the name of the SQL dialect spoken by the handle.
func (c *Connection) Dialect() string {
	return c.handle.DialectName()
}

// Close releases the connection handle.
func (c *Connection) Close() error {
	return c.handle.Close()
}

// connectionParams returns the adapter-specific settings of a connection
// config, i.e. everything except the url.
func connectionParams(config map[string]any) map[string]any {
	if len(config) <= 1 {
		return nil
	}
	params := make(map[string]any, len(config)-1)
	for k, v := range config {
		if k == "url" {
			continue
		}
		params[k] = v
	}
	return params
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}
