package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/leapstack-labs/firefly/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements adapter.Adapter for DuckDB files and in-memory databases.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates an unconnected DuckDB adapter. A nil logger means discard.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns "duckdb".
func (a *Adapter) DialectName() string {
	return "duckdb"
}

// Connect opens the database at cfg.Path, or an in-memory database for
// ":memory:" and the empty path, then runs the setup statements from the
// connection's params.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	a.Logger.Debug("opening duckdb", slog.String("path", cfg.Path), slog.Bool("read_only", params.ReadOnly))

	db, err := sql.Open("duckdb", dsn(cfg, params))
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	a.DB = db
	a.Cfg = cfg

	for _, stmt := range params.SetupStatements() {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			return fmt.Errorf("duckdb setup %q: %w", stmt, err)
		}
	}
	return nil
}

// dsn builds the driver data source name: the file path followed by the
// url's query options.
func dsn(cfg adapter.Config, p *Params) string {
	path := cfg.Path
	if path == adapter.MemoryPath {
		path = ""
	}

	q := url.Values{}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	if p.ReadOnly {
		q.Set("access_mode", "READ_ONLY")
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

var _ adapter.Adapter = (*Adapter)(nil)
