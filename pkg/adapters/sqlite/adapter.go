package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/firefly/pkg/adapter"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the SQLite database file.
// An empty path or ":memory:" opens an in-memory database.
func (a *Adapter) Connect(_ context.Context, cfg adapter.Config) error {
	path := cfg.Path
	memory := path == "" || path == adapter.MemoryPath
	if memory {
		path = adapter.MemoryPath
	}

	dsn := path
	if opts := adapter.EncodeOptions(cfg.Options); opts != "" {
		dsn += "?" + opts
	}

	a.Logger.Debug("opening sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	if memory {
		// Every physical connection to ":memory:" is a separate database;
		// a single pooled connection keeps per-query acquisitions on the same one.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
