package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/firefly/pkg/core"
)

// ErrNotConnected is returned when a handle is used before Connect.
var ErrNotConnected = errors.New("database handle not connected")

// BaseSQLAdapter implements Close, Exec and Query over a database/sql pool.
// Concrete adapters embed it and only open DB in Connect.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the pool. Closing an unconnected handle is a no-op.
func (b *BaseSQLAdapter) Close() error {
	if b.DB == nil {
		return nil
	}
	b.logger().Debug("closing database handle")
	err := b.DB.Close()
	b.DB = nil
	return err
}

// Exec runs a statement that returns no rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, stmt string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	if _, err := b.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query checks a connection out of the pool for this call only, runs the
// query on it and reads the whole result. The connection goes back to the
// pool on every path, so a failed query leaves the handle usable.
func (b *BaseSQLAdapter) Query(ctx context.Context, query string) (*core.Table, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}

	start := time.Now()
	conn, err := b.DB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	table, err := ScanTable(rows)
	if err != nil {
		return nil, err
	}

	b.logger().Debug("query finished",
		slog.Int("rows", table.Len()),
		slog.Duration("elapsed", time.Since(start)))
	return table, nil
}

// IsConnected reports whether Connect has opened the pool.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// ScanTable drains rows into a Table. Driver []byte values become strings.
func ScanTable(rows *sql.Rows) (*core.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	table := &core.Table{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		row := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(table.Rows)+1, err)
		}
		for i, v := range row {
			if raw, ok := v.([]byte); ok {
				row[i] = string(raw)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return table, nil
}
