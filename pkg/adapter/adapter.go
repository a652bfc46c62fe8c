// Package adapter provides database adapter interfaces and implementations
// for Firefly connections.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves by type name in their init() functions.
package adapter

import (
	"context"

	"github.com/leapstack-labs/firefly/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
// An adapter is the executable handle behind a connection: it is opened once
// and every Query acquires and releases its own physical connection.
type Adapter interface {
	// Connect builds the database handle using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database handle and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows (e.g., INSERT, CREATE).
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement and returns the full tabular result.
	// The physical connection used is released before Query returns.
	Query(ctx context.Context, sql string) (*core.Table, error)

	// DialectName returns the SQL dialect name for this adapter.
	DialectName() string
}
