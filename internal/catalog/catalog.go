// Package catalog holds the named entities of a dashboard document:
// connections, datasets, charts and dashboards.
//
// A Catalog is passed by reference to every constructor and render call.
// Entities refer to each other by name and are resolved through it, so two
// catalogs never observe each other's entries.
package catalog

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/firefly/internal/registry"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// Catalog owns one registry per entity kind.
type Catalog struct {
	Connections *registry.Registry[*Connection]
	Datasets    *registry.Registry[*Dataset]
	Charts      *registry.Registry[*Chart]
	Dashboards  *registry.Registry[*Dashboard]

	logger *slog.Logger

	mu      sync.Mutex
	handles []*Connection
}

// New creates an empty catalog. A nil logger discards output.
func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Catalog{
		Connections: registry.New[*Connection](core.KindConnection),
		Datasets:    registry.New[*Dataset](core.KindDataset),
		Charts:      registry.New[*Chart](core.KindChart),
		Dashboards:  registry.New[*Dashboard](core.KindDashboard),
		logger:      logger,
	}
}

// Logger returns the catalog's logger.
func (c *Catalog) Logger() *slog.Logger {
	return c.logger
}

// track remembers a connection so Close can release it even after its
// registry entry has been overwritten.
func (c *Catalog) track(conn *Connection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles = append(c.handles, conn)
}

// Close releases every connection handle constructed in this catalog.
func (c *Catalog) Close() error {
	c.mu.Lock()
	handles := c.handles
	c.handles = nil
	c.mu.Unlock()

	var errs []error
	for _, conn := range handles {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Checkpoint records the catalog contents so a failed load can be undone.
type Checkpoint struct {
	connections map[string]*Connection
	datasets    map[string]*Dataset
	charts      map[string]*Chart
	dashboards  map[string]*Dashboard
	handles     int
}

// Checkpoint captures the current registries and opened handles.
func (c *Catalog) Checkpoint() Checkpoint {
	c.mu.Lock()
	n := len(c.handles)
	c.mu.Unlock()
	return Checkpoint{
		connections: c.Connections.Snapshot(),
		datasets:    c.Datasets.Snapshot(),
		charts:      c.Charts.Snapshot(),
		dashboards:  c.Dashboards.Snapshot(),
		handles:     n,
	}
}

// Rollback restores the registries to cp and closes every handle opened
// since cp was taken.
func (c *Catalog) Rollback(cp Checkpoint) error {
	c.Connections.Restore(cp.connections)
	c.Datasets.Restore(cp.datasets)
	c.Charts.Restore(cp.charts)
	c.Dashboards.Restore(cp.dashboards)

	c.mu.Lock()
	var opened []*Connection
	if cp.handles < len(c.handles) {
		opened = c.handles[cp.handles:]
		c.handles = c.handles[:cp.handles:cp.handles]
	}
	c.mu.Unlock()

	var errs []error
	for _, conn := range opened {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
