// Package project loads a dashboard definition file into a catalog and
// exposes the display operations over it.
package project

import (
	"context"
	"log/slog"
	"os"

	"github.com/leapstack-labs/firefly/internal/catalog"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// DefaultDocument is the document file name used when none is given.
const DefaultDocument = "firefly.yaml"

// Project is a loaded dashboard definition.
type Project struct {
	doc    *Document
	cat    *catalog.Catalog
	logger *slog.Logger

	connections []*catalog.Connection
	datasets    []*catalog.Dataset
	charts      []*catalog.Chart
	dashboards  []*catalog.Dashboard
}

type options struct {
	logger *slog.Logger
	cat    *catalog.Catalog
}

// Option configures Load.
type Option func(*options)

// WithLogger sets the logger used by the project and its catalog.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCatalog loads entities into an existing catalog instead of a fresh one.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(o *options) { o.cat = cat }
}

// Load reads the document at path and instantiates its entities in order:
// connections, datasets, charts, dashboards. On failure the catalog is
// rolled back: every connection opened by this call is closed and every
// entry it registered is removed.
//
// A read failure is returned unmodified from the operating system.
func Load(ctx context.Context, path string, opts ...Option) (*Project, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.cat == nil {
		o.cat = catalog.New(o.logger)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(path, data)
	if err != nil {
		return nil, err
	}

	cp := o.cat.Checkpoint()
	p := &Project{doc: doc, cat: o.cat, logger: o.logger}
	if err := p.instantiate(ctx); err != nil {
		if cerr := o.cat.Rollback(cp); cerr != nil {
			p.logger.Warn("failed to close connections", slog.String("error", cerr.Error()))
		}
		return nil, err
	}

	p.logger.Debug("document loaded",
		slog.String("path", path),
		slog.Int("connections", len(p.connections)),
		slog.Int("datasets", len(p.datasets)),
		slog.Int("charts", len(p.charts)),
		slog.Int("dashboards", len(p.dashboards)))
	return p, nil
}

func (p *Project) instantiate(ctx context.Context) error {
	for _, spec := range p.doc.Connections {
		conn, err := catalog.NewConnection(ctx, p.cat, spec)
		if err != nil {
			return err
		}
		p.connections = append(p.connections, conn)
	}
	for _, spec := range p.doc.Datasets {
		ds, err := catalog.NewDataset(p.cat, spec)
		if err != nil {
			return err
		}
		p.datasets = append(p.datasets, ds)
	}
	for _, spec := range p.doc.Charts {
		ch, err := catalog.NewChart(p.cat, spec)
		if err != nil {
			return err
		}
		p.charts = append(p.charts, ch)
	}
	for _, spec := range p.doc.Dashboards {
		d, err := catalog.NewDashboard(p.cat, spec)
		if err != nil {
			return err
		}
		p.dashboards = append(p.dashboards, d)
	}
	return nil
}

// Path returns the path the document was loaded from.
func (p *Project) Path() string { return p.doc.Path }

// Document returns the parsed document.
func (p *Project) Document() *Document { return p.doc }

// Catalog returns the catalog the entities were registered in.
func (p *Project) Catalog() *catalog.Catalog { return p.cat }

// Connections returns the connections in document order.
func (p *Project) Connections() []*catalog.Connection { return p.connections }

// Datasets returns the datasets in document order.
func (p *Project) Datasets() []*catalog.Dataset { return p.datasets }

// Charts returns the charts in document order.
func (p *Project) Charts() []*catalog.Chart { return p.charts }

// Dashboards returns the dashboards in document order.
func (p *Project) Dashboards() []*catalog.Dashboard { return p.dashboards }

// List returns the declared names per section in document order. It reads
// the document as written and ignores registry state.
func (p *Project) List() map[string][]string {
	return p.doc.Names()
}

// ShowDataset executes the named dataset and returns its full result.
func (p *Project) ShowDataset(ctx context.Context, name string) (*core.Table, error) {
	ds, err := p.cat.Datasets.Lookup(name)
	if err != nil {
		return nil, err
	}
	return ds.ExecuteQuery(ctx)
}

// ShowChart renders the named chart.
func (p *Project) ShowChart(ctx context.Context, name string) (core.Markup, error) {
	ch, err := p.cat.Charts.Lookup(name)
	if err != nil {
		return "", err
	}
	return ch.Render(ctx)
}

// ShowDashboard renders the named dashboard.
func (p *Project) ShowDashboard(ctx context.Context, name string) (core.Markup, error) {
	d, err := p.cat.Dashboards.Lookup(name)
	if err != nil {
		return "", err
	}
	return d.Render(ctx, p.cat)
}

// Close releases every connection handle in the catalog.
func (p *Project) Close() error {
	return p.cat.Close()
}
