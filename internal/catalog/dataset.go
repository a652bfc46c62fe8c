package catalog

import (
	"context"

	"github.com/leapstack-labs/firefly/pkg/core"
)

// Dataset is a named query bound to a connection.
type Dataset struct {
	Name        string
	Description string
	Query       string
	Connection  *Connection
}

// NewDataset resolves the dataset's connection and registers the dataset.
// The connection must already be registered.
func NewDataset(cat *Catalog, spec DatasetSpec) (*Dataset, error) {
	if err := spec.Validate(); err != nil {
		return nil, invalidConfig(core.KindDataset, spec.Name, err)
	}

	conn, err := cat.Connections.Lookup(spec.Connection)
	if err != nil {
		return nil, &core.UnresolvedReferenceError{
			Kind:    core.KindDataset,
			Name:    spec.Name,
			RefKind: core.KindConnection,
			Ref:     spec.Connection,
			Err:     err,
		}
	}

	ds := &Dataset{
		Name:        spec.Name,
		Description: spec.Description,
		Query:       spec.Query,
		Connection:  conn,
	}
	cat.Datasets.Register(ds.Name, ds)
	return ds, nil
}

// ExecuteQuery runs the dataset's query and returns the full result.
func (d *Dataset) ExecuteQuery(ctx context.Context) (*core.Table, error) {
	table, err := d.Connection.Query(ctx, d.Query)
	if err != nil {
		return nil, &core.QueryExecutionError{Dataset: d.Name, Err: err}
	}
	return table, nil
}
