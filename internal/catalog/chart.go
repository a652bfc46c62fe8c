package catalog

import (
	"context"

	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// Chart renders a dataset. Every chart type currently renders as a table.
type Chart struct {
	Name        string
	Description string
	Type        string
	Dataset     *Dataset
}

// NewChart resolves the chart's dataset and registers the chart.
func NewChart(cat *Catalog, spec ChartSpec) (*Chart, error) {
	if err := spec.Validate(); err != nil {
		return nil, invalidConfig(core.KindChart, spec.Name, err)
	}

	ds, err := cat.Datasets.Lookup(spec.Dataset)
	if err != nil {
		return nil, &core.UnresolvedReferenceError{
			Kind:    core.KindChart,
			Name:    spec.Name,
			RefKind: core.KindDataset,
			Ref:     spec.Dataset,
			Err:     err,
		}
	}

	chartType := spec.Type
	if chartType == "" {
		chartType = render.DefaultChartType
	}

	ch := &Chart{
		Name:        spec.Name,
		Description: spec.Description,
		Type:        chartType,
		Dataset:     ds,
	}
	cat.Charts.Register(ch.Name, ch)
	return ch, nil
}

// Render executes the dataset and renders the result as an HTML table.
func (c *Chart) Render(ctx context.Context) (core.Markup, error) {
	table, err := c.Dataset.ExecuteQuery(ctx)
	if err != nil {
		return "", err
	}
	return render.ToMarkup(ctx, render.Table(c.Type, table))
}
