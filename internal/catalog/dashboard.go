package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/firefly/pkg/core"
)

// Dashboard is an ordered list of widgets.
type Dashboard struct {
	Name        string
	Description string
	Widgets     []Widget
}

// NewDashboard builds every widget in order and registers the dashboard.
// The first widget that fails to build aborts the dashboard.
func NewDashboard(cat *Catalog, spec DashboardSpec) (*Dashboard, error) {
	if err := spec.Validate(); err != nil {
		return nil, invalidConfig(core.KindDashboard, spec.Name, err)
	}

	widgets := make([]Widget, 0, len(spec.Widgets))
	for i, ws := range spec.Widgets {
		w, err := NewWidget(ws)
		if err != nil {
			return nil, fmt.Errorf("dashboard %q: widget %d (%s): %w", spec.Name, i, ws.Type, err)
		}
		if _, ok := w.(*UnknownWidget); ok {
			cat.logger.Warn("unknown widget kind will render empty",
				slog.String("dashboard", spec.Name),
				slog.Int("widget", i),
				slog.String("kind", ws.Type))
		}
		widgets = append(widgets, w)
	}

	d := &Dashboard{
		Name:        spec.Name,
		Description: spec.Description,
		Widgets:     widgets,
	}
	cat.Dashboards.Register(d.Name, d)
	return d, nil
}

// Render renders every widget in order and concatenates the results.
// Any widget failure fails the whole dashboard.
func (d *Dashboard) Render(ctx context.Context, cat *Catalog) (core.Markup, error) {
	var b strings.Builder
	for i, w := range d.Widgets {
		m, err := w.Render(ctx, cat)
		if err != nil {
			return "", fmt.Errorf("dashboard %q: widget %d (%s): %w", d.Name, i, w.Kind(), err)
		}
		b.WriteString(m.String())
	}
	return core.Markup(b.String()), nil
}
