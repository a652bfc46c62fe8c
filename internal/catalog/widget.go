package catalog

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// Widget kinds understood by NewWidget.
const (
	WidgetBanner = "banner"
	WidgetChart  = "chart"
)

// Widget is one element of a dashboard.
type Widget interface {
	Kind() string
	Render(ctx context.Context, cat *Catalog) (core.Markup, error)
}

// NewWidget builds the widget variant named by spec.Type. Unrecognized
// kinds produce an UnknownWidget that renders nothing.
func NewWidget(spec WidgetSpec) (Widget, error) {
	settings := spec.Settings()
	switch spec.Type {
	case WidgetBanner:
		err := validation.Validate(settings,
			validation.Required.Error("requires a text key"),
			validation.Map(validation.Key("text", validation.NotNil)).AllowExtraKeys(),
		)
		if err != nil {
			return nil, widgetConfigError(err)
		}
		return &BannerWidget{Text: scalarString(settings["text"])}, nil

	case WidgetChart:
		err := validation.Validate(settings,
			validation.Required.Error("requires a chart key"),
			validation.Map(validation.Key("chart", validation.Required)).AllowExtraKeys(),
		)
		if err != nil {
			return nil, widgetConfigError(err)
		}
		return &ChartWidget{Chart: scalarString(settings["chart"])}, nil

	default:
		return &UnknownWidget{Type: spec.Type, Config: settings}, nil
	}
}

func widgetConfigError(err error) error {
	return invalidConfig(core.KindWidget, "", err)
}

func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Banner is a block of header text.
type Banner struct {
	Text string
}

// Render returns the banner as styled header markup. The text is escaped.
func (b Banner) Render(ctx context.Context) (core.Markup, error) {
	return render.ToMarkup(ctx, render.Banner(b.Text))
}

// BannerWidget displays a Banner.
type BannerWidget struct {
	Text string
}

func (w *BannerWidget) Kind() string { return WidgetBanner }

// Render builds a fresh Banner from the widget text and renders it.
func (w *BannerWidget) Render(ctx context.Context, _ *Catalog) (core.Markup, error) {
	return Banner{Text: w.Text}.Render(ctx)
}

// ChartWidget displays a chart. The chart is looked up by name on every
// render, so it may be declared after the dashboard that uses it.
type ChartWidget struct {
	Chart string
}

func (w *ChartWidget) Kind() string { return WidgetChart }

func (w *ChartWidget) Render(ctx context.Context, cat *Catalog) (core.Markup, error) {
	chart, err := cat.Charts.Lookup(w.Chart)
	if err != nil {
		return "", &core.UnresolvedReferenceError{
			Kind:    core.KindWidget,
			RefKind: core.KindChart,
			Ref:     w.Chart,
			Err:     err,
		}
	}
	return chart.Render(ctx)
}

// UnknownWidget is a widget of an unrecognized kind. It renders to empty markup.
type UnknownWidget struct {
	Type   string
	Config map[string]any
}

func (w *UnknownWidget) Kind() string { return w.Type }

func (w *UnknownWidget) Render(_ context.Context, cat *Catalog) (core.Markup, error) {
	cat.logger.Debug("skipping widget of unknown kind", slog.String("kind", w.Type))
	return "", nil
}
