// Package render turns query results and banner text into HTML markup.
//
// Components are templ components so they can be composed into pages by the
// HTTP sink and rendered to plain markup strings for every other sink.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// DefaultChartType is used when a chart does not declare a type.
const DefaultChartType = "table"

// Table renders a result set as a styled HTML table.
// chartType is recorded on the element; every type currently renders as a table.
func Table(chartType string, t *core.Table) templ.Component {
	if chartType == "" {
		chartType = DefaultChartType
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(tableCSS)
		fmt.Fprintf(&b, "<table class=\"dataframe\" data-chart-type=\"%s\">\n", templ.EscapeString(chartType))

		b.WriteString("  <thead>\n    <tr>")
		if t != nil {
			for _, col := range t.Columns {
				b.WriteString("<th>")
				b.WriteString(templ.EscapeString(col))
				b.WriteString("</th>")
			}
		}
		b.WriteString("</tr>\n  </thead>\n  <tbody>\n")

		if t != nil {
			for _, row := range t.Rows {
				b.WriteString("    <tr>")
				for _, v := range row {
					b.WriteString("<td>")
					b.WriteString(templ.EscapeString(FormatValue(v)))
					b.WriteString("</td>")
				}
				b.WriteString("</tr>\n")
			}
		}
		b.WriteString("  </tbody>\n</table>\n")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Banner renders a styled header line. The text is escaped.
func Banner(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, bannerCSS+"\n<div class=\"header\">"+templ.EscapeString(text)+"</div>")
		return err
	})
}

// Page wraps a markup fragment as a standalone HTML document.
func Page(title string, body core.Markup) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title>\n</head>\n<body>\n")
		b.WriteString(body.String())
		b.WriteString("\n</body>\n</html>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ToMarkup renders a component into a markup string.
func ToMarkup(ctx context.Context, c templ.Component) (core.Markup, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return core.Markup(b.String()), nil
}

// Document renders m as a complete HTML page titled title.
func Document(ctx context.Context, title string, m core.Markup) (string, error) {
	page, err := ToMarkup(ctx, Page(title, m))
	if err != nil {
		return "", err
	}
	return page.String(), nil
}

// FormatValue formats a cell value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}
