package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// Table formats accepted by WriteTable.
const (
	TableText     = "text"
	TableMarkdown = "markdown"
	TableCSV      = "csv"
	TableHTML     = "html"
)

// WriteTable writes a query result in the given table format. Text output
// ends with a row count.
func WriteTable(w io.Writer, t *core.Table, format string) error {
	if format == TableText && t.Len() == 0 {
		_, err := fmt.Fprintln(w, "(0 rows)")
		return err
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	tw.AppendHeader(header)

	for _, row := range t.Rows {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = render.FormatValue(v)
		}
		tw.AppendRow(r)
	}

	var out string
	switch format {
	case TableMarkdown:
		out = tw.RenderMarkdown()
	case TableCSV:
		out = tw.RenderCSV()
	case TableHTML:
		out = tw.RenderHTML()
	case TableText:
		out = tw.Render() + fmt.Sprintf("\n(%d rows)", t.Len())
	default:
		return fmt.Errorf("unknown table format %q", format)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
