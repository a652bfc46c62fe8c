package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/firefly/internal/cli/output"
	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// writeMarkup prints rendered markup in the renderer's mode. HTML mode
// prints the markup itself, or a full document when page is set; text and
// markdown modes convert it to markdown.
func writeMarkup(cmd *cobra.Command, r *output.Renderer, kind, name string, m core.Markup, page bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.MarkupOutput{Kind: kind, Name: name, HTML: m.String()})
	case output.ModeHTML:
		if page {
			doc, err := render.Document(cmd.Context(), name, m)
			if err != nil {
				return err
			}
			r.Printf("%s", doc)
			return nil
		}
		r.Println(m.String())
		return nil
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, name))
		r.Println("")
	} else {
		r.Header(1, name)
	}
	if m.IsEmpty() {
		r.Muted("(empty)")
		return nil
	}
	md, err := render.ToMarkdown(m)
	if err != nil {
		return err
	}
	if md == "" {
		r.Muted("(empty)")
		return nil
	}
	r.Println(md)
	return nil
}
