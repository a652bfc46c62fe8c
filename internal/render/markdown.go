package render

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/leapstack-labs/firefly/pkg/core"
)

var styleBlock = regexp.MustCompile(`(?s)<style>.*?</style>`)

// ToMarkdown converts markup into Markdown for sinks that cannot display HTML.
// Embedded style blocks are dropped before conversion.
func ToMarkdown(m core.Markup) (string, error) {
	html := styleBlock.ReplaceAllString(m.String(), "")
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
