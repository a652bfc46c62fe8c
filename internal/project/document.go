package project

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/firefly/internal/catalog"
	"github.com/leapstack-labs/firefly/pkg/core"
)

// Top-level document sections, in load order.
const (
	SectionConnections = "connections"
	SectionDatasets    = "datasets"
	SectionCharts      = "charts"
	SectionDashboards  = "dashboards"
)

// Kinds lists the document sections in their canonical order.
var Kinds = []string{SectionConnections, SectionDatasets, SectionCharts, SectionDashboards}

// Document is a parsed dashboard definition file.
type Document struct {
	Path        string
	Connections []catalog.ConnectionSpec
	Datasets    []catalog.DatasetSpec
	Charts      []catalog.ChartSpec
	Dashboards  []catalog.DashboardSpec

	// names holds the declared names per section, in document order.
	names map[string][]string
}

// Names returns the declared names per section, in document order.
// An entry without a name is listed as "".
func (d *Document) Names() map[string][]string {
	out := make(map[string][]string, len(d.names))
	for kind, names := range d.names {
		out[kind] = append([]string(nil), names...)
	}
	return out
}

// ParseDocument parses the YAML content of a dashboard definition file.
// path is used in error messages only.
func ParseDocument(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &core.DocumentParseError{Path: path, Line: yamlErrorLine(err), Err: err}
	}

	sections := make(map[string]*yaml.Node, len(Kinds))
	if len(root.Content) > 0 {
		top := root.Content[0]
		if top.Kind != yaml.MappingNode {
			return nil, &core.DocumentParseError{
				Path: path,
				Line: top.Line,
				Err:  errors.New("document must be a mapping of sections"),
			}
		}
		for i := 0; i+1 < len(top.Content); i += 2 {
			sections[top.Content[i].Value] = top.Content[i+1]
		}
	}

	for _, kind := range Kinds {
		if _, ok := sections[kind]; !ok {
			return nil, &core.MissingSectionError{Section: kind}
		}
	}

	doc := &Document{Path: path, names: make(map[string][]string, len(Kinds))}
	for _, kind := range Kinds {
		entries, err := sectionEntries(path, kind, sections[kind])
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.name)
		}
		doc.names[kind] = names

		if err := doc.decodeSection(path, kind, entries); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

type entry struct {
	line   int
	name   string
	fields map[string]any
}

// sectionEntries returns the mappings of a section. A null section is empty.
func sectionEntries(path, kind string, node *yaml.Node) ([]entry, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, &core.DocumentParseError{
			Path: path,
			Line: node.Line,
			Err:  fmt.Errorf("section %q must be a list", kind),
		}
	}

	entries := make([]entry, 0, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return nil, &core.DocumentParseError{
				Path: path,
				Line: item.Line,
				Err:  fmt.Errorf("%s[%d] must be a mapping", kind, i),
			}
		}
		var fields map[string]any
		if err := item.Decode(&fields); err != nil {
			return nil, &core.DocumentParseError{Path: path, Line: item.Line, Err: err}
		}
		var name string
		if v, ok := fields["name"]; ok && v != nil {
			name = fmt.Sprint(v)
		}
		entries = append(entries, entry{line: item.Line, name: name, fields: fields})
	}
	return entries, nil
}

func (d *Document) decodeSection(path, kind string, entries []entry) error {
	for i, e := range entries {
		var err error
		switch kind {
		case SectionConnections:
			var spec catalog.ConnectionSpec
			if err = decodeSpec(e.fields, &spec); err == nil {
				d.Connections = append(d.Connections, spec)
			}
		case SectionDatasets:
			var spec catalog.DatasetSpec
			if err = decodeSpec(e.fields, &spec); err == nil {
				d.Datasets = append(d.Datasets, spec)
			}
		case SectionCharts:
			var spec catalog.ChartSpec
			if err = decodeSpec(e.fields, &spec); err == nil {
				d.Charts = append(d.Charts, spec)
			}
		case SectionDashboards:
			var spec catalog.DashboardSpec
			if err = decodeSpec(e.fields, &spec); err == nil {
				d.Dashboards = append(d.Dashboards, spec)
			}
		}
		if err != nil {
			return &core.DocumentParseError{
				Path: path,
				Line: e.line,
				Err:  fmt.Errorf("%s[%d]: %w", kind, i, err),
			}
		}
	}
	return nil
}

func decodeSpec(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(fields)
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// yamlErrorLine extracts the first line number reported by a yaml.v3 error.
func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
