package duckdb

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Params are the DuckDB options a connection may carry next to its url:
//
//	config:
//	  url: duckdb:///warehouse.duckdb
//	  read_only: true
//	  extensions: [httpfs]
//	  settings:
//	    threads: 4
type Params struct {
	ReadOnly   bool              `mapstructure:"read_only"`
	Extensions []string          `mapstructure:"extensions"`
	Settings   map[string]string `mapstructure:"settings"`
}

// ParseParams decodes Params from a connection's config mapping. Keys
// DuckDB does not use are ignored; scalar settings are coerced to strings.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}
	return p, nil
}

// SetupStatements returns the statements run once after the database is
// opened: extensions first, then settings sorted by name.
func (p *Params) SetupStatements() []string {
	var stmts []string
	for _, ext := range p.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("INSTALL %s", ext), fmt.Sprintf("LOAD %s", ext))
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		stmts = append(stmts, fmt.Sprintf("SET GLOBAL %s = '%s'", k, strings.ReplaceAll(p.Settings[k], "'", "''")))
	}
	return stmts
}
