package project

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/firefly/internal/catalog"
	"github.com/leapstack-labs/firefly/internal/render"
	"github.com/leapstack-labs/firefly/internal/testutil"
	"github.com/leapstack-labs/firefly/pkg/core"

	_ "github.com/leapstack-labs/firefly/pkg/adapters/sqlite"
)

// seedShop creates a sqlite database with a small orders table and returns
// its connection url.
func seedShop(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER, region TEXT, amount REAL)`,
		`INSERT INTO orders VALUES (1, 'north', 10.5)`,
		`INSERT INTO orders VALUES (2, 'south', 20.25)`,
		`INSERT INTO orders VALUES (3, 'north', 4.75)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return "sqlite:///" + path
}

const shopDocument = `
connections:
  - name: shop
    description: Shop database
    config:
      url: %s

datasets:
  - name: zeta
    description: All orders
    query: SELECT id, region, amount FROM orders ORDER BY id
    connection: shop
  - name: alpha
    description: Revenue per region
    query: SELECT region, SUM(amount) AS total FROM orders GROUP BY region ORDER BY region
    connection: shop

charts:
  - name: orders_table
    description: Orders
    type: table
    dataset: zeta
  - name: revenue
    description: Revenue
    type: bar
    dataset: alpha

dashboards:
  - name: overview
    description: Sales overview
    widgets:
      - type: banner
        text: Sales
      - type: chart
        chart: revenue
      - type: sparkline
        size: 3
`

func loadShop(t *testing.T) *Project {
	t.Helper()
	path := testutil.WriteFile(t, "firefly.yaml", fmt.Sprintf(shopDocument, seedShop(t)))
	p, err := Load(context.Background(), path, WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestLoad(t *testing.T) {
	p := loadShop(t)

	require.Len(t, p.Connections(), 1)
	require.Len(t, p.Datasets(), 2)
	require.Len(t, p.Charts(), 2)
	require.Len(t, p.Dashboards(), 1)

	assert.Equal(t, "Shop database", p.Connections()[0].Description)
	assert.Equal(t, "sqlite", p.Connections()[0].Type)
	assert.Equal(t, "bar", p.Charts()[1].Type)
	assert.Len(t, p.Dashboards()[0].Widgets, 3)
	assert.Equal(t, 2, p.Catalog().Datasets.Count())
}

func TestProject_List(t *testing.T) {
	p := loadShop(t)

	assert.Equal(t, map[string][]string{
		"connections": {"shop"},
		"datasets":    {"zeta", "alpha"},
		"charts":      {"orders_table", "revenue"},
		"dashboards":  {"overview"},
	}, p.List())
}

func TestProject_ListReflectsDeclarationNotRegistry(t *testing.T) {
	url := seedShop(t)
	doc := fmt.Sprintf(`
connections:
  - name: shop
    config: {url: %q}
datasets:
  - {name: b, query: SELECT 1, connection: shop}
  - {name: a, query: SELECT 2, connection: shop}
  - {name: b, query: SELECT 3, connection: shop}
charts: []
dashboards: []
`, url)
	path := testutil.WriteFile(t, "firefly.yaml", doc)
	p, err := Load(context.Background(), path)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, []string{"b", "a", "b"}, p.List()["datasets"])
	assert.Equal(t, 2, p.Catalog().Datasets.Count())

	// The later declaration wins in the registry.
	table, err := p.ShowDataset(context.Background(), "b")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.EqualValues(t, 3, table.Rows[0][0])
}

func TestProject_ShowDataset(t *testing.T) {
	p := loadShop(t)

	table, err := p.ShowDataset(context.Background(), "zeta")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "region", "amount"}, table.Columns)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "north", table.Rows[0][1])
	assert.Equal(t, 20.25, table.Rows[1][2])

	_, err = p.ShowDataset(context.Background(), "missing")
	var notFound *core.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, core.KindDataset, notFound.Kind)
}

func TestProject_ShowChart(t *testing.T) {
	p := loadShop(t)

	m, err := p.ShowChart(context.Background(), "revenue")
	require.NoError(t, err)
	assert.Contains(t, m.String(), `data-chart-type="bar"`)
	assert.Contains(t, m.String(), "<th>region</th><th>total</th>")
	assert.Contains(t, m.String(), "<td>north</td><td>15.25</td>")
	assert.Contains(t, m.String(), "<td>south</td><td>20.25</td>")

	_, err = p.ShowChart(context.Background(), "nope")
	var notFound *core.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestProject_ShowDashboard(t *testing.T) {
	p := loadShop(t)
	ctx := context.Background()

	banner, err := render.ToMarkup(ctx, render.Banner("Sales"))
	require.NoError(t, err)
	chart, err := p.ShowChart(ctx, "revenue")
	require.NoError(t, err)

	m, err := p.ShowDashboard(ctx, "overview")
	require.NoError(t, err)
	assert.Equal(t, banner.String()+chart.String(), m.String())

	page, err := render.Document(ctx, "overview", m)
	require.NoError(t, err)
	assert.Contains(t, page, "<title>overview</title>")
}

func TestProject_NestedWidgetConfig(t *testing.T) {
	path := testutil.WriteFile(t, "firefly.yaml", fmt.Sprintf(`
connections:
  - name: shop
    config: {url: %q}
datasets:
  - {name: alpha, query: SELECT region FROM orders ORDER BY id, connection: shop}
charts:
  - {name: c1, dataset: alpha}
dashboards:
  - name: overview
    widgets:
      - {type: banner, config: {text: Hi}}
      - {type: chart, config: {chart: c1}}
`, seedShop(t)))
	p, err := Load(context.Background(), path, WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	defer p.Close()

	m, err := p.ShowDashboard(context.Background(), "overview")
	require.NoError(t, err)
	assert.Contains(t, m.String(), ">Hi</div>")
	assert.Contains(t, m.String(), "<td>north</td>")
}

func TestLoad_WithCatalog(t *testing.T) {
	cat := catalog.New(testutil.NewTestLogger(t))
	defer cat.Close()

	base := testutil.WriteFile(t, "base.yaml", fmt.Sprintf(`
connections:
  - name: shop
    config: {url: %q}
datasets:
charts:
dashboards:
`, seedShop(t)))
	extra := testutil.WriteFile(t, "extra.yaml", `
connections: []
datasets:
  - {name: count, query: SELECT COUNT(*) AS n FROM orders, connection: shop}
charts: []
dashboards: []
`)

	_, err := Load(context.Background(), base, WithCatalog(cat))
	require.NoError(t, err)
	p, err := Load(context.Background(), extra, WithCatalog(cat))
	require.NoError(t, err)

	assert.Same(t, cat, p.Catalog())
	table, err := p.ShowDataset(context.Background(), "count")
	require.NoError(t, err)
	assert.EqualValues(t, 3, table.Rows[0][0])
}

func TestLoad_WithCatalogRollsBackOnFailure(t *testing.T) {
	cat := catalog.New(testutil.NewTestLogger(t))
	defer cat.Close()

	broken := testutil.WriteFile(t, "broken.yaml", fmt.Sprintf(`
connections:
  - name: shop
    config: {url: %q}
datasets:
  - {name: orders, query: SELECT id FROM orders, connection: shop}
  - {name: lost, query: SELECT 1, connection: nope}
charts: []
dashboards: []
`, seedShop(t)))
	_, err := Load(context.Background(), broken, WithCatalog(cat))
	var unresolved *core.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)

	assert.False(t, cat.Connections.Has("shop"))
	assert.False(t, cat.Datasets.Has("orders"))

	dependent := testutil.WriteFile(t, "dependent.yaml", `
connections: []
datasets:
  - {name: count, query: SELECT COUNT(*) AS n FROM orders, connection: shop}
charts: []
dashboards: []
`)
	_, err = Load(context.Background(), dependent, WithCatalog(cat))
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "shop", unresolved.Ref)
}

func TestLoad_WithCatalogKeepsEarlierEntriesOnFailure(t *testing.T) {
	cat := catalog.New(testutil.NewTestLogger(t))
	defer cat.Close()
	url := seedShop(t)

	good := testutil.WriteFile(t, "good.yaml", fmt.Sprintf(`
connections:
  - name: shop
    config: {url: %q}
datasets:
  - {name: count, query: SELECT COUNT(*) AS n FROM orders, connection: shop}
charts: []
dashboards: []
`, url))
	p, err := Load(context.Background(), good, WithCatalog(cat))
	require.NoError(t, err)

	// Replaces shop and count before failing on the chart.
	bad := testutil.WriteFile(t, "bad.yaml", fmt.Sprintf(`
connections:
  - name: shop
    config: {url: %q}
datasets:
  - {name: count, query: SELECT 0 AS n, connection: shop}
charts:
  - {name: broken, dataset: missing}
dashboards: []
`, url))
	_, err = Load(context.Background(), bad, WithCatalog(cat))
	require.Error(t, err)

	table, err := p.ShowDataset(context.Background(), "count")
	require.NoError(t, err)
	assert.EqualValues(t, 3, table.Rows[0][0])
	assert.False(t, cat.Charts.Has("broken"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		assert func(t *testing.T, err error)
	}{
		{
			name: "malformed yaml",
			doc:  "connections:\n\t- name: shop\n",
			assert: func(t *testing.T, err error) {
				var parseErr *core.DocumentParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Positive(t, parseErr.Line)
			},
		},
		{
			name: "empty document",
			doc:  "",
			assert: func(t *testing.T, err error) {
				var missing *core.MissingSectionError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "connections", missing.Section)
			},
		},
		{
			name: "missing charts section",
			doc:  "connections: []\ndatasets: []\ndashboards: []\n",
			assert: func(t *testing.T, err error) {
				var missing *core.MissingSectionError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, "charts", missing.Section)
			},
		},
		{
			name: "top level is a list",
			doc:  "- connections\n",
			assert: func(t *testing.T, err error) {
				var parseErr *core.DocumentParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, 1, parseErr.Line)
			},
		},
		{
			name: "section is not a list",
			doc:  "connections: []\ndatasets: 3\ncharts: []\ndashboards: []\n",
			assert: func(t *testing.T, err error) {
				var parseErr *core.DocumentParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, 2, parseErr.Line)
				assert.Contains(t, err.Error(), `"datasets"`)
			},
		},
		{
			name: "entry is not a mapping",
			doc:  "connections: []\ndatasets: []\ncharts:\n  - revenue\ndashboards: []\n",
			assert: func(t *testing.T, err error) {
				var parseErr *core.DocumentParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, 4, parseErr.Line)
			},
		},
		{
			name: "dataset with undefined connection",
			doc:  "connections: []\ndatasets:\n  - {name: d1, query: SELECT 1, connection: c9}\ncharts: []\ndashboards: []\n",
			assert: func(t *testing.T, err error) {
				var refErr *core.UnresolvedReferenceError
				require.ErrorAs(t, err, &refErr)
				assert.Equal(t, "d1", refErr.Name)
				assert.Equal(t, "c9", refErr.Ref)
			},
		},
		{
			name: "banner without text",
			doc:  "connections: []\ndatasets: []\ncharts: []\ndashboards:\n  - name: d\n    widgets:\n      - type: banner\n",
			assert: func(t *testing.T, err error) {
				var cfgErr *core.InvalidConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, core.KindWidget, cfgErr.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "firefly.yaml", tt.doc)
			p, err := Load(context.Background(), path, WithLogger(testutil.NewTestLogger(t)))
			require.Error(t, err)
			assert.Nil(t, p)
			tt.assert(t, err)
		})
	}
}

func TestLoad_ReadFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := Load(context.Background(), missing)
	require.Error(t, err)

	var pathErr *fs.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, missing, pathErr.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_NullSectionsAreEmpty(t *testing.T) {
	path := testutil.WriteFile(t, "firefly.yaml", "connections:\ndatasets:\ncharts: ~\ndashboards: null\n")
	p, err := Load(context.Background(), path)
	require.NoError(t, err)
	defer p.Close()

	for _, kind := range Kinds {
		assert.Empty(t, p.List()[kind], kind)
	}
}
