package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/firefly/internal/cli/config"
	"github.com/leapstack-labs/firefly/internal/cli/output"
	"github.com/leapstack-labs/firefly/internal/cli/testutil"

	_ "github.com/leapstack-labs/firefly/pkg/adapters/sqlite"
)

// run executes the root command against the test document and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := testutil.SetupTestDocument(t)
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_ListJSON(t *testing.T) {
	out, err := run(t, "list", "-o", "json")
	require.NoError(t, err)

	var list output.ListOutput
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, []string{"mem"}, list.Connections)
	assert.Equal(t, []string{"regions", "empty"}, list.Datasets)
	assert.Equal(t, []string{"revenue"}, list.Charts)
	assert.Equal(t, []string{"overview"}, list.Dashboards)
}

func TestRoot_ListMarkdownWhenPiped(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "## Datasets")
	assert.Less(t, strings.Index(out, "- regions"), strings.Index(out, "- empty"))
}

func TestRoot_Dataset(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "markdown",
			args: []string{"dataset", "regions"},
			want: []string{"## regions", "| north | 15.25 |", "| south | 20.25 |"},
		},
		{
			name: "text",
			args: []string{"dataset", "regions", "-o", "text"},
			want: []string{"north", "(2 rows)"},
		},
		{
			name: "csv",
			args: []string{"dataset", "regions", "--format", "csv"},
			want: []string{"region,total", "north,15.25"},
		},
		{
			name: "empty",
			args: []string{"dataset", "empty", "-o", "text"},
			want: []string{"(0 rows)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRoot_DatasetJSON(t *testing.T) {
	out, err := run(t, "dataset", "regions", "-o", "json")
	require.NoError(t, err)

	var ds output.DatasetOutput
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	assert.Equal(t, []string{"region", "total"}, ds.Columns)
	assert.Equal(t, 2, ds.RowCount)
	assert.Equal(t, "south", ds.Rows[1]["region"])
}

func TestRoot_DashboardHTMLPage(t *testing.T) {
	out, err := run(t, "dashboard", "overview", "-o", "html", "--page")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>overview</title>")
	assert.Less(t, strings.Index(out, ">Sales</div>"), strings.Index(out, "<td>north</td>"))
}

func TestRoot_ChartMarkdown(t *testing.T) {
	out, err := run(t, "chart", "revenue")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# revenue")
	assert.Contains(t, out, "north")
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown dataset", args: []string{"dataset", "missing"}, wantErr: `dataset "missing" not found`},
		{name: "unknown chart", args: []string{"chart", "missing"}, wantErr: `chart "missing" not found`},
		{name: "bad format", args: []string{"dataset", "regions", "--format", "xml"}, wantErr: "unsupported format"},
		{name: "missing document", args: []string{"list", "-f", "nope.yaml"}, wantErr: "nope.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRoot_DocumentFlag(t *testing.T) {
	dir := testutil.SetupTestDocument(t)
	out, err := run(t, "list", "-o", "json", "--document", filepath.Join(dir, "firefly.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, `"overview"`)
}

func TestCompletionCommand(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "firefly")
}
