package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringP("document", "f", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Int("port", 0, "")
	fs.Bool("watch", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	defer ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDocument, cfg.Document)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultPort, cfg.Serve.Port)
	assert.False(t, cfg.Serve.Watch)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FindsDocumentUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DefaultDocument), "connections: []\n")
	nested := filepath.Join(root, "reports", "weekly")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	t.Chdir(nested)
	defer ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultDocument), cfg.Document)
}

func TestLoadConfig_SettingsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".firefly.yaml"), `
document: dashboards.yaml
output: json
serve:
  port: 9000
  watch: true
`)
	t.Chdir(root)
	defer ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "dashboards.yaml"), cfg.Document)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 9000, cfg.Serve.Port)
	assert.True(t, cfg.Serve.Watch)
	assert.Equal(t, filepath.Join(root, ".firefly.yaml"), GetConfigFileUsed())
}

func TestLoadConfig_ExplicitSettingsFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	defer ResetConfig()

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.yaml")
}

func TestLoadConfig_Precedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".firefly.yaml"), "output: json\nserve:\n  port: 9000\n")
	t.Chdir(root)
	defer ResetConfig()

	t.Setenv("FIREFLY_OUTPUT", "markdown")
	t.Setenv("FIREFLY_SERVE_PORT", "9100")

	t.Run("env overrides file", func(t *testing.T) {
		cfg, err := LoadConfig("", nil)
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
		assert.Equal(t, 9100, cfg.Serve.Port)
	})

	t.Run("flags override env", func(t *testing.T) {
		cfg, err := LoadConfig("", newFlags(t, "--output", "html", "--port", "7000", "--watch", "-v"))
		require.NoError(t, err)
		assert.Equal(t, "html", cfg.OutputFormat)
		assert.Equal(t, 7000, cfg.Serve.Port)
		assert.True(t, cfg.Serve.Watch)
		assert.True(t, cfg.Verbose)
	})

	t.Run("unchanged flags keep env", func(t *testing.T) {
		cfg, err := LoadConfig("", newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "markdown", cfg.OutputFormat)
	})
}

func TestLoadConfig_DocumentFlagLocatesSettings(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, ".firefly.yaml"), "output: json\n")
	t.Chdir(t.TempDir())
	defer ResetConfig()

	doc := filepath.Join(project, "sales.yaml")
	cfg, err := LoadConfig("", newFlags(t, "--document", doc))
	require.NoError(t, err)
	assert.Equal(t, doc, cfg.Document)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "output", envKey("FIREFLY_OUTPUT"))
	assert.Equal(t, "document", envKey("FIREFLY_DOCUMENT"))
	assert.Equal(t, "serve.port", envKey("FIREFLY_SERVE_PORT"))
	assert.Equal(t, "serve.watch", envKey("FIREFLY_SERVE_WATCH"))
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := NewLogger(os.Stderr, true)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
