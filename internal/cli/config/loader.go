package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey is used to store the logger in the command context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for the document.
const maxUpwardSearchLevels = 10

// envPrefix is the prefix of environment variables read as settings.
const envPrefix = "FIREFLY_"

var (
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flag names to setting keys where they differ.
var flagKeys = map[string]string{
	"port":  "serve.port",
	"watch": "serve.watch",
}

// documentExistsIn checks if the default document exists in dir.
func documentExistsIn(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, DefaultDocument))
	return err == nil
}

// findDocumentUpward searches upward from startDir for the default document.
// Returns "" if not found within maxUpwardSearchLevels.
func findDocumentUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if documentExistsIn(dir) {
			return filepath.Join(dir, DefaultDocument)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// findSettingsFile returns the settings file to load, or "".
// Priority: explicit path > settings file in dir.
func findSettingsFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range SettingsFiles {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// LoadConfig loads settings from defaults, the settings file, environment
// variables and flags, in increasing order of precedence.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"document":    DefaultDocument,
		"output":      DefaultOutput,
		"verbose":     false,
		"serve.port":  DefaultPort,
		"serve.watch": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// The settings file lives next to the document, so locate the document
	// first from the flag or by searching upward from the working directory.
	baseDir, _ := os.Getwd()
	if doc := documentFlag(flags); doc != "" {
		if abs, err := filepath.Abs(doc); err == nil {
			baseDir = filepath.Dir(abs)
		}
	} else if found := findDocumentUpward(baseDir); found != "" {
		baseDir = filepath.Dir(found)
		_ = k.Set("document", found)
	}

	configFileUsed = findSettingsFile(cfgFile, baseDir)
	if configFileUsed != "" {
		fk := koanf.New(".")
		if err := fk.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		// A relative document path in the settings file is relative to the file.
		if doc := fk.String("document"); doc != "" {
			_ = fk.Set("document", resolvePathRelativeTo(doc, filepath.Dir(configFileUsed)))
		}
		if err := k.Merge(fk); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", configFileUsed, err)
		}
	}

	// FIREFLY_SERVE_PORT -> serve.port, FIREFLY_OUTPUT -> output
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	if rest, ok := strings.CutPrefix(key, "serve_"); ok {
		return "serve." + rest
	}
	return key
}

func documentFlag(flags *pflag.FlagSet) string {
	if flags == nil || !flags.Changed("document") {
		return ""
	}
	v, _ := flags.GetString("document")
	return v
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// GetConfigFileUsed returns the path to the settings file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the most recently loaded settings, or defaults.
func GetCurrentConfig() *Config {
	if currentConfig != nil {
		return currentConfig
	}
	return &Config{
		Document:     DefaultDocument,
		OutputFormat: DefaultOutput,
		Serve:        ServeConfig{Port: DefaultPort},
	}
}

// ResetConfig clears the loaded settings. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// NewLogger builds the CLI logger: text on w, debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
