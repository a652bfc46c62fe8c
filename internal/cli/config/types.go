// Package config loads the firefly CLI settings.
//
// Settings are layered with koanf: defaults, then the optional settings file
// (.firefly.yaml), then FIREFLY_* environment variables, then explicit flags.
package config

// Default setting values.
const (
	DefaultDocument = "firefly.yaml"
	DefaultOutput   = "auto" // TTY=text, non-TTY=markdown
	DefaultPort     = 8765
)

// SettingsFiles are the settings file names looked up next to the document.
var SettingsFiles = []string{".firefly.yaml", ".firefly.yml"}

// Config holds the CLI settings.
type Config struct {
	Document     string      `koanf:"document"`
	OutputFormat string      `koanf:"output"`
	Verbose      bool        `koanf:"verbose"`
	Serve        ServeConfig `koanf:"serve"`
}

// ServeConfig holds the settings of the serve command.
type ServeConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}
