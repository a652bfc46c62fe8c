package core

// AdapterConfig holds configuration for connecting to a database.
// It is usually produced from a connection URL by adapter.ParseURL.
type AdapterConfig struct {
	Type     string
	URL      string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
	Params   map[string]any
}
