package adapter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MemoryPath is the path used by file-based adapters for an in-memory database.
const MemoryPath = ":memory:"

// ParseURL parses a SQLAlchemy-style connection URL into an adapter config.
//
//	sqlite:///relative.db          -> Path "relative.db"
//	sqlite:////abs/path.db         -> Path "/abs/path.db"
//	duckdb:///:memory:             -> Path ":memory:"
//	postgresql://u:p@host:5432/db  -> Host, Port, Database, Username, Password
//
// Query parameters become Options. A value without "://" is a bare file
// path such as ":memory:" and yields an empty Type.
func ParseURL(raw string) (Config, error) {
	if !strings.Contains(raw, "://") {
		return Config{URL: raw, Path: raw, Database: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid connection url: %w", err)
	}

	cfg := Config{
		Type: NormalizeType(u.Scheme),
		URL:  raw,
		Host: u.Hostname(),
	}

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Config{}, fmt.Errorf("invalid port %q in connection url", p)
		}
		cfg.Port = port
	}

	if u.User != nil {
		cfg.Username = u.User.Username()
		cfg.Password, _ = u.User.Password()
	}

	cfg.Path = strings.TrimPrefix(u.Path, "/")
	cfg.Database = cfg.Path

	if q := u.Query(); len(q) > 0 {
		cfg.Options = make(map[string]string, len(q))
		for key := range q {
			cfg.Options[key] = q.Get(key)
		}
	}

	return cfg, nil
}

// EncodeOptions renders options as a sorted query string, or "" when empty.
func EncodeOptions(opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	v := url.Values{}
	for key, val := range opts {
		v.Set(key, val)
	}
	return v.Encode()
}
