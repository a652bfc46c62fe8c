// Package postgres provides a PostgreSQL database adapter for Firefly.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/leapstack-labs/firefly/pkg/adapter"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Defaults applied when the connection url leaves them out.
const (
	DefaultHost    = "localhost"
	DefaultPort    = 5432
	DefaultSSLMode = "disable"
)

// Adapter implements adapter.Adapter for PostgreSQL through pgx.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates an unconnected PostgreSQL adapter. A nil logger means discard.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns "postgres".
func (a *Adapter) DialectName() string {
	return "postgres"
}

// Connect builds the pool. pgx dials lazily, so an unreachable server is
// only reported by the first query.
func (a *Adapter) Connect(_ context.Context, cfg adapter.Config) error {
	a.Logger.Debug("opening postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", ConnString(cfg))
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	a.DB = db
	a.Cfg = cfg
	return nil
}

// ConnString renders cfg as a postgres:// url understood by pgx. The
// driver suffix of the original scheme ("postgresql+psycopg2") is dropped
// and sslmode defaults to disable.
func ConnString(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	q := url.Values{}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	if q.Get("sslmode") == "" {
		q.Set("sslmode", DefaultSSLMode)
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	switch {
	case cfg.Username != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	case cfg.Username != "":
		u.User = url.User(cfg.Username)
	}
	return u.String()
}

var _ adapter.Adapter = (*Adapter)(nil)
