package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Factory builds an unconnected adapter. A nil logger means discard.
type Factory func(logger *slog.Logger) Adapter

// schemes maps every accepted url scheme to its factory. Several schemes
// may share one factory ("postgres" and "postgresql").
var (
	schemesMu sync.RWMutex
	schemes   = make(map[string]Factory)
)

// Register makes factory available under each of the given url schemes.
// Adapter packages call it from init(). Registering a scheme again
// replaces the earlier factory.
func Register(factory Factory, scheme ...string) {
	schemesMu.Lock()
	defer schemesMu.Unlock()
	for _, s := range scheme {
		schemes[NormalizeType(s)] = factory
	}
}

// Lookup returns the factory registered for a scheme or type name.
func Lookup(scheme string) (Factory, bool) {
	schemesMu.RLock()
	defer schemesMu.RUnlock()
	f, ok := schemes[NormalizeType(scheme)]
	return f, ok
}

// Schemes returns every registered scheme, sorted.
func Schemes() []string {
	schemesMu.RLock()
	defer schemesMu.RUnlock()
	out := make([]string, 0, len(schemes))
	for s := range schemes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ErrNoType is returned when neither the url scheme nor the connection
// type names an adapter.
var ErrNoType = errors.New("adapter type not specified")

// Open builds the adapter for cfg.Type and connects it. A handle whose
// Connect fails is closed before the error is returned.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Adapter, error) {
	if cfg.Type == "" {
		return nil, ErrNoType
	}
	factory, ok := Lookup(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: Schemes()}
	}

	handle := factory(logger)
	if err := handle.Connect(ctx, cfg); err != nil {
		_ = handle.Close()
		return nil, err
	}
	return handle, nil
}

// NormalizeType lowercases an adapter type and drops a "+driver" suffix,
// so "PostgreSQL+psycopg2" and "postgresql" name the same adapter.
func NormalizeType(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[:i]
	}
	return name
}

// UnknownAdapterError is returned when no adapter is registered for a scheme.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("no adapter for %q (available: %s)", e.Type, strings.Join(e.Available, ", "))
}
