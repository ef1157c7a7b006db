package connector

import (
	"context"
	"sort"
	"sync"

	"github.com/Konsultn-Engineering/tablemgr/database"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/pkg/errors"
)

// Connection is an open handle to one backend.
type Connection interface {
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

// Provider opens connections for one driver. Providers register themselves
// from init in the providers/ packages.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}

// ErrUnknownProvider is returned by Open for unregistered driver names.
var ErrUnknownProvider = errors.New("provider not registered")

var registry = struct {
	mu        sync.RWMutex
	providers map[string]Provider
}{providers: make(map[string]Provider)}

func Register(name string, provider Provider) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.providers[name] = provider
}

func Lookup(name string) (Provider, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	p, ok := registry.providers[name]
	return p, ok
}

// Providers returns the registered driver names, sorted.
func Providers() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.providers))
	for name := range registry.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects through the named provider, honoring cfg.ConnectTimeout and
// retrying per cfg.Retry.
func Open(ctx context.Context, name string, cfg Config) (Connection, error) {
	provider, ok := Lookup(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProvider, "%s (available: %v)", name, Providers())
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	connect := func(ctx context.Context) (Connection, error) {
		return provider.Connect(ctx, cfg)
	}
	if cfg.Retry == nil {
		conn, err := connect(ctx)
		return conn, errors.Wrapf(err, "connecting to %s", name)
	}

	conn, err := retryConnect(ctx, *cfg.Retry, connect)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s after %d attempts", name, cfg.Retry.MaxRetries)
	}
	return conn, nil
}
