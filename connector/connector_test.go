package connector

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Konsultn-Engineering/tablemgr/database"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnection struct{ closed bool }

func (c *fakeConnection) Database() database.Database      { return nil }
func (c *fakeConnection) Dialect() dialect.Dialect         { return dialect.NewSQLiteDialect() }
func (c *fakeConnection) Health(ctx context.Context) error { return nil }
func (c *fakeConnection) Stats() ConnectionStats           { return ConnectionStats{} }
func (c *fakeConnection) Close() error                     { c.closed = true; return nil }

// flakyProvider fails the first failures attempts.
type flakyProvider struct {
	failures int32
	attempts atomic.Int32
}

func (p *flakyProvider) Connect(ctx context.Context, cfg Config) (Connection, error) {
	if p.attempts.Add(1) <= p.failures {
		return nil, errors.New("connection refused")
	}
	return &fakeConnection{}, nil
}

func (p *flakyProvider) Dialect() dialect.Dialect { return dialect.NewSQLiteDialect() }

func TestRegistry(t *testing.T) {
	Register("fake-registry", &flakyProvider{})

	p, ok := Lookup("fake-registry")
	require.True(t, ok)
	assert.Equal(t, "sqlite", p.Dialect().Name())
	assert.Contains(t, Providers(), "fake-registry")

	_, ok = Lookup("missing")
	assert.False(t, ok)
}

func TestOpenUnknownProvider(t *testing.T) {
	_, err := Open(context.Background(), "does-not-exist", Config{})
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestOpen(t *testing.T) {
	Register("fake-open", &flakyProvider{})

	conn, err := Open(context.Background(), "fake-open", Config{})
	require.NoError(t, err)
	require.NotNil(t, conn)
	assert.NoError(t, conn.Health(context.Background()))
}

func TestOpenWithoutRetryFails(t *testing.T) {
	p := &flakyProvider{failures: 1}
	Register("fake-noretry", p)

	_, err := Open(context.Background(), "fake-noretry", Config{})
	assert.Error(t, err)
	assert.Equal(t, int32(1), p.attempts.Load())
}

func TestOpenRetries(t *testing.T) {
	p := &flakyProvider{failures: 2}
	Register("fake-retry", p)

	cfg := Config{Retry: &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}}
	conn, err := Open(context.Background(), "fake-retry", cfg)
	require.NoError(t, err)
	assert.NotNil(t, conn)
	assert.Equal(t, int32(3), p.attempts.Load())
}

func TestOpenRetriesExhausted(t *testing.T) {
	p := &flakyProvider{failures: 10}
	Register("fake-exhausted", p)

	cfg := Config{Retry: &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}}
	_, err := Open(context.Background(), "fake-exhausted", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(3), p.attempts.Load())
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	connect := func(ctx context.Context) (Connection, error) {
		attempts++
		cancel()
		return nil, errors.New("down")
	}

	_, err := retryConnect(ctx, RetryConfig{MaxRetries: 5, BaseDelay: time.Hour}, connect)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, attempts)
}

func TestPoolDefaults(t *testing.T) {
	p := PoolConfig{}.WithDefaults()
	assert.Equal(t, 10, p.MaxOpen)
	assert.Equal(t, 2, p.MaxIdle)
	assert.Equal(t, time.Hour, p.MaxLifetime)
	assert.Equal(t, 30*time.Minute, p.MaxIdleTime)

	p = PoolConfig{MaxOpen: 1, MaxIdle: 5}.WithDefaults()
	assert.Equal(t, 1, p.MaxIdle)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{DSN: "postgres://x"}.Validate())
	assert.NoError(t, Config{Host: "db", Port: 5432}.Validate())
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Host: "db", Port: 70000}.Validate())
}
