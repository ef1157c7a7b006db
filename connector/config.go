package connector

import (
	"time"

	"github.com/pkg/errors"
)

// Config represents database connection configuration.
type Config struct {
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database" yaml:"database"`
	Username       string            `json:"username" yaml:"username"`
	Password       string            `json:"password" yaml:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty"`
	// DSN, when set, is handed to the driver as is and the discrete fields
	// above are ignored.
	DSN string `json:"dsn" yaml:"dsn"`
	// StatementCacheSize bounds the prepared statement LRU of database/sql
	// backed providers.
	StatementCacheSize int `json:"statement_cache_size" yaml:"statement_cache_size"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff"`
}

// WithDefaults fills unset pool settings.
func (p PoolConfig) WithDefaults() PoolConfig {
	if p.MaxOpen <= 0 {
		p.MaxOpen = 10
	}
	if p.MaxIdle <= 0 {
		p.MaxIdle = 2
	}
	if p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}
	if p.MaxLifetime == 0 {
		p.MaxLifetime = time.Hour
	}
	if p.MaxIdleTime == 0 {
		p.MaxIdleTime = 30 * time.Minute
	}
	return p
}

// Validate checks that the config can address a server.
func (c Config) Validate() error {
	if c.DSN != "" {
		return nil
	}
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("invalid port: %d", c.Port)
	}
	return nil
}
