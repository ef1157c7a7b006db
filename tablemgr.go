// Package tablemgr binds database tables and bulk inserts records into them.
//
// Import the provider packages for the backends in use, then open a manager:
//
//	import _ "github.com/Konsultn-Engineering/tablemgr/providers/postgres"
//
//	m, err := tablemgr.Open(ctx, cfg)
//	users, err := m.Bind(ctx, "users")
//	res, err := users.InsertRows(ctx, records)
package tablemgr

import (
	"context"

	"github.com/Konsultn-Engineering/tablemgr/config"
	"github.com/Konsultn-Engineering/tablemgr/engine"
	"github.com/Konsultn-Engineering/tablemgr/schema"
)

type (
	Manager = engine.Manager
	Binding = engine.Binding
	Record  = schema.Record
	Config  = config.Config
)

// Open connects as configured and returns a manager owning the connection.
func Open(ctx context.Context, cfg *Config, opts ...engine.Option) (*Manager, error) {
	return engine.Open(ctx, cfg, opts...)
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
