package engine

import (
	"context"

	"github.com/Konsultn-Engineering/tablemgr/config"
	"github.com/Konsultn-Engineering/tablemgr/connector"
	"github.com/Konsultn-Engineering/tablemgr/database"
)

// Open connects with the configured driver and returns a manager using the
// driver's dialect and the bulk settings of cfg. Options are applied after
// the ones derived from cfg. Closing the manager closes the connection.
//
// The driver's provider package must be imported for its side effect of
// registering with connector.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := connector.Open(ctx, cfg.Driver, cfg.Connection)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithDialect(conn.Dialect()),
		WithBatchSize(cfg.Bulk.BatchSize),
		WithPolicy(cfg.Bulk.Policy()),
	}
	if cfg.Bulk.DescribeTemplate != "" {
		tmpl, err := database.LoadTemplate(cfg.Bulk.DescribeTemplate)
		if err != nil {
			conn.Close()
			return nil, err
		}
		base = append(base, WithDescribeTemplate(tmpl))
	}

	m, err := New(conn.Database(), append(base, opts...)...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	m.closer = conn
	return m, nil
}
