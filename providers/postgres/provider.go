package postgres

import (
	"context"

	"github.com/Konsultn-Engineering/tablemgr/connector"
	"github.com/Konsultn-Engineering/tablemgr/database"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
}

// BuildDSN creates a PostgreSQL connection string.
func BuildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	return connector.NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, port).
		Database(cfg.Database).
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params).
		Build()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid postgres config")
	}
	poolCfg, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "parsing postgres dsn")
	}

	pool := cfg.Pool.WithDefaults()
	poolCfg.MaxConns = int32(pool.MaxOpen)
	poolCfg.MinConns = int32(pool.MaxIdle)
	poolCfg.MaxConnLifetime = pool.MaxLifetime
	poolCfg.MaxConnIdleTime = pool.MaxIdleTime

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, err
	}

	return &connection{pool: pgPool, db: database.NewPgxDatabase(pgPool), dialect: p.Dialect()}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

type connection struct {
	pool    *pgxpool.Pool
	db      *database.PgxDatabase
	dialect dialect.Dialect
}

func (c *connection) Database() database.Database {
	return c.db
}

func (c *connection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *connection) Close() error {
	c.pool.Close()
	return nil
}
