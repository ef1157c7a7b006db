package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/tablemgr/database"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
)

// sqlConnection adapts a database/sql pool to Connection.
type sqlConnection struct {
	db      *sql.DB
	wrapped *database.SqlDatabase
	dialect dialect.Dialect
}

// NewSQLConnection applies pool settings to db and wraps it for the bulk
// layer. Providers built on database/sql drivers share it.
func NewSQLConnection(db *sql.DB, d dialect.Dialect, cfg Config) (Connection, error) {
	pool := cfg.Pool.WithDefaults()
	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)
	db.SetConnMaxIdleTime(pool.MaxIdleTime)

	wrapped, err := database.NewSqlDatabase(db, cfg.StatementCacheSize)
	if err != nil {
		return nil, err
	}
	return &sqlConnection{db: db, wrapped: wrapped, dialect: d}, nil
}

func (c *sqlConnection) Database() database.Database { return c.wrapped }

func (c *sqlConnection) Dialect() dialect.Dialect { return c.dialect }

func (c *sqlConnection) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *sqlConnection) Stats() ConnectionStats {
	s := c.db.Stats()
	return ConnectionStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}
}

func (c *sqlConnection) Close() error {
	return c.wrapped.Close()
}
