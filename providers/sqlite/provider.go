package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Konsultn-Engineering/tablemgr/connector"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

type Provider struct{}

func init() {
	connector.Register("sqlite", &Provider{})
}

// BuildDSN uses cfg.DSN, falling back to cfg.Database as a file path.
func BuildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return cfg.Database
}

func inMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn := BuildDSN(cfg)
	if dsn == "" {
		return nil, errors.New("sqlite requires dsn or database")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	// every connection to :memory: is a separate database
	if inMemory(dsn) {
		cfg.Pool.MaxOpen = 1
		cfg.Pool.MaxIdle = 1
		cfg.Pool.MaxLifetime = -1
		cfg.Pool.MaxIdleTime = -1
	}
	return connector.NewSQLConnection(db, p.Dialect(), cfg)
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLiteDialect()
}
