package mssql

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/tablemgr/connector"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	_ "github.com/denisenkom/go-mssqldb"
	"github.com/pkg/errors"
)

type Provider struct{}

func init() {
	connector.Register("mssql", &Provider{})
}

// BuildDSN creates a sqlserver:// URL; the database travels as a query
// parameter.
func BuildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = 1433
	}
	b := connector.NewDSNBuilder("sqlserver").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, port).
		Database(cfg.Database).
		DatabaseParam("database").
		Params(cfg.Params)
	if cfg.SSLMode == "disable" {
		b.Param("encrypt", "disable")
	}
	return b.Build()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sqlserver config")
	}
	db, err := sql.Open("sqlserver", BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlserver")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return connector.NewSQLConnection(db, p.Dialect(), cfg)
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewMSSQLDialect()
}
