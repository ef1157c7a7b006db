package mysql

import (
	"context"
	"database/sql"
	"net"
	"strconv"

	"github.com/Konsultn-Engineering/tablemgr/connector"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	driver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

// Provider serves both MySQL and TiDB; they differ only in dialect name.
type Provider struct {
	dialect dialect.Dialect
}

func init() {
	connector.Register("mysql", &Provider{dialect: dialect.NewMySQLDialect()})
	connector.Register("tidb", &Provider{dialect: dialect.NewTiDBDialect()})
}

// BuildDSN renders cfg in go-sql-driver format.
func BuildDSN(cfg connector.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := driver.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid mysql config")
	}
	db, err := sql.Open("mysql", BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "opening mysql")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return connector.NewSQLConnection(db, p.dialect, cfg)
}

func (p *Provider) Dialect() dialect.Dialect {
	return p.dialect
}
