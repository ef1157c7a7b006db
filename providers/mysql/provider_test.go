package mysql

import (
	"testing"

	"github.com/Konsultn-Engineering/tablemgr/connector"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(connector.Config{
		Host:     "db",
		Database: "shop",
		Username: "loader",
		Password: "secret",
	})

	parsed, err := driver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "shop", parsed.DBName)
	assert.Equal(t, "loader", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.True(t, parsed.ParseTime)
}

func TestRegistered(t *testing.T) {
	for name, dialect := range map[string]string{"mysql": "mysql", "tidb": "tidb"} {
		p, ok := connector.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, dialect, p.Dialect().Name())
	}
}
