package commands

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T, path, ddl string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(ddl)
	require.NoError(t, err)
}
