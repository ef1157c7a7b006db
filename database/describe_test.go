package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Test Helpers
// =========================================================================

type stubRows struct {
	columns []string
	rows    [][]any
	pos     int
}

func (r *stubRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return errors.Errorf("scan: %d destinations for %d values", len(dest), len(row))
	}
	for i, v := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *sql.NullString:
			if v == nil {
				*d = sql.NullString{}
			} else {
				*d = sql.NullString{String: v.(string), Valid: true}
			}
		case *int64:
			*d = int64(v.(int))
		case *any:
			*d = v
		default:
			return errors.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func (r *stubRows) Close() error               { return nil }
func (r *stubRows) Columns() ([]string, error) { return r.columns, nil }
func (r *stubRows) Err() error                 { return nil }

type recordingQuerier struct {
	query   string
	args    []any
	columns []string
	rows    [][]any
	err     error
}

func (q *recordingQuerier) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	q.query, q.args = query, args
	if q.err != nil {
		return nil, q.err
	}
	return &stubRows{columns: q.columns, rows: q.rows}, nil
}

// =========================================================================
// Describer Tests
// =========================================================================

func TestDescriberDescribeColumns(t *testing.T) {
	q := &recordingQuerier{rows: [][]any{
		{"id", "integer", 0, 1, 0},
		{"name", "text", 0, 0, 0},
		{"note", nil, 1, 0, 0},
		{"slug", "text", 1, 0, 1},
	}}
	d := NewDescriber(q, dialect.NewPostgresDialect())

	cols, err := d.DescribeColumns(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, cols, 4)

	wantQuery, wantArgs := dialect.NewPostgresDialect().DescribeColumns("users")
	assert.Equal(t, wantQuery, q.query)
	assert.Equal(t, wantArgs, q.args)

	assert.Equal(t, "id", cols[0].Name)
	assert.True(t, cols[0].IsIdentity)
	assert.False(t, cols[0].Nullable)
	assert.Equal(t, 1, cols[0].Ordinal)

	assert.Equal(t, "", cols[2].DataType)
	assert.True(t, cols[2].Nullable)

	assert.True(t, cols[3].IsComputed)
	assert.Equal(t, 4, cols[3].Ordinal)
}

func TestDescriberUnknownTable(t *testing.T) {
	d := NewDescriber(&recordingQuerier{}, dialect.NewMySQLDialect())
	_, err := d.DescribeColumns(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrTableNotFound))
}

func TestDescriberQueryError(t *testing.T) {
	cause := errors.New("permission denied")
	d := NewDescriber(&recordingQuerier{err: cause}, dialect.NewMySQLDialect())
	_, err := d.DescribeColumns(context.Background(), "users")
	assert.True(t, errors.Is(err, cause))
}

func TestDescriberTemplate(t *testing.T) {
	tmpl := "SELECT name, type, 1, 0, 0 FROM cols WHERE tbl = <table_name> OR alias = <table_name>"

	tests := []struct {
		name     string
		dialect  dialect.Dialect
		expected string
	}{
		{"Postgres", dialect.NewPostgresDialect(), "SELECT name, type, 1, 0, 0 FROM cols WHERE tbl = $1 OR alias = $2"},
		{"MSSQL", dialect.NewMSSQLDialect(), "SELECT name, type, 1, 0, 0 FROM cols WHERE tbl = @p1 OR alias = @p2"},
		{"SQLite", dialect.NewSQLiteDialect(), "SELECT name, type, 1, 0, 0 FROM cols WHERE tbl = ? OR alias = ?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &recordingQuerier{rows: [][]any{{"a", "int", 1, 0, 0}}}
			d := NewDescriber(q, tt.dialect).WithTemplate(tmpl)

			_, err := d.DescribeColumns(context.Background(), "orders")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, q.query)
			assert.Equal(t, []any{"orders", "orders"}, q.args)
		})
	}
}

func TestDescriberExtraColumns(t *testing.T) {
	q := &recordingQuerier{
		columns: []string{"name", "type", "nullable", "identity", "computed", "collation", "comment"},
		rows: [][]any{
			{"id", "int", 0, 1, 0, nil, "surrogate key"},
			{"title", "text", 1, 0, 0, "utf8mb4_bin", nil},
		},
	}
	tmpl := "SELECT name, type, nullable, identity, computed, collation, comment FROM cols WHERE tbl = <table_name>"

	cols, err := NewDescriber(q, dialect.NewMySQLDialect()).WithTemplate(tmpl).DescribeColumns(context.Background(), "posts")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.True(t, cols[0].IsIdentity)
	assert.Equal(t, map[string]any{"collation": nil, "comment": "surrogate key"}, cols[0].Extra)
	assert.Equal(t, map[string]any{"collation": "utf8mb4_bin", "comment": nil}, cols[1].Extra)
}

func TestDescriberNoExtraColumns(t *testing.T) {
	q := &recordingQuerier{
		columns: []string{"name", "type", "nullable", "identity", "computed"},
		rows:    [][]any{{"id", "int", 0, 1, 0}},
	}
	cols, err := NewDescriber(q, dialect.NewPostgresDialect()).DescribeColumns(context.Background(), "t")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Nil(t, cols[0].Extra)
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "describe.sql")
	require.NoError(t, os.WriteFile(good, []byte("SELECT 1 WHERE t = <table_name>"), 0o644))
	tmpl, err := LoadTemplate(good)
	require.NoError(t, err)
	assert.Contains(t, tmpl, TableNameMarker)

	bad := filepath.Join(dir, "bad.sql")
	require.NoError(t, os.WriteFile(bad, []byte("SELECT 1"), 0o644))
	_, err = LoadTemplate(bad)
	assert.Error(t, err)

	_, err = LoadTemplate(filepath.Join(dir, "missing.sql"))
	assert.Error(t, err)
}
