package database

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/Konsultn-Engineering/tablemgr/cache"
	"github.com/Konsultn-Engineering/tablemgr/utils"
	"github.com/pkg/errors"
)

// SqlDatabase implements Database for *sql.DB and serves the mysql, sqlserver
// and sqlite drivers.
type SqlDatabase struct {
	db    *sql.DB
	stmts *cache.StatementCache
}

// NewSqlDatabase wraps db. Prepared insert statements are kept in an LRU of
// stmtCacheSize entries (128 when <= 0).
func NewSqlDatabase(db *sql.DB, stmtCacheSize int) (*SqlDatabase, error) {
	stmts, err := cache.NewStatementCache(stmtCacheSize)
	if err != nil {
		return nil, err
	}
	return &SqlDatabase{db: db, stmts: stmts}, nil
}

// DB returns the wrapped handle.
func (s *SqlDatabase) DB() *sql.DB { return s.db }

// QueryContext executes a query that returns rows.
func (s *SqlDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

// ExecColumns executes the prepared insert once per row inside one
// transaction and commits when every row succeeded.
func (s *SqlDatabase) ExecColumns(ctx context.Context, query string, cols batch.Columns) (res Result, err error) {
	n := cols.Len()
	if n == 0 {
		return Result{}, nil
	}
	res.Rows = n

	stmt, release, err := s.stmts.Acquire(ctx, utils.Fingerprint(query), s.db, query)
	if err != nil {
		return res, errors.Wrap(err, "preparing insert")
	}
	defer release()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txStmt := tx.StmtContext(ctx, stmt)
	for i := 0; i < n; i++ {
		r, execErr := txStmt.ExecContext(ctx, cols.Row(i)...)
		if execErr != nil {
			return res, errors.Wrapf(execErr, "row %d", i)
		}
		if affected, raErr := r.RowsAffected(); raErr == nil {
			res.RowsAffected += affected
		}
	}

	if err = tx.Commit(); err != nil {
		return res, errors.Wrap(err, "committing batch")
	}
	return res, nil
}

// PingContext verifies the connection to the database is alive.
func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases cached statements and closes the database.
func (s *SqlDatabase) Close() error {
	_ = s.stmts.Close()
	return s.db.Close()
}

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

func (s *SqlRows) Next() bool                 { return s.rows.Next() }
func (s *SqlRows) Scan(dest ...any) error     { return s.rows.Scan(dest...) }
func (s *SqlRows) Close() error               { return s.rows.Close() }
func (s *SqlRows) Columns() ([]string, error) { return s.rows.Columns() }
func (s *SqlRows) Err() error                 { return s.rows.Err() }

var _ Database = (*SqlDatabase)(nil)
