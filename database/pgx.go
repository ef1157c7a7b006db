package database

import (
	"context"

	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PgxDatabase implements Database for pgxpool.Pool.
type PgxDatabase struct {
	pool *pgxpool.Pool
}

// NewPgxDatabase creates a new PgxDatabase.
func NewPgxDatabase(pool *pgxpool.Pool) *PgxDatabase {
	return &PgxDatabase{pool: pool}
}

// QueryContext executes a query that returns rows.
func (p *PgxDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

// ExecColumns queues one insert per row into a single pgx.Batch and sends it
// in one round trip inside a transaction, so a batch commits or fails as a
// unit. Statements are prepared and cached by pgx itself.
func (p *PgxDatabase) ExecColumns(ctx context.Context, query string, cols batch.Columns) (Result, error) {
	n := cols.Len()
	if n == 0 {
		return Result{}, nil
	}

	b := &pgx.Batch{}
	for i := 0; i < n; i++ {
		b.Queue(query, cols.Row(i)...)
	}

	res := Result{Rows: n}
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		br := tx.SendBatch(ctx, b)
		for i := 0; i < n; i++ {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return errors.Wrapf(err, "row %d", i)
			}
			res.RowsAffected += tag.RowsAffected()
		}
		return br.Close()
	})
	if err != nil {
		return Result{Rows: n}, err
	}
	return res, nil
}

// PingContext verifies the connection to the database is alive.
func (p *PgxDatabase) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the pool.
func (p *PgxDatabase) Close() error {
	p.pool.Close()
	return nil
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

func (p *PgxRows) Next() bool             { return p.rows.Next() }
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }
func (p *PgxRows) Close() error           { p.rows.Close(); return nil }
func (p *PgxRows) Err() error             { return p.rows.Err() }

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

var _ Database = (*PgxDatabase)(nil)
