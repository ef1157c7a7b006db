package database

import (
	"context"

	"github.com/Konsultn-Engineering/tablemgr/batch"
)

// Querier runs plain queries; the describer uses it to read column metadata.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
}

// Executor runs insert statements for a table binding. ExecColumns
// inserts every row of a column-major batch with the given statement and
// owns the commit boundary of that batch.
type Executor interface {
	ExecColumns(ctx context.Context, query string, cols batch.Columns) (Result, error)
}

type Database interface {
	Querier
	Executor
	PingContext(ctx context.Context) error
	Close() error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

// Result summarizes one executed batch.
type Result struct {
	Rows         int   // rows submitted
	RowsAffected int64 // as reported by the driver
}
