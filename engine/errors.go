package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotImplemented is returned by the bulk operations that have no
	// implementation yet.
	ErrNotImplemented = errors.New("operation not implemented")
	// ErrColumnMismatch is returned when the columns a batch carries do not
	// line up with the placeholders of the insert statement.
	ErrColumnMismatch = errors.New("batch columns do not match insert statement")
	// ErrNoColumns is returned for a non-empty batch without insertable data.
	ErrNoColumns = errors.New("batch has no insertable columns")
)

// BatchError reports the batch at which InsertRows stopped. Batches before
// Index were executed, batches after it were not submitted.
type BatchError struct {
	Table string
	Index int // zero based
	Total int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("insert into %s: batch %d/%d: %v", e.Table, e.Index+1, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
