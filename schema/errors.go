package schema

import "github.com/pkg/errors"

var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrNotStruct       = errors.New("entity must be a struct or pointer to struct")
	ErrNotSlice        = errors.New("entities must be a slice")
)

// LookupError reports a failed schema lookup for a table. Nothing is cached
// for the table so the next Describe retries.
type LookupError struct {
	Table string
	Err   error
}

func (e *LookupError) Error() string {
	return "describe table " + e.Table + ": " + e.Err.Error()
}

func (e *LookupError) Unwrap() error { return e.Err }
