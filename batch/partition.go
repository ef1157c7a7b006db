package batch

import (
	"github.com/Konsultn-Engineering/tablemgr/schema"
	"github.com/pkg/errors"
)

// ErrInvalidSize is returned for negative batch sizes.
var ErrInvalidSize = errors.New("batch size must not be negative")

// Partition splits records into consecutive chunks of size, preserving order.
// A size of 0 disables splitting: the result is exactly one batch holding all
// records, even when there are none. For size > 0 an empty input yields no
// batches and only the last batch may be short.
//
// The returned batches share the backing array of records.
func Partition(records []schema.Record, size int) ([][]schema.Record, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "got %d", size)
	}
	if size == 0 {
		return [][]schema.Record{records}, nil
	}

	batches := make([][]schema.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end:end])
	}
	return batches, nil
}

// Count returns how many batches Partition produces for n records.
func Count(n, size int) int {
	if size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
