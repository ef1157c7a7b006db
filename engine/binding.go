package engine

import (
	"context"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/Konsultn-Engineering/tablemgr/database"
	"github.com/Konsultn-Engineering/tablemgr/query"
	"github.com/Konsultn-Engineering/tablemgr/schema"
	"github.com/pkg/errors"
)

// Result summarizes an InsertRows call.
type Result struct {
	Batches      int   // batches executed successfully
	Rows         int   // rows in those batches
	RowsAffected int64 // as reported by the executor
	Last         database.Result
}

// Binding performs bulk operations against one table using the statement
// derived from its metadata.
type Binding struct {
	engine    *Manager
	name      string
	meta      *schema.TableMeta
	statement string // insert signature rebound for the dialect
	columns   []string
	stats     statsRecorder
}

func newBinding(e *Manager, name string, meta *schema.TableMeta) *Binding {
	return &Binding{
		engine:    e,
		name:      name,
		meta:      meta,
		statement: query.Rebind(meta.InsertSignature, e.dialect),
		columns:   meta.InsertColumns(),
	}
}

func (b *Binding) Name() string { return b.name }

func (b *Binding) Meta() *schema.TableMeta { return b.meta }

// Statement returns the insert statement as sent to the executor.
func (b *Binding) Statement() string { return b.statement }

func (b *Binding) Stats() Stats { return b.stats.snapshot() }

// InsertRows inserts records in batches of the engine's current batch size.
// Batches run one after another; the first failing batch stops the call and
// is reported as *BatchError along with the result of the batches that
// completed. Rolling back completed batches is left to the caller.
//
// An empty records slice completes without contacting the database.
func (b *Binding) InsertRows(ctx context.Context, records []schema.Record) (Result, error) {
	var res Result

	batches, err := batch.Partition(records, b.engine.BatchSize())
	if err != nil {
		return res, err
	}
	total := len(batches)

	for i, rows := range batches {
		if len(rows) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, b.fail(i, total, len(rows), 0, err)
		}

		cols, err := batch.ToColumns(rows, b.meta, b.engine.policy)
		if err == nil {
			err = b.checkColumns(cols)
		}
		if err != nil {
			return res, b.fail(i, total, len(rows), 0, err)
		}

		start := time.Now()
		out, err := b.engine.db.ExecColumns(ctx, b.statement, cols)
		elapsed := time.Since(start)
		if err != nil {
			return res, b.fail(i, total, len(rows), elapsed, err)
		}

		res.Batches++
		res.Rows += len(rows)
		res.RowsAffected += out.RowsAffected
		res.Last = out

		b.notify(BatchEvent{
			Table:    b.name,
			Index:    i,
			Total:    total,
			Rows:     len(rows),
			Affected: out.RowsAffected,
			Duration: elapsed,
		})
		b.engine.logger.Debug().
			Str("table", b.name).
			Int("batch", i+1).
			Int("of", total).
			Int("rows", len(rows)).
			Dur("elapsed", elapsed).
			Msg("batch inserted")
	}
	return res, nil
}

// InsertEntities converts a slice of structs (or maps) to records and
// inserts them.
func (b *Binding) InsertEntities(ctx context.Context, entities any) (Result, error) {
	records, err := schema.RecordsOf(entities)
	if err != nil {
		return Result{}, err
	}
	return b.InsertRows(ctx, records)
}

// UpdateRows is not implemented.
func (b *Binding) UpdateRows(ctx context.Context, records []schema.Record) (Result, error) {
	return Result{}, errors.Wrapf(ErrNotImplemented, "update %s", b.name)
}

// DeleteRows is not implemented.
func (b *Binding) DeleteRows(ctx context.Context, records []schema.Record) (Result, error) {
	return Result{}, errors.Wrapf(ErrNotImplemented, "delete %s", b.name)
}

// checkColumns makes sure the batch binds exactly the statement's columns,
// in order, so values cannot shift onto the wrong placeholders.
func (b *Binding) checkColumns(cols batch.Columns) error {
	if len(cols) == 0 {
		return ErrNoColumns
	}
	names := cols.Names()
	if len(names) == len(b.columns) {
		same := true
		for i := range names {
			if names[i] != b.columns[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return errors.Wrapf(ErrColumnMismatch, "have (%s), want (%s)",
		strings.Join(names, ", "), strings.Join(b.columns, ", "))
}

func (b *Binding) fail(i, total, rows int, elapsed time.Duration, err error) error {
	b.notify(BatchEvent{
		Table:    b.name,
		Index:    i,
		Total:    total,
		Rows:     rows,
		Duration: elapsed,
		Err:      err,
	})
	b.engine.logger.Error().
		Err(err).
		Str("table", b.name).
		Int("batch", i+1).
		Int("of", total).
		Int("rows", rows).
		Msg("batch failed")
	return &BatchError{Table: b.name, Index: i, Total: total, Err: err}
}

func (b *Binding) notify(ev BatchEvent) {
	b.stats.ObserveBatch(ev)
	for _, obs := range b.engine.observers {
		obs.ObserveBatch(ev)
	}
}
