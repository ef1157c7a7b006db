package engine

import (
	"context"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Konsultn-Engineering/tablemgr/batch"
	"github.com/Konsultn-Engineering/tablemgr/database"
	"github.com/Konsultn-Engineering/tablemgr/dialect"
	"github.com/Konsultn-Engineering/tablemgr/query"
	"github.com/Konsultn-Engineering/tablemgr/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Manager binds tables over one database. It owns the table metadata cache,
// the registry of live bindings and the batch size every binding reads when
// an insert starts.
type Manager struct {
	db        database.Executor
	dialect   dialect.Dialect
	cache     *schema.Cache
	policy    batch.Policy
	logger    zerolog.Logger
	observers []Observer
	batchSize atomic.Int64

	mu       sync.RWMutex
	bindings map[string]*Binding

	closer io.Closer
}

// New creates an engine over db. Unless WithDescriber is given, tables are
// described by querying db with the dialect's describe query.
func New(db database.Database, opts ...Option) (*Manager, error) {
	if db == nil {
		return nil, errors.New("engine: nil database")
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.batchSize < 0 {
		return nil, errors.Wrapf(batch.ErrInvalidSize, "got %d", o.batchSize)
	}

	describer := o.describer
	if describer == nil {
		if o.dialect == nil {
			return nil, errors.New("engine: a dialect or describer is required")
		}
		d := database.NewDescriber(db, o.dialect)
		if o.template != "" {
			d = d.WithTemplate(o.template)
		}
		describer = d
	}

	e := &Manager{
		db:        db,
		dialect:   o.dialect,
		cache:     schema.NewCache(describer, query.BuildInsert),
		policy:    o.policy,
		logger:    o.logger,
		observers: o.observers,
		bindings:  make(map[string]*Binding),
	}
	e.batchSize.Store(int64(o.batchSize))
	return e, nil
}

// Describe returns the cached metadata of table, describing it on first use.
// A failed lookup is returned as *schema.LookupError and retried next time.
func (e *Manager) Describe(ctx context.Context, table string) (*schema.TableMeta, error) {
	return e.cache.Describe(ctx, table)
}

// Bind describes table and registers a new binding for it. Binding a name
// again replaces the registered binding; earlier bindings stay usable and
// share the same metadata.
func (e *Manager) Bind(ctx context.Context, table string) (*Binding, error) {
	meta, err := e.Describe(ctx, table)
	if err != nil {
		return nil, err
	}

	b := newBinding(e, table, meta)

	e.mu.Lock()
	_, replaced := e.bindings[table]
	e.bindings[table] = b
	e.mu.Unlock()

	e.logger.Debug().
		Str("table", table).
		Str("statement", b.statement).
		Bool("replaced", replaced).
		Msg("table bound")
	return b, nil
}

// BindEntity binds the table an entity type maps to.
func (e *Manager) BindEntity(ctx context.Context, entity any) (*Binding, error) {
	table, err := schema.TableNameOf(entity)
	if err != nil {
		return nil, err
	}
	return e.Bind(ctx, table)
}

// Binding returns the registered binding for table.
func (e *Manager) Binding(table string) (*Binding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bindings[table]
	return b, ok
}

// Bindings returns the names of all bound tables, sorted.
func (e *Manager) Bindings() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetBatchSize changes the batch size for inserts started afterwards on any
// binding. 0 disables splitting.
func (e *Manager) SetBatchSize(n int) error {
	if n < 0 {
		return errors.Wrapf(batch.ErrInvalidSize, "got %d", n)
	}
	e.batchSize.Store(int64(n))
	return nil
}

func (e *Manager) BatchSize() int {
	return int(e.batchSize.Load())
}

func (e *Manager) Dialect() dialect.Dialect {
	return e.dialect
}

// Close releases the connection when the engine was created by Open.
func (e *Manager) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}
