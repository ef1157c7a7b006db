package schema

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Cache maps table names to their metadata. Entries are populated on first
// use and never evicted or refreshed.
type Cache struct {
	describer Describer
	signature SignatureFunc

	mu     sync.RWMutex
	tables map[string]*TableMeta
	group  singleflight.Group
}

// NewCache returns an empty cache that describes tables through d and builds
// insert signatures with sig.
func NewCache(d Describer, sig SignatureFunc) *Cache {
	return &Cache{
		describer: d,
		signature: sig,
		tables:    make(map[string]*TableMeta),
	}
}

// Describe returns the metadata of table, consulting the describer only on a
// miss. Concurrent misses for the same table share one lookup. The shared
// lookup is detached from any single caller's cancellation; each caller
// stops waiting when its own ctx is done.
func (c *Cache) Describe(ctx context.Context, table string) (*TableMeta, error) {
	if meta, ok := c.Get(table); ok {
		return meta, nil
	}

	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(table, func() (any, error) {
		if meta, ok := c.Get(table); ok {
			return meta, nil
		}
		cols, err := c.describer.DescribeColumns(lookupCtx, table)
		if err != nil {
			return nil, &LookupError{Table: table, Err: err}
		}
		meta, err := BuildMeta(table, cols, c.signature)
		if err != nil {
			return nil, &LookupError{Table: table, Err: err}
		}

		c.mu.Lock()
		c.tables[table] = meta
		c.mu.Unlock()
		return meta, nil
	})

	select {
	case <-ctx.Done():
		return nil, &LookupError{Table: table, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*TableMeta), nil
	}
}

// Get returns the cached metadata without describing.
func (c *Cache) Get(table string) (*TableMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.tables[table]
	return meta, ok
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// BuildMeta assembles table metadata from described columns.
func BuildMeta(table string, cols []Column, sig SignatureFunc) (*TableMeta, error) {
	columns := make([]Column, len(cols))
	byName := make(map[string]Column, len(cols))
	for i, col := range cols {
		if _, dup := byName[col.Name]; dup {
			return nil, errors.Wrapf(ErrDuplicateColumn, "column %q", col.Name)
		}
		if col.Ordinal == 0 {
			col.Ordinal = i + 1
		}
		columns[i] = col
		byName[col.Name] = col
	}

	meta := &TableMeta{
		Table:   table,
		Columns: columns,
		ByName:  byName,
	}
	if sig != nil {
		meta.InsertSignature = sig(table, columns)
	}
	return meta, nil
}
