package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Preparer is satisfied by *sql.DB and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type entry struct {
	stmt    *sql.Stmt
	leases  int
	evicted bool
}

// StatementCache keeps prepared statements keyed by statement fingerprint so
// every batch of a bound table reuses one server side preparation.
//
// Statements are handed out as leases. An evicted statement is closed once
// its last lease is released, so a batch never sees it closed mid flight.
type StatementCache struct {
	mu    sync.Mutex
	cache *lru.Cache[uint64, *entry]
}

func NewStatementCache(size int) (*StatementCache, error) {
	if size <= 0 {
		size = 128
	}
	// callbacks run inside cache calls made with mu held
	c, err := lru.NewWithEvict(size, func(_ uint64, e *entry) {
		e.evicted = true
		if e.leases == 0 {
			_ = e.stmt.Close()
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating statement cache")
	}
	return &StatementCache{cache: c}, nil
}

func (s *StatementCache) Get(key uint64) (*sql.Stmt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cache.Peek(key)
	if !ok {
		return nil, false
	}
	return e.stmt, true
}

// Acquire returns the cached statement for key, preparing query on db when
// absent. The statement stays open until release is called, even if it is
// evicted in the meantime. release must be called exactly once.
func (s *StatementCache) Acquire(ctx context.Context, key uint64, db Preparer, query string) (stmt *sql.Stmt, release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(key)
	if !ok {
		prepared, err := db.PrepareContext(ctx, query)
		if err != nil {
			return nil, nil, err
		}
		e = &entry{stmt: prepared}
		s.cache.Add(key, e)
	}
	e.leases++
	return e.stmt, func() { s.release(e) }, nil
}

func (s *StatementCache) release(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.leases--
	if e.evicted && e.leases == 0 {
		_ = e.stmt.Close()
	}
}

func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close drops every cached statement. Statements still leased are closed on
// release.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
	return nil
}
