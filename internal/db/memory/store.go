// Package memory is an in-process db.Store for single-instance deployments
// and the SDK. Entries do not survive a restart.
package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db"
)

var errClosed = errors.New("memory store closed")

// Store keeps values in a go-cache instance.
type Store struct {
	cache  *gocache.Cache
	closed atomic.Bool
}

// NewStore creates a store that evicts expired entries every cleanup interval.
func NewStore(cleanup time.Duration) *Store {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &Store{cache: gocache.New(gocache.NoExpiration, cleanup)}
}

// Ping fails only after Close.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: errClosed}
	}
	return nil
}

// WaitForReady returns immediately; the store is ready once created.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// Close drops every entry.
func (s *Store) Close() {
	s.closed.Store(true)
	s.cache.Flush()
}

// Get retrieves a copy of the value stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	data, _ := v.([]byte)
	return append([]byte(nil), data...), nil
}

// SetWithTTL stores a copy of value. A non-positive ttl stores it without expiry.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Del removes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

var _ db.Store = (*Store)(nil)
