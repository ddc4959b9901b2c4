package schemacache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
)

type mockSource struct {
	col       layer.Collection
	data      *layer.Data
	err       error
	findCalls int
	dataCalls int
}

func (m *mockSource) FindCollection(_ context.Context, _, _ string) (layer.Collection, error) {
	m.findCalls++
	return m.col, m.err
}

func (m *mockSource) CollectionData(_ context.Context, _ string) (*layer.Data, error) {
	m.dataCalls++
	return m.data, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memStore is a map-backed store for round-trip tests.
type memStore map[string][]byte

func (m memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m memStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m[key] = value
	return nil
}

func newTestCachedSource(t *testing.T, inner *mockSource) (*CachedSource, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, time.Hour, nil, zap.NewNop()), ms
}
