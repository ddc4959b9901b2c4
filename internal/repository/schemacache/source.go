package schemacache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain/layer"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/schema"
)

const keyPrefix = "webmapper:"

// Compile-time check: CachedSource implements schema.Source.
var _ schema.Source = (*CachedSource)(nil)

// store is the consumer interface for the schema cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource caches collection lookups and data payloads in a key-value store.
// Cache failures never fail a lookup; they fall through to the inner source.
type CachedSource struct {
	inner      schema.Source
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner schema.Source,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	return &CachedSource{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// FindCollection returns a cached collection or asks the inner source.
func (c *CachedSource) FindCollection(ctx context.Context, name, itemType string) (layer.Collection, error) {
	key := collectionKey(name, itemType)

	var col layer.Collection
	if c.getFromCache(ctx, key, &col) {
		c.incCache("hit")
		return col, nil
	}
	c.incCache("miss")

	col, err := c.inner.FindCollection(ctx, name, itemType)
	if err != nil {
		return layer.Collection{}, fmt.Errorf("find collection: %w", err)
	}

	c.putToCache(ctx, key, col)
	return col, nil
}

// CollectionData returns the cached data payload or asks the inner source.
// A nil payload (hosted collection) is cached too.
func (c *CachedSource) CollectionData(ctx context.Context, itemID string) (*layer.Data, error) {
	key := dataKey(itemID)

	var data *layer.Data
	if c.getFromCache(ctx, key, &data) {
		c.incCache("hit")
		return data, nil
	}
	c.incCache("miss")

	data, err := c.inner.CollectionData(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("collection data: %w", err)
	}

	c.putToCache(ctx, key, data)
	return data, nil
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func collectionKey(name, itemType string) string {
	return fmt.Sprintf("%scollection:%s:%s", keyPrefix, itemType, name)
}

func dataKey(itemID string) string {
	return fmt.Sprintf("%sdata:%s", keyPrefix, itemID)
}

func (c *CachedSource) getFromCache(ctx context.Context, key string, dst any) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached schema", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if len(data) == 0 {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to parse cached schema", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode schema for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache schema", zap.String("key", key), zap.Error(err))
	}
}
