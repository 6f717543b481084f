package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"argus/pkg/platform/sentinel"
)

// CachedStore wraps a Store with a Redis read-through cache keyed by
// investigation ID. Verdicts are immutable once saved, so staleness is
// bounded only by the TTL retention policy.
type CachedStore struct {
	inner Store
	rdb   redis.UniversalClient
	ttl   time.Duration
}

func NewCachedStore(inner Store, rdb redis.UniversalClient, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(id string) string {
	return "argus:investigation:" + id
}

func (s *CachedStore) Save(ctx context.Context, inv *Investigation) error {
	if err := s.inner.Save(ctx, inv); err != nil {
		return err
	}
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("marshal investigation for cache: %w", err)
	}
	// Cache population is best-effort; the store of record already has it.
	s.rdb.Set(ctx, cacheKey(inv.ID), payload, s.ttl)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (*Investigation, error) {
	// Cache miss, corrupt entry, or Redis being down all fall through to the
	// store of record: the cache must never take reads down with it.
	payload, err := s.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var inv Investigation
		if err := json.Unmarshal(payload, &inv); err == nil {
			return &inv, nil
		}
	}

	inv, err := s.inner.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cached store get: %w", err)
	}
	if payload, err := json.Marshal(inv); err == nil {
		s.rdb.Set(ctx, cacheKey(id), payload, s.ttl)
	}
	return inv, nil
}

func (s *CachedStore) ListByEntity(ctx context.Context, entityID string) ([]*Investigation, error) {
	return s.inner.ListByEntity(ctx, entityID)
}
