package availability

import (
	"context"
	"sync"
	"time"

	"slot-aggregator/core/provider"

	"golang.org/x/sync/singleflight"
)

const snapshotKey = "snapshot"

// SnapshotCache holds the last store snapshot for a short time.
type SnapshotCache struct {
	// Entities is the loaded snapshot. Callers must not modify it.
	Entities map[string]provider.Entity

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *SnapshotCache) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds the current snapshot and collapses concurrent loads.
type cacheStore struct {
	mu      sync.RWMutex
	current *SnapshotCache
	sf      singleflight.Group
}

// getOrLoad returns the cached snapshot, or loads a new one if it is missing or expired.
// Uses singleflight to prevent cache stampedes.
func (s *cacheStore) getOrLoad(ctx context.Context, ttl time.Duration, load func(ctx context.Context) map[string]provider.Entity) *SnapshotCache {
	s.mu.RLock()
	cache := s.current
	s.mu.RUnlock()

	if cache != nil && !cache.IsExpired() {
		return cache
	}

	result, _, _ := s.sf.Do(snapshotKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		s.mu.RLock()
		cache := s.current
		s.mu.RUnlock()

		if cache != nil && !cache.IsExpired() {
			return cache, nil
		}

		fresh := &SnapshotCache{Entities: load(ctx), Built: time.Now(), TTL: ttl}

		s.mu.Lock()
		s.current = fresh
		s.mu.Unlock()

		return fresh, nil
	})

	return result.(*SnapshotCache)
}

// invalidate drops the cached snapshot.
func (s *cacheStore) invalidate() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
