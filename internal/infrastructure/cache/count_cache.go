// Package cache holds the tenant payslip count caches used by the payroll
// dashboard. Redis is used when configured; a process-local map otherwise.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCountTTL bounds how stale a cached count may become when an
// invalidation is missed
const DefaultCountTTL = 5 * time.Minute

type countEntry struct {
	value     int64
	expiresAt time.Time
}

// InMemoryCountCache is a process-local count cache.
// It does not share state across instances.
type InMemoryCountCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]countEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryCountCache creates an in-memory count cache
func NewInMemoryCountCache(ttl time.Duration) *InMemoryCountCache {
	if ttl <= 0 {
		ttl = DefaultCountTTL
	}
	return &InMemoryCountCache{
		entries: make(map[uuid.UUID]countEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached count of the tenant, if present and fresh
func (c *InMemoryCountCache) Get(ctx context.Context, tenantID uuid.UUID) (int64, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[tenantID]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expiresAt) {
		return 0, false, nil
	}
	return entry.value, true, nil
}

// Set stores the count of the tenant
func (c *InMemoryCountCache) Set(ctx context.Context, tenantID uuid.UUID, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[tenantID] = countEntry{value: count, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops the cached count of the tenant
func (c *InMemoryCountCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, tenantID)
	return nil
}

// Purge drops expired entries and returns how many were removed
func (c *InMemoryCountCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for id, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}
