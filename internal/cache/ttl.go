// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a small in-memory cache whose entries expire after a
// fixed time-to-live. Entries are never invalidated by writes elsewhere; a
// stale value lives at most one TTL.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL is used when New is given a non-positive TTL.
const DefaultTTL = 15 * time.Minute

// Clock supplies the current time. Tests substitute a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a concurrency-safe map from string keys to values of type V, each
// valid until a fixed duration after it was stored.
type TTL[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   Clock

	hits   atomic.Int64
	misses atomic.Int64
}

// New returns an empty cache. A nil clock means SystemClock.
func New[V any](ttl time.Duration, clock Clock) *TTL[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock
	}
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock,
	}
}

// TTL returns the configured time-to-live.
func (c *TTL[V]) TTL() time.Duration { return c.ttl }

// Get returns the value stored under key if it exists and now is before its
// expiry. Expired entries are removed.
func (c *TTL[V]) Get(key string) (V, bool) {
	now := c.clock.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		c.hits.Add(1)
		return e.value, true
	}

	if ok {
		c.mu.Lock()
		// Re-check: a concurrent Put may have refreshed the entry.
		if cur, still := c.entries[key]; still && !now.Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	c.misses.Add(1)
	var zero V
	return zero, false
}

// Put stores value under key with expiry now+TTL, replacing any prior entry.
func (c *TTL[V]) Put(key string, value V) {
	e := entry[V]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet
// removed.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune removes expired entries and returns how many were removed.
func (c *TTL[V]) Prune() int {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Stats reports hit and miss counts since creation.
func (c *TTL[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
