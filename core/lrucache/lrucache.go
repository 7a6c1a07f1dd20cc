// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) map.

Keys are strings. When the cache is full, inserting a new key evicts the least
recently used entry. [Cache.GetOrAdd] inserts atomically, so concurrent callers
asking for the same key share one value.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// Cache is a fixed-capacity LRU map that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache[V any] struct {
	size      int
	evictList *list.List               // front is most recently used
	items     map[string]*list.Element // key -> element holding *entry[V]
	lock      sync.Mutex
}

type entry[V any] struct {
	key   string
	value V
}

// New creates a cache holding at most size entries.
func New[V any](size int) (*Cache[V], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	return &Cache[V]{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
	}, nil
}

// MustNew is like [New] but panics on an invalid size.
func MustNew[V any](size int) *Cache[V] {
	c, err := New[V](size)
	if err != nil {
		panic(err)
	}

	return c
}

// Add adds or updates the value for key and marks it most recently used.
// Add reports whether an eviction occurred.
func (c *Cache[V]) Add(key string, value V) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)
		ent.Value.(*entry[V]).value = value //nolint:forcetypeassert // only *entry[V] is stored

		return false
	}

	return c.insert(key, value)
}

// GetOrAdd returns the value for key, marking it most recently used. If key
// is absent, create is called under the lock and its result is stored.
// loaded reports whether the value was already present.
func (c *Cache[V]) GetOrAdd(key string, create func() V) (value V, loaded bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		return ent.Value.(*entry[V]).value, true //nolint:forcetypeassert // only *entry[V] is stored
	}

	value = create()
	c.insert(key, value)

	return value, false
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.evictList.MoveToFront(ent)

		return ent.Value.(*entry[V]).value, true //nolint:forcetypeassert // only *entry[V] is stored
	}

	var zero V

	return zero, false
}

// Peek returns the value for key without changing its recency.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		return ent.Value.(*entry[V]).value, true //nolint:forcetypeassert // only *entry[V] is stored
	}

	var zero V

	return zero, false
}

// Remove deletes key and reports whether it was present.
func (c *Cache[V]) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)

		return true
	}

	return false
}

// RemoveFunc deletes every entry for which fn returns true and returns how
// many were deleted. fn runs with the cache locked and must not call back
// into the cache.
func (c *Cache[V]) RemoveFunc(fn func(key string, value V) bool) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	removed := 0

	for e := c.evictList.Back(); e != nil; {
		prev := e.Prev()

		ent := e.Value.(*entry[V]) //nolint:forcetypeassert // only *entry[V] is stored
		if fn(ent.key, ent.value) {
			c.removeElement(e)

			removed++
		}

		e = prev
	}

	return removed
}

// Range calls fn for each entry from most to least recently used until fn
// returns false. The same locking rules as [Cache.RemoveFunc] apply.
func (c *Cache[V]) Range(fn func(key string, value V) bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	for e := c.evictList.Front(); e != nil; e = e.Next() {
		ent := e.Value.(*entry[V]) //nolint:forcetypeassert // only *entry[V] is stored
		if !fn(ent.key, ent.value) {
			return
		}
	}
}

// Keys returns the keys from most to least recently used.
func (c *Cache[V]) Keys() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	keys := make([]string, 0, len(c.items))
	for e := c.evictList.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*entry[V]).key) //nolint:forcetypeassert // only *entry[V] is stored
	}

	return keys
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

// Clear deletes every entry.
func (c *Cache[V]) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

// insert must be called with the lock held.
func (c *Cache[V]) insert(key string, value V) bool {
	c.items[key] = c.evictList.PushFront(&entry[V]{key: key, value: value})

	if c.evictList.Len() > c.size {
		c.removeOldest()

		return true
	}

	return false
}

func (c *Cache[V]) removeOldest() {
	if ent := c.evictList.Back(); ent != nil {
		c.removeElement(ent)
	}
}

func (c *Cache[V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	delete(c.items, e.Value.(*entry[V]).key) //nolint:forcetypeassert // only *entry[V] is stored
}
