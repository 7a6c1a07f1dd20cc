// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("ValidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := New[string](3)
		require.NoError(t, err)
		require.NotNil(t, cache)
		assert.Equal(t, 0, cache.Len())
	})

	t.Run("InvalidSize", func(t *testing.T) {
		t.Parallel()

		cache, err := New[string](0)
		require.ErrorIs(t, err, ErrInvalidSize)
		assert.Nil(t, cache)

		assert.Panics(t, func() { MustNew[int](-1) })
	})
}

func TestAddAndGet(t *testing.T) {
	t.Parallel()

	cache := MustNew[string](2)

	assert.False(t, cache.Add("foo", "bar"), "no eviction below capacity")

	value, ok := cache.Get("foo")
	require.True(t, ok)
	assert.Equal(t, "bar", value)

	cache.Add("hello", "world")
	assert.Equal(t, 2, cache.Len())

	// "foo" was touched before "hello" was added, so it is the oldest.
	assert.True(t, cache.Add("key3", "value3"))

	_, ok = cache.Get("foo")
	assert.False(t, ok, "foo should have been evicted")
}

func TestAddExistingKey(t *testing.T) {
	t.Parallel()

	cache := MustNew[string](2)
	cache.Add("k1", "v1")
	cache.Add("k2", "v2")

	assert.False(t, cache.Add("k1", "updated"))
	assert.Equal(t, 2, cache.Len())

	value, _ := cache.Peek("k1")
	assert.Equal(t, "updated", value)

	// k1 became most recently used, so k2 goes next.
	cache.Add("k3", "v3")

	_, ok := cache.Peek("k2")
	assert.False(t, ok)
	assert.Equal(t, []string{"k3", "k1"}, cache.Keys())
}

func TestPeekDoesNotPromote(t *testing.T) {
	t.Parallel()

	cache := MustNew[int](2)
	cache.Add("a", 1)
	cache.Add("b", 2)

	value, ok := cache.Peek("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	cache.Add("c", 3)

	_, ok = cache.Peek("a")
	assert.False(t, ok, "peek must not refresh recency")

	_, ok = cache.Peek("missing")
	assert.False(t, ok)
}

func TestGetOrAdd(t *testing.T) {
	t.Parallel()

	cache := MustNew[int](2)
	calls := 0
	create := func() int {
		calls++

		return calls * 10
	}

	value, loaded := cache.GetOrAdd("x", create)
	assert.False(t, loaded)
	assert.Equal(t, 10, value)

	value, loaded = cache.GetOrAdd("x", create)
	assert.True(t, loaded)
	assert.Equal(t, 10, value)
	assert.Equal(t, 1, calls)

	cache.GetOrAdd("y", create)
	cache.GetOrAdd("x", create) // promote x
	cache.GetOrAdd("z", create)

	assert.Equal(t, []string{"z", "x"}, cache.Keys())
}

func TestGetOrAddConcurrent(t *testing.T) {
	t.Parallel()

	cache := MustNew[*int](16)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)

	results := make([]*int, 32)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], _ = cache.GetOrAdd("shared", func() *int {
				mu.Lock()
				created++
				mu.Unlock()

				return new(int)
			})
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, created)

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	cache := MustNew[string](2)
	cache.Add("a", "1")

	assert.True(t, cache.Remove("a"))
	assert.False(t, cache.Remove("a"))
	assert.Equal(t, 0, cache.Len())
}

func TestRemoveFunc(t *testing.T) {
	t.Parallel()

	cache := MustNew[int](10)
	for i := range 6 {
		cache.Add(strconv.Itoa(i), i)
	}

	removed := cache.RemoveFunc(func(_ string, v int) bool { return v%2 == 0 })

	assert.Equal(t, 3, removed)
	assert.Equal(t, []string{"5", "3", "1"}, cache.Keys())
}

func TestRangeAndClear(t *testing.T) {
	t.Parallel()

	cache := MustNew[int](4)
	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	var seen []string

	cache.Range(func(key string, _ int) bool {
		seen = append(seen, key)

		return len(seen) < 2
	})

	assert.Equal(t, []string{"c", "b"}, seen)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
	assert.Empty(t, cache.Keys())

	cache.Add("d", 4)
	assert.Equal(t, 1, cache.Len())
}
