// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/chargebuddy/chargebuddy/config"
)

func TestAllowConsumesTokens(t *testing.T) {
	clock := setupLimiterTest(t)

	lim := getOrCreateLimiter("198.51.100.1/32")

	for i := range 3 {
		assert.True(t, lim.allow(), "token %d should be available", i+1)
	}

	assert.False(t, lim.allow(), "bucket should be empty")

	st := lim.state()
	assert.Equal(t, 3, st.burst)
	assert.Equal(t, 0, st.remaining)
	assert.Equal(t, int64(3), st.reset)
	assert.Equal(t, int64(1), st.retryAfter)

	clock.Advance(time.Second)

	assert.True(t, lim.allow(), "one token should refill after a second")
	assert.False(t, lim.allow())
}

func TestGetOrCreateLimiterReusesBucket(t *testing.T) {
	setupLimiterTest(t)

	a := getOrCreateLimiter("198.51.100.1/32")
	b := getOrCreateLimiter("198.51.100.1/32")
	c := getOrCreateLimiter("198.51.100.2/32")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestCleanupExpiredLimiters(t *testing.T) {
	clock := setupLimiterTest(t)

	stale := getOrCreateLimiter("198.51.100.1/32")
	require.True(t, stale.allow())

	clock.Advance(LimiterExpiryDuration / 2)

	fresh := getOrCreateLimiter("198.51.100.2/32")
	require.True(t, fresh.allow())

	clock.Advance(LimiterExpiryDuration/2 + time.Minute)

	assert.Equal(t, 1, cleanupExpiredLimiters(clock.Now()))

	_, staleFound := limiters.Peek("198.51.100.1/32")
	_, freshFound := limiters.Peek("198.51.100.2/32")

	assert.False(t, staleFound)
	assert.True(t, freshFound)
}

func TestDoCleanupRunsOncePerInterval(t *testing.T) {
	clock := setupLimiterTest(t)

	DoCleanup()

	first := lastCleanupAt.Load()
	require.NotZero(t, first)

	clock.Advance(time.Minute)
	DoCleanup()
	assert.Equal(t, first, lastCleanupAt.Load(), "cleanup should not run before the interval")

	clock.Advance(CleanupInterval)
	DoCleanup()
	assert.Equal(t, clock.Now().UnixNano(), lastCleanupAt.Load())
}

func TestSaveAndInitFile(t *testing.T) {
	clock := setupLimiterTest(t)

	lim := getOrCreateLimiter("198.51.100.1/32")
	require.True(t, lim.allow())
	require.True(t, lim.allow())

	var buf bytes.Buffer
	require.NoError(t, Save(&buf))
	assert.Contains(t, buf.String(), `"network": "198.51.100.1/32"`)

	limiters.Clear()

	require.NoError(t, InitFile(&buf))

	restored := getOrCreateLimiter("198.51.100.1/32")
	assert.NotSame(t, lim, restored)
	assert.Equal(t, 1, restored.state().remaining)
	assert.True(t, restored.allow())
	assert.False(t, restored.allow())

	clock.Advance(time.Second)
	assert.True(t, restored.allow())
}

func TestInitFileSkipsExpiredEntries(t *testing.T) {
	clock := setupLimiterTest(t)

	getOrCreateLimiter("198.51.100.1/32")

	var buf bytes.Buffer
	require.NoError(t, Save(&buf))

	clock.Advance(LimiterExpiryDuration + time.Minute)
	require.NoError(t, InitFile(&buf))

	_, found := limiters.Peek("198.51.100.1/32")
	assert.False(t, found)
}

func TestInitFileEmptyAndMalformed(t *testing.T) {
	setupLimiterTest(t)

	require.NoError(t, InitFile(strings.NewReader("")))
	require.Error(t, InitFile(strings.NewReader("{not json")))
}

func TestInitAndFiniWithStateFile(t *testing.T) {
	setupLimiterTest(t)

	config.Global.Limiter.StateFilepath = filepath.Join(t.TempDir(), "limiter.json")

	// Missing file is not an error.
	Init()

	require.True(t, getOrCreateLimiter("198.51.100.1/32").allow())

	Fini()

	data, err := os.ReadFile(config.Global.Limiter.StateFilepath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "198.51.100.1/32")

	limiters.Clear()
	Init()

	_, found := limiters.Peek("198.51.100.1/32")
	assert.True(t, found)
}

func TestInitAndFiniWithCompressedStateFile(t *testing.T) {
	setupLimiterTest(t)

	config.Global.Limiter.StateFilepath = filepath.Join(t.TempDir(), "limiter.json.zst")

	lim := getOrCreateLimiter("2001:db8::/64")
	require.True(t, lim.allow())
	require.True(t, lim.allow())

	Fini()

	data, err := os.ReadFile(config.Global.Limiter.StateFilepath)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, data[:4], "state should be a zstd frame")

	limiters.Clear()
	Init()

	restored, found := limiters.Peek("2001:db8::/64")
	require.True(t, found)
	assert.Equal(t, 1, restored.state().remaining)
}

func TestBucketStoreIsBounded(t *testing.T) {
	setupLimiterTest(t)

	first := getOrCreateLimiter("first")
	for i := range MaxTrackedNetworks {
		getOrCreateLimiter(strconv.Itoa(i))
	}

	assert.Equal(t, MaxTrackedNetworks, limiters.Len())

	_, found := limiters.Peek("first")
	assert.False(t, found, "least recently seen network should be evicted")
	assert.NotSame(t, first, getOrCreateLimiter("first"))
}
