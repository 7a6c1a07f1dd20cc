// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/chargebuddy/chargebuddy/config"
)

// testStateMutex serializes tests that mutate package-level state.
var testStateMutex sync.Mutex

// mockClock is a controllable time source for the limiter.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.now = m.now.Add(d)
}

// setupLimiterTest configures the limiter for a test and hooks a mock clock
// into timeNow. Everything is restored when the test completes.
//
// Call it once per test, never from subtests: it holds a global lock.
func setupLimiterTest(t *testing.T) *mockClock {
	t.Helper()

	testStateMutex.Lock()

	origConfig := config.Global
	origTimeNow := timeNow

	config.Global.Limiter.Enabled = true
	config.Global.Limiter.Rate = 1
	config.Global.Limiter.Burst = 3
	config.Global.Limiter.IPv4Prefix = 32
	config.Global.Limiter.IPv6Prefix = 64
	config.Global.Limiter.PassIPs = []string{"203.0.113.7"}
	config.Global.Limiter.StateFilepath = ""

	clock := &mockClock{now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
	timeNow = clock.Now

	limiters.Clear()
	lastCleanupAt.Store(0)

	t.Cleanup(func() {
		timeNow = origTimeNow
		config.Global = origConfig

		limiters.Clear()
		lastCleanupAt.Store(0)

		testStateMutex.Unlock()
	})

	return clock
}
