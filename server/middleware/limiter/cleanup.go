// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// lastCleanupAt holds the unix nanoseconds of the last cleanup run.
var lastCleanupAt atomic.Int64

// DoCleanup starts a cleanup in the background at most once per CleanupInterval.
//
// The first call only records the time.
func DoCleanup() {
	now := timeNow()
	last := lastCleanupAt.Load()

	if last == 0 {
		lastCleanupAt.CompareAndSwap(0, now.UnixNano())

		return
	}

	if now.Sub(time.Unix(0, last)) < CleanupInterval {
		return
	}

	// Another request won the race for this interval.
	if !lastCleanupAt.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	go func() {
		start := time.Now()
		expired := cleanupExpiredLimiters(now)

		log.Info().Int("expired", expired).Dur("dur", time.Since(start)).Msg("Limiter cleanup")
	}()
}
