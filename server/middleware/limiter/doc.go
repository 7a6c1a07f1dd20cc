// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits requests per client network.

Each network (a single address by default, see Limiter.IPv4Prefix and
Limiter.IPv6Prefix) owns a token bucket. Pass-listed addresses and
excluded paths skip the bucket entirely. Buckets idle for longer than
LimiterExpiryDuration are dropped, and at most MaxTrackedNetworks are kept.
With Limiter.StateFilepath set, buckets are saved across restarts; a path
ending in ".zst" is written zstd-compressed.
*/
package limiter
