// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/chargebuddy/chargebuddy/config"
	"codeberg.org/chargebuddy/chargebuddy/core/lrucache"
)

const (
	LimiterExpiryDuration = time.Hour       // How long to keep an idle bucket in memory.
	CleanupInterval       = 5 * time.Minute // Interval between cleanup runs.

	// MaxTrackedNetworks bounds the bucket store. The least recently seen
	// network is evicted first, which hands it a fresh bucket if it returns.
	MaxTrackedNetworks = 1 << 16

	// compressedStateSuffix selects zstd framing for the state file.
	compressedStateSuffix = ".zst"
)

var (
	limiters = lrucache.MustNew[*limiterWrapper](MaxTrackedNetworks) // keyed by network
	timeNow  = time.Now                                               // Replaced in tests.
)

// limiterWrapper is the token bucket of one network.
type limiterWrapper struct {
	mu         sync.Mutex
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
}

// serializableLimiter is the on-disk form of a limiterWrapper.
type serializableLimiter struct {
	Network    string    `json:"network"`
	LastAccess time.Time `json:"last_access"`
	Tokens     float64   `json:"tokens"`
}

// Save writes the state of every bucket to w as a JSON array.
func Save(w io.Writer) error {
	now := timeNow()
	stateToSave := []serializableLimiter{}

	limiters.Range(func(_ string, limWrapper *limiterWrapper) bool {
		limWrapper.mu.Lock()
		stateToSave = append(stateToSave, serializableLimiter{
			Network:    limWrapper.network,
			LastAccess: limWrapper.lastAccess,
			Tokens:     limWrapper.limiter.TokensAt(now),
		})
		limWrapper.mu.Unlock()

		return true
	})

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(stateToSave); err != nil {
		return err
	}

	log.Info().Int("count", len(stateToSave)).Msg("Saved limiter state")

	return nil
}

// InitFile replaces the in-memory buckets with the state read from r.
//
// Buckets are rebuilt with the configured rate and burst, so a restart with
// a smaller burst caps the restored tokens. Expired entries are skipped.
func InitFile(r io.Reader) error {
	var loadedState []serializableLimiter

	if err := json.NewDecoder(r).Decode(&loadedState); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return err
	}

	limiters.Clear()

	now := timeNow()
	loaded := 0

	for _, sl := range loadedState {
		if now.Sub(sl.LastAccess) > LimiterExpiryDuration {
			continue
		}

		limWrapper := newLimiterWrapper(sl.Network)
		limWrapper.lastAccess = sl.LastAccess

		// Drain the fresh bucket down to the saved level.
		if spent := float64(limWrapper.limiter.Burst()) - sl.Tokens; spent >= 1 {
			limWrapper.limiter.AllowN(now, int(spent))
		}

		limiters.Add(sl.Network, limWrapper)

		loaded++
	}

	log.Info().Int("count", loaded).Msg("Loaded limiter state")

	return nil
}

// Init loads the saved state, if a state file is configured.
// A path ending in ".zst" is read as a zstd stream.
func Init() {
	limiterStateFile := config.Global.Limiter.StateFilepath
	if limiterStateFile == "" {
		return
	}

	file, err := os.Open(limiterStateFile) // #nosec:G304
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("file", limiterStateFile).
				Msg("Limiter state file not found, starting with a fresh state")
		} else {
			log.Warn().Err(err).Str("file", limiterStateFile).
				Msg("Could not open limiter state file; starting with a fresh state")
		}

		return
	}
	defer file.Close()

	var r io.Reader = file

	if isCompressedState(limiterStateFile) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			log.Warn().Err(err).Str("file", limiterStateFile).
				Msg("Could not read compressed limiter state; starting with a fresh state")

			return
		}
		defer dec.Close()

		r = dec
	}

	if err := InitFile(r); err != nil {
		log.Warn().Err(err).Str("file", limiterStateFile).
			Msg("Could not parse limiter state file; starting with a fresh state")
	}
}

// Fini saves the state on shutdown, if a state file is configured.
func Fini() {
	limiterStateFile := config.Global.Limiter.StateFilepath
	if limiterStateFile == "" {
		return
	}

	file, err := os.Create(limiterStateFile) // #nosec:G304
	if err != nil {
		log.Warn().Err(err).Str("file", limiterStateFile).
			Msg("Failed to create limiter state file")

		return
	}
	defer file.Close()

	if err := saveTo(file, isCompressedState(limiterStateFile)); err != nil {
		log.Warn().Err(err).Str("file", limiterStateFile).
			Msg("Failed to write limiter state")
	}
}

func saveTo(w io.Writer, compress bool) error {
	if !compress {
		return Save(w)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	if err := Save(enc); err != nil {
		enc.Close()

		return err
	}

	return enc.Close()
}

func isCompressedState(path string) bool {
	return strings.HasSuffix(path, compressedStateSuffix)
}

// allow consumes one token from the bucket and reports whether it was available.
func (l *limiterWrapper) allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := timeNow()
	l.lastAccess = now

	return l.limiter.AllowN(now, 1)
}

// bucketState is a snapshot of a bucket for the RateLimit headers.
type bucketState struct {
	burst      int
	remaining  int   // whole tokens left
	reset      int64 // seconds until the bucket is full
	retryAfter int64 // seconds until the next token
}

func (l *limiterWrapper) state() bucketState {
	l.mu.Lock()
	defer l.mu.Unlock()

	tokens := l.limiter.TokensAt(timeNow())
	limit := float64(l.limiter.Limit())

	st := bucketState{
		burst:     l.limiter.Burst(),
		remaining: max(0, min(l.limiter.Burst(), int(tokens))),
	}

	if limit <= 0 {
		return st
	}

	if deficit := float64(st.burst) - tokens; deficit > 0 {
		st.reset = int64(math.Ceil(deficit / limit))
	}

	if tokens < 1 {
		st.retryAfter = int64(math.Ceil((1 - tokens) / limit))
	}

	return st
}

// getOrCreateLimiter returns the bucket for network, creating it if needed.
func getOrCreateLimiter(network string) *limiterWrapper {
	limWrapper, _ := limiters.GetOrAdd(network, func() *limiterWrapper {
		return newLimiterWrapper(network)
	})

	return limWrapper
}

// newLimiterWrapper creates a full bucket with the configured rate and burst.
func newLimiterWrapper(network string) *limiterWrapper {
	return &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(config.Global.Limiter.Rate), config.Global.Limiter.Burst),
		network:    network,
		lastAccess: timeNow(),
	}
}

// cleanupExpiredLimiters removes buckets that haven't been used for the
// expiry duration as of now, and returns how many it removed.
func cleanupExpiredLimiters(now time.Time) int {
	return limiters.RemoveFunc(func(_ string, limWrapper *limiterWrapper) bool {
		limWrapper.mu.Lock()
		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		return now.Sub(lastAccess) > LimiterExpiryDuration
	})
}
