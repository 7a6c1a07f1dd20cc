// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/chargebuddy/chargebuddy/server/request_context"
	"codeberg.org/chargebuddy/chargebuddy/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

var errRateLimited = errors.New("rate limit exceeded")

// Evaluate is the limiter middleware.
//
// Excluded paths and pass-listed clients go straight to next. Everyone else
// spends one token from their network's bucket, or gets 429 when it is empty.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	client, err := newClientInfo(r)
	if err != nil {
		log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("Request blocked, unknown client address")

		reject(w, r, http.StatusBadRequest, err)

		return
	}

	if client.isPassListed() {
		next.ServeHTTP(w, r)

		return
	}

	client.limiter = getOrCreateLimiter(client.network.String())

	allowed := client.limiter.allow()

	addRateLimitHeaders(w, client)

	if !allowed {
		log.Warn().
			Str("ip", client.ip.String()).
			Str("network", client.network.String()).
			Msg("Request blocked, exceeded rate limit")

		reject(w, r, http.StatusTooManyRequests, errRateLimited)

		return
	}

	next.ServeHTTP(w, r)
}

// reject renders the error page with status. Outside the router chain it
// attaches its own request context so the status still reaches the page.
func reject(w http.ResponseWriter, r *http.Request, status int, err error) {
	ctx, ok := request_context.Lookup(r.Context())
	if !ok {
		r = r.WithContext(request_context.WithRequestContext(r.Context()))
		ctx = request_context.FromRequest(r)
	}

	ctx.StatusCode = status
	ctx.RequestError = err

	routes.ErrorPage(w, r)
}

// addRateLimitHeaders reports the client's bucket in the response headers.
func addRateLimitHeaders(w http.ResponseWriter, client *ClientInfo) {
	if client == nil || client.limiter == nil {
		return
	}

	st := client.limiter.state()

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(st.burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(st.remaining))
	w.Header().Set(HeaderRateLimitReset, strconv.FormatInt(st.reset, 10))

	if st.remaining == 0 {
		w.Header().Set("Retry-After", strconv.FormatInt(st.retryAfter, 10))
	}
}
