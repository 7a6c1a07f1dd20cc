// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"codeberg.org/chargebuddy/chargebuddy/server/request_context"
)

// RequestIDHeader echoes the generated request ID back to the client.
const RequestIDHeader = "X-Request-Id"

// WithRequestContext is a middleware that attaches a RequestContext to each HTTP request.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	r = r.WithContext(request_context.WithRequestContext(r.Context()))

	w.Header().Set(RequestIDHeader, request_context.FromRequest(r).RequestID)

	next.ServeHTTP(w, r)
}
