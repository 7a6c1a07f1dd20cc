// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context holds the mutable per-request record shared by the
middleware chain and the handlers.

It lives outside package middleware so that routes can read it without an
import cycle.
*/
package request_context

import (
	"context"
	"net/http"

	"codeberg.org/chargebuddy/chargebuddy/core/idgen"
)

// RequestContext is the per-request record. Middleware and handlers write to
// it through the pointer returned by FromRequest.
type RequestContext struct {
	RequestID string

	// RequestError is set by middleware.CatchError or a rejecting middleware
	// and shown on the error page.
	RequestError error

	// StatusCode is the status the response was (or will be) written with.
	StatusCode int
}

type contextKey struct{}

// WithRequestContext returns ctx carrying a fresh record with a new request
// ID and status 200. The router attaches one per request.
func WithRequestContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, &RequestContext{
		RequestID:  idgen.Make(),
		StatusCode: http.StatusOK,
	})
}

// Lookup returns the record attached to ctx, if any.
func Lookup(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(contextKey{}).(*RequestContext)

	return rc, ok && rc != nil
}

// FromContext is Lookup without the flag. Outside the chain it returns a
// detached zero record, so writes to it are lost.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := Lookup(ctx); ok {
		return rc
	}

	return &RequestContext{}
}

// FromRequest returns the record attached to r.
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
