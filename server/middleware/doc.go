// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middlewares shared by every route.

A Middleware receives the next handler explicitly; the router chains them
in the order they are registered, outermost first. Route-level error
handling lives in CatchError.
*/
package middleware
