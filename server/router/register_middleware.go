// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/chargebuddy/chargebuddy/config"
	"codeberg.org/chargebuddy/chargebuddy/server/middleware"
	"codeberg.org/chargebuddy/chargebuddy/server/middleware/authgate"
	"codeberg.org/chargebuddy/chargebuddy/server/middleware/limiter"
	"codeberg.org/chargebuddy/chargebuddy/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain.
func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)                // the gate only sees canonical paths
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all responses, redirects included

	if config.Global.Limiter.Enabled {
		limiter.Init()

		router.Use(limiter.Evaluate)
	}

	router.Use(authgate.Handle) // last, so only real page requests reach the routes
}
