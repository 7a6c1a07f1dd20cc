// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/chargebuddy/chargebuddy/config"
	"codeberg.org/chargebuddy/chargebuddy/server/assets"
	"codeberg.org/chargebuddy/chargebuddy/server/middleware"
	"codeberg.org/chargebuddy/chargebuddy/server/routes"
)

// DefineRoutes registers every route on the mux. Middleware is added
// separately by RegisterMiddleware.
func (router *Router) DefineRoutes() {
	fileServerHandler := fileServer()

	router.Handle("GET /robots.txt", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)

	// Liveness probe; outside the gate's matcher.
	router.HandleFunc("GET /healthz", routes.Healthz)

	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", redirectTo(routes.DashboardPath))

	// Dashboard routes
	router.HandleFunc("GET /dashboard", middleware.CatchError(routes.DashboardPage))
	router.HandleFunc("GET /dashboard/{path...}", middleware.CatchError(routes.DashboardPage))

	// Auth routes
	router.HandleFunc("GET /auth/login", middleware.CatchError(routes.LoginPage))
	router.HandleFunc("GET /auth/register", middleware.CatchError(routes.RegisterPage))
	router.HandleFunc("POST /auth/logout", middleware.CatchError(routes.Logout))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// Everything else gets the themed 404.
	router.HandleFunc("/", middleware.CatchError(routes.NotFound))
}

// fileServer serves the embedded static assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServerFS(staticContentFS)

	// Embedded files only change with a new build, so the build identifies them.
	etag := fmt.Sprintf("%q", config.BuildVersion+"-"+config.Global.Build.Revision())

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		fileServer.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
