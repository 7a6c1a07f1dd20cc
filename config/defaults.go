// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

// TCP listener used when neither a unix socket nor Host/Port are configured.
const (
	DefaultHost = "localhost"
	DefaultPort = "8282"
)

const (
	// Default http.Server timeouts in seconds.
	// ref: gosec: G112
	defaultReadHeaderTimeoutSeconds = 15
	defaultReadTimeoutSeconds       = 15
	defaultWriteTimeoutSeconds      = 10
	defaultIdleTimeoutSeconds       = 30
	defaultShutdownDeadlineSeconds  = 5

	// Default limiter refill rate (tokens per second) and bucket size.
	defaultLimiterRate  = 2.0
	defaultLimiterBurst = 60

	// A single IPv4 address, and the /64 an IPv6 host usually gets.
	defaultLimiterIPv4Prefix = 32
	defaultLimiterIPv6Prefix = 64
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	// Host and Port are left empty so a unix socket can be configured
	// without clearing them; validateListener fills in the TCP defaults.
	cfg.Basic.Host = ""
	cfg.Basic.Port = ""

	cfg.Server.ReadHeaderTimeout = defaultReadHeaderTimeoutSeconds * time.Second
	cfg.Server.ReadTimeout = defaultReadTimeoutSeconds * time.Second
	cfg.Server.WriteTimeout = defaultWriteTimeoutSeconds * time.Second
	cfg.Server.IdleTimeout = defaultIdleTimeoutSeconds * time.Second
	cfg.Server.ShutdownDeadline = defaultShutdownDeadlineSeconds * time.Second

	cfg.Development.InDevelopment = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.PassIPs = nil
	cfg.Limiter.IPv4Prefix = defaultLimiterIPv4Prefix
	cfg.Limiter.IPv6Prefix = defaultLimiterIPv6Prefix
	cfg.Limiter.StateFilepath = ""
}
