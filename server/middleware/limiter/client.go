// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"codeberg.org/chargebuddy/chargebuddy/config"
)

var (
	errMissingClientIP = errors.New("missing client IP")
	errInvalidIPFormat = errors.New("invalid IP format")
)

// excludedPaths are never rate limited. Entries ending in "/" are prefixes.
var excludedPaths = []string{
	"/healthz",
	"/css/",
	"/robots.txt",
}

// ClientInfo is the limiter's view of a single request.
type ClientInfo struct {
	ip      net.IP
	network *net.IPNet
	limiter *limiterWrapper
}

// newClientInfo resolves the client address and network of r.
func newClientInfo(r *http.Request) (*ClientInfo, error) {
	realIP := getClientIP(r)
	if realIP == "" {
		return nil, errMissingClientIP
	}

	ip := net.ParseIP(realIP)
	if ip == nil {
		return nil, errInvalidIPFormat
	}

	return &ClientInfo{
		ip:      ip,
		network: getNetwork(ip, config.Global.Limiter.IPv4Prefix, config.Global.Limiter.IPv6Prefix),
	}, nil
}

// isPassListed reports whether the client address is in Limiter.PassIPs.
func (c *ClientInfo) isPassListed() bool {
	return ipMatchesList(c.ip, config.Global.Limiter.PassIPs)
}

// isExcludedPath reports whether path is exempt from limiting.
func isExcludedPath(path string) bool {
	for _, excluded := range excludedPaths {
		if path == excluded || (strings.HasSuffix(excluded, "/") && strings.HasPrefix(path, excluded)) {
			return true
		}
	}

	return false
}
