// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"strings"
)

// IPv4 and IPv6 address lengths in bits.
const (
	ipv4BitLength = 32
	ipv6BitLength = 128
)

// getClientIP returns the client address of r.
//
// X-Real-IP and X-Forwarded-For are honoured only when the direct peer is
// on a private or loopback network, i.e. a reverse proxy we run. Otherwise
// any client could pick its own bucket.
func getClientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = host
	}

	peer := net.ParseIP(remoteIP)
	if peer == nil || !(peer.IsPrivate() || peer.IsLoopback()) {
		return remoteIP
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	// The last hop was appended by our proxy.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")

		if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
			return last
		}
	}

	return remoteIP
}

// ipMatchesList reports whether ip equals an entry of list or lies in one of its CIDRs.
func ipMatchesList(ip net.IP, list []string) bool {
	for _, entry := range list {
		if exact := net.ParseIP(entry); exact != nil {
			if exact.Equal(ip) {
				return true
			}

			continue
		}

		if _, subnet, err := net.ParseCIDR(entry); err == nil && subnet.Contains(ip) {
			return true
		}
	}

	return false
}

// getNetwork masks ip to the configured prefix of its address family.
func getNetwork(ip net.IP, ipv4Prefix, ipv6Prefix int) *net.IPNet {
	var mask net.IPMask
	if ip.To4() != nil {
		mask = net.CIDRMask(ipv4Prefix, ipv4BitLength)
		ip = ip.To4()
	} else {
		mask = net.CIDRMask(ipv6Prefix, ipv6BitLength)
	}

	return &net.IPNet{
		IP:   ip.Mask(mask),
		Mask: mask,
	}
}
