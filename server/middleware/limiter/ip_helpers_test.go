// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		request    *http.Request
		expectedIP string
	}{
		{
			name: "X-Real-IP from trusted proxy",
			request: &http.Request{
				RemoteAddr: "127.0.0.1:12345",
				Header:     http.Header{"X-Real-Ip": []string{"2.2.2.2"}},
			},
			expectedIP: "2.2.2.2",
		},
		{
			name: "X-Forwarded-For from trusted proxy uses the last hop",
			request: &http.Request{
				RemoteAddr: "192.168.1.1:12345",
				Header:     http.Header{"X-Forwarded-For": []string{"3.3.3.3, 4.4.4.4"}},
			},
			expectedIP: "4.4.4.4",
		},
		{
			name: "Proxy headers from an untrusted peer are ignored",
			request: &http.Request{
				RemoteAddr: "1.1.1.1:12345",
				Header: http.Header{
					"X-Real-Ip":       []string{"2.2.2.2"},
					"X-Forwarded-For": []string{"3.3.3.3"},
				},
			},
			expectedIP: "1.1.1.1",
		},
		{
			name:       "RemoteAddr fallback",
			request:    &http.Request{RemoteAddr: "1.1.1.1:12345"},
			expectedIP: "1.1.1.1",
		},
		{
			name:       "RemoteAddr without port",
			request:    &http.Request{RemoteAddr: "1.1.1.1"},
			expectedIP: "1.1.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if ip := getClientIP(tt.request); ip != tt.expectedIP {
				t.Errorf("getClientIP() = %v, want %v", ip, tt.expectedIP)
			}
		})
	}
}

func TestIPMatchesList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ip       string
		list     []string
		expected bool
	}{
		{"exact IPv4", "192.168.1.1", []string{"192.168.1.1"}, true},
		{"CIDR", "192.168.1.1", []string{"192.168.1.0/24"}, true},
		{"no match", "192.168.1.1", []string{"10.0.0.0/8"}, false},
		{"exact IPv6 in other notation", "2001:db8::1", []string{"2001:0db8:0:0:0:0:0:1"}, true},
		{"garbage entry is ignored", "192.168.1.1", []string{"not-an-ip"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if result := ipMatchesList(net.ParseIP(tt.ip), tt.list); result != tt.expected {
				t.Errorf("ipMatchesList(%v, %v) = %v, want %v", tt.ip, tt.list, result, tt.expected)
			}
		})
	}
}

func TestGetNetwork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ip         string
		ipv4Prefix int
		ipv6Prefix int
		expected   string
	}{
		{"IPv4 /32", "192.168.1.1", 32, 64, "192.168.1.1/32"},
		{"IPv4 /24", "192.168.1.1", 24, 64, "192.168.1.0/24"},
		{"IPv6 /64", "2001:db8::1", 24, 64, "2001:db8::/64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			network := getNetwork(net.ParseIP(tt.ip), tt.ipv4Prefix, tt.ipv6Prefix)
			if network.String() != tt.expected {
				t.Errorf("getNetwork(%v, %v, %v) = %v, want %v",
					tt.ip, tt.ipv4Prefix, tt.ipv6Prefix, network.String(), tt.expected)
			}
		})
	}
}
