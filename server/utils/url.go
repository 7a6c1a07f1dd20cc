// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"net/http"
	"net/url"
)

// GetOriginFromRequest returns the origin (scheme + host) of an HTTP request
// in the format "scheme://host".
//
// The scheme is https if IsConnectionSecure says so, http otherwise.
func GetOriginFromRequest(r *http.Request) string {
	scheme := "http"
	if IsConnectionSecure(r) {
		scheme = "https"
	}

	return scheme + "://" + r.Host
}

// ResolveOnOrigin resolves an absolute path against the request's origin.
//
// The query string and fragment of the request are not carried over.
//
// Example: ResolveOnOrigin(r, "/dashboard") with r for
// "http://example.com/auth/login?next=x" returns "http://example.com/dashboard".
func ResolveOnOrigin(r *http.Request, path string) string {
	if r.Host == "" {
		return path
	}

	target := url.URL{Path: path}

	return GetOriginFromRequest(r) + target.EscapedPath()
}
