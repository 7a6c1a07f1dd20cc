// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL redirects paths with a trailing slash (except root) to the
// same path without it, keeping the query string.
//
// It runs before the auth gate so the gate only sees canonical paths.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash strips trailing slashes and redirects.
//
// Leading slashes are collapsed too: "//evil.example/" must not become the
// protocol-relative URL "//evil.example".
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL

	target.Path = "/" + strings.Trim(target.Path, "/")
	target.RawPath = ""

	relative := target.EscapedPath()
	if target.RawQuery != "" {
		relative += "?" + target.RawQuery
	}

	http.Redirect(w, r, relative, http.StatusPermanentRedirect)
}
