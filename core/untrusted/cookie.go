// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"strings"
	"time"

	"codeberg.org/chargebuddy/chargebuddy/core/cookie"
	"codeberg.org/chargebuddy/chargebuddy/server/utils"
)

// SameSite=Lax allows cookies on top-level navigations, so a user arriving
// from an external link to /dashboard is not bounced to the login page.
const CookieSameSite = http.SameSiteLaxMode

// Clear a cookie by setting its expiration date to this
var cookieExpireDelete = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

func createCookieUnencoded(name cookie.CookieName, value string, expires time.Time, isSecure bool) http.Cookie {
	return http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   isSecure,
		HttpOnly: cookie.IsHttpOnly(name),
		SameSite: CookieSameSite,
	}
}

// HasCookie reports whether the request carries a cookie with the given name.
//
// Only names are compared. r.Cookie drops pairs whose value it considers
// invalid (non-ASCII, quotes, backslashes), so the Cookie headers are
// scanned directly and any value, including an empty one, counts.
func HasCookie(r *http.Request, name cookie.CookieName) bool {
	for _, line := range r.Header.Values("Cookie") {
		for part := range strings.SplitSeq(line, ";") {
			key, _, _ := strings.Cut(strings.TrimSpace(part), "=")
			if strings.TrimSpace(key) == string(name) {
				return true
			}
		}
	}

	return false
}

func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	c := createCookieUnencoded(
		name, "",
		cookieExpireDelete,
		utils.IsConnectionSecure(r))
	http.SetCookie(w, &c)
}

func ClearAllCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range cookie.AllCookieNames {
		ClearCookie(w, r, name)
	}
}
