// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
const (
	// AuthTokenCookie marks a signed-in client. Only its presence is checked
	// by the auth gate; the value is opaque to this service.
	AuthTokenCookie CookieName = "auth-token" // #nosec:G101 - false positive
)

// AllCookieNames defines all cookies that this service reads or clears.
var AllCookieNames = []CookieName{
	AuthTokenCookie,
}

// IsHttpOnly reports whether a cookie must be hidden from client-side scripts.
func IsHttpOnly(name CookieName) bool {
	switch name {
	case AuthTokenCookie:
		return true
	default:
		return false
	}
}
