// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/chargebuddy/chargebuddy/core/cookie"
)

func TestHasCookie(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "no cookie header", header: "", want: false},
		{name: "other cookie only", header: "theme=dark", want: false},
		{name: "token with value", header: "auth-token=abc123", want: true},
		{name: "token with empty value", header: "auth-token=", want: true},
		{name: "token among others", header: "theme=dark; auth-token=x; lang=en", want: true},
		{name: "similar name", header: "auth-token-old=x", want: false},
		{name: "name only as value", header: "theme=auth-token", want: false},
		{name: "non-ASCII value", header: "auth-token=tök", want: true},
		{name: "quote in value", header: `auth-token=a"b`, want: true},
		{name: "backslash in value", header: `auth-token=a\b`, want: true},
		{name: "JSON value", header: `auth-token={"u":1}`, want: true},
		{name: "no equals sign", header: "theme=dark;auth-token", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.header != "" {
				r.Header.Set("Cookie", tt.header)
			}

			assert.Equal(t, tt.want, HasCookie(r, cookie.AuthTokenCookie))
		})
	}
}

func TestHasCookieAcrossHeaderLines(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.Header.Add("Cookie", "theme=dark")
	r.Header.Add("Cookie", "auth-token=tök")

	assert.True(t, HasCookie(r, cookie.AuthTokenCookie))
}

func TestClearCookie(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rr := httptest.NewRecorder()

	ClearCookie(rr, r, cookie.AuthTokenCookie)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, "auth-token", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.Expires.Before(cookieExpireDelete.AddDate(0, 0, 1)))
}
