// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRedirectTo(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	expectedStatusCode := http.StatusTemporaryRedirect
	expectedLocation := "http://example.com/dashboard"

	redirectTo("/dashboard").ServeHTTP(
		rr,
		httptest.NewRequest(http.MethodGet, "/?utm_source=mail", nil))

	if rr.Code != expectedStatusCode {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, expectedStatusCode)
	}

	location := rr.Header().Get("Location")
	if location != expectedLocation {
		t.Errorf("handler returned wrong Location header: got %q want %q", location, expectedLocation)
	}
}
