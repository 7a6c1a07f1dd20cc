// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"

	"codeberg.org/chargebuddy/chargebuddy/server/utils"
)

// redirectTo answers with a temporary redirect to target on the request's
// origin. The query string is dropped.
//
// Example:   /   ->   https://charge.example/dashboard
func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, utils.ResolveOnOrigin(r, target), http.StatusTemporaryRedirect)
	}
}
