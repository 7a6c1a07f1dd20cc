// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/chargebuddy/chargebuddy/assets/views"
	"codeberg.org/chargebuddy/chargebuddy/core/untrusted"
)

// Form targets served by the account backend behind this front-end.
const (
	loginAction    = "/api/auth/login"
	registerAction = "/api/auth/register"
)

// LoginPath is where a signed-out client ends up.
const LoginPath = "/auth/login"

func LoginPage(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")
	startPage(w)

	return views.Login(views.LoginData{Title: "Sign in", Action: loginAction}).Render(r.Context(), w)
}

func RegisterPage(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")
	startPage(w)

	return views.Register(views.RegisterData{Title: "Create an account", Action: registerAction}).Render(r.Context(), w)
}

// Logout drops the auth token and every other cookie this front-end set,
// then sends the client to the login page.
func Logout(w http.ResponseWriter, r *http.Request) error {
	untrusted.ClearAllCookies(w, r)

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)

	return nil
}
