// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/chargebuddy/chargebuddy/config"
)

var funcs = template.FuncMap{
	"statusText": http.StatusText,
	"version":    func() string { return config.BuildVersion },
	"title":      sectionTitle,
}

// ErrorData is rendered for unhandled errors and unknown paths.
type ErrorData struct {
	Title      string
	Error      error
	StatusCode int
}

// LoginData is rendered on the sign-in page.
type LoginData struct {
	Title string
	// Action is the form target handled by the account backend.
	Action string
}

// RegisterData is rendered on the sign-up page.
type RegisterData struct {
	Title  string
	Action string
}

// DashboardData is rendered on every page under /dashboard.
type DashboardData struct {
	Title string
	// Section is the sub-path below /dashboard, empty for the overview.
	Section  string
	Sections []string
}

// Error renders the error page.
func Error(data ErrorData) templ.Component { return page("error", data) }

// Login renders the sign-in page.
func Login(data LoginData) templ.Component { return page("login", data) }

// Register renders the sign-up page.
func Register(data RegisterData) templ.Component { return page("register", data) }

// Dashboard renders a dashboard section.
func Dashboard(data DashboardData) templ.Component { return page("dashboard", data) }

// sectionTitle turns "charging-history" into "Charging history".
func sectionTitle(section string) string {
	if section == "" {
		return "Overview"
	}

	s := strings.ReplaceAll(section, "-", " ")

	return strings.ToUpper(s[:1]) + s[1:]
}
