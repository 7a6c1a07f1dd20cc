// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"slices"

	"codeberg.org/chargebuddy/chargebuddy/assets/views"
)

// DashboardPath is where a signed-in client lands.
const DashboardPath = "/dashboard"

// dashboardSections are the pages reachable below /dashboard.
var dashboardSections = []string{"stations", "charging-history", "billing", "settings"}

// DashboardPage renders the overview or one of the dashboard sections.
//
// An unknown section responds 404.
func DashboardPage(w http.ResponseWriter, r *http.Request) error {
	section := r.PathValue("path")

	if section != "" && !slices.Contains(dashboardSections, section) {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}

	w.Header().Set("Cache-Control", "private, no-store")
	startPage(w)

	pageData := views.DashboardData{
		Title:    "Dashboard",
		Section:  section,
		Sections: dashboardSections,
	}

	return views.Dashboard(pageData).Render(r.Context(), w)
}
