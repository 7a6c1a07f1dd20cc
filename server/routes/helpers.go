// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
)

// stylesheetPath is the single stylesheet every page links to.
const stylesheetPath = "/css/site.css"

// makePreloadLink returns a Link header fragment that preloads url as kind.
func makePreloadLink(url, kind string) string {
	return fmt.Sprintf("<%s>; rel=\"preload\"; as=%q", url, kind)
}

// preloadPageAssets hints the stylesheet to the browser before the body arrives.
func preloadPageAssets(w http.ResponseWriter) {
	w.Header().Add("Link", makePreloadLink(stylesheetPath, "style"))
}

// startPage sets the headers shared by every rendered page.
func startPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	preloadPageAssets(w)
}
