// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"

	"github.com/golang/gddo/httputil/header"
	"github.com/rs/zerolog/log"

	"codeberg.org/chargebuddy/chargebuddy/assets/views"
	"codeberg.org/chargebuddy/chargebuddy/server/request_context"
)

// ErrorPage writes the status and error stored in the request context as
// the response. Clients that prefer text/plain get a one-line body.
// A missing or invalid status is answered with 500.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	ctx := request_context.FromRequest(r)

	status := ctx.StatusCode
	if status < 100 || status > 999 {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Cache-Control", "no-store")

	if !prefersHTML(r) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)

		_, _ = fmt.Fprintf(w, "%d %s\n", status, http.StatusText(status))

		return
	}

	startPage(w)
	w.WriteHeader(status)

	pageData := views.ErrorData{
		Title:      http.StatusText(status),
		Error:      ctx.RequestError,
		StatusCode: status,
	}

	if err := views.Error(pageData).Render(r.Context(), w); err != nil {
		log.Err(err).Msg("Failed to render the error page")
	}
}

// NotFound answers every path no other route claims.
func NotFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}

// prefersHTML reports whether the Accept header ranks HTML above plain text.
// A request without an Accept header gets HTML.
func prefersHTML(r *http.Request) bool {
	specs := header.ParseAccept(r.Header, "Accept")
	if len(specs) == 0 {
		return true
	}

	htmlQ, textQ := -1.0, 0.0

	for _, accept := range specs {
		switch accept.Value {
		case "text/html", "application/xhtml+xml", "*/*", "text/*":
			if accept.Q > htmlQ {
				htmlQ = accept.Q
			}
		case "text/plain":
			if accept.Q > textQ {
				textQ = accept.Q
			}
		}
	}

	return htmlQ >= textQ
}
