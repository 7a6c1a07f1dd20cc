// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package views holds the server-rendered pages.

The markup lives in named html/templates under templates/. Each page is
exposed as a function returning a templ.Component, so handlers render pages
with views.Login(data).Render(ctx, w).
*/
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// page binds the named template to data.
func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}
