// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets.

The files are embedded by package main, which owns the assets/ directory,
and assigned to FS at startup.
*/
package assets

import (
	"embed"
)

// FS holds the embedded assets/ directory.
var FS embed.FS
