// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes contains the page handlers.

Fallible handlers have the signature func(w, r) error and are wrapped by
middleware.CatchError, which renders the error page when they fail or
respond with 404.
*/
package routes
