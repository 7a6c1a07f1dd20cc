// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package reads and clears public state in a request.

Public state -- HTTP cookies -- is received from the user agent and can be anything.

The user controls all of it.
*/
package untrusted
