// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package authgate redirects requests based on whether they carry the
auth-token cookie.

The gate only runs for paths matched by its matcher (by default
"/dashboard/:path*" and "/auth/:path*"); everything else passes through
untouched. For matched paths:

  - an auth page (/auth/login, /auth/register) requested with the cookie
    is redirected to /dashboard;
  - any other page requested without the cookie is redirected to /auth/login;
  - everything else proceeds.

Only the presence of the cookie is checked. Its value is never read or
verified, so any client can get past the gate by sending "auth-token=x".
Pages behind the gate must still authenticate the token themselves before
trusting it.
*/
package authgate
