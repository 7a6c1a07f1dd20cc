// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package pathmatch compiles route matcher patterns such as "/dashboard/:path*".

A pattern is a sequence of "/"-separated segments. A segment is either a
literal, which must equal the request segment exactly, or a named parameter:

	:name    exactly one segment
	:name?   zero or one segment (last segment only)
	:name*   zero or more segments (last segment only)
	:name+   one or more segments (last segment only)

So "/dashboard/:path*" matches "/dashboard", "/dashboard/billing" and
"/dashboard/billing/invoices/42", but not "/dashboards".

Trailing slashes on the request path are ignored.
*/
package pathmatch
