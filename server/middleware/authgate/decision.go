// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package authgate

// Decision is the outcome of evaluating a single request.
type Decision int

const (
	// Allow lets the request proceed to the router.
	Allow Decision = iota
	// RedirectToDashboard sends an already signed-in client away from an auth page.
	RedirectToDashboard
	// RedirectToLogin sends a client without a token to the login page.
	RedirectToLogin
)

// String implements fmt.Stringer.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	case RedirectToLogin:
		return "redirect-to-login"
	default:
		return "unknown"
	}
}

// IsRedirect reports whether the decision produces a redirect response.
func (d Decision) IsRedirect() bool {
	return d == RedirectToDashboard || d == RedirectToLogin
}

// Target returns the path the default gate redirects to, or "" for Allow.
func (d Decision) Target() string {
	return Default.target(d)
}
