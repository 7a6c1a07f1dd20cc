// Copyright 2025, the ChargeBuddy contributors
// SPDX-License-Identifier: AGPL-3.0-only

package authgate

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"codeberg.org/chargebuddy/chargebuddy/core/audit"
	"codeberg.org/chargebuddy/chargebuddy/core/cookie"
	"codeberg.org/chargebuddy/chargebuddy/core/untrusted"
	"codeberg.org/chargebuddy/chargebuddy/server/pathmatch"
	"codeberg.org/chargebuddy/chargebuddy/server/request_context"
	"codeberg.org/chargebuddy/chargebuddy/server/utils"
)

// RedirectStatus is the status code of every gate redirect.
const RedirectStatus = http.StatusTemporaryRedirect

var (
	errNoMatcher      = errors.New("authgate: at least one matcher pattern is required")
	errRelativeTarget = errors.New("authgate: redirect targets must be absolute paths")
	errNoTokenCookie  = errors.New("authgate: token cookie name is required")
)

// Options declares which requests the gate intercepts and where it sends them.
type Options struct {
	// Matcher lists the pathmatch patterns the gate runs for.
	Matcher []string
	// AuthPages are the exact paths reachable without a token.
	AuthPages []string
	// TokenCookie is the cookie whose presence marks a signed-in client.
	TokenCookie cookie.CookieName
	// DashboardPath is where signed-in clients are sent from auth pages.
	DashboardPath string
	// LoginPath is where clients without a token are sent.
	LoginPath string
}

// DefaultOptions is the static gate declaration for this application.
var DefaultOptions = Options{
	Matcher:       []string{"/dashboard/:path*", "/auth/:path*"},
	AuthPages:     []string{"/auth/login", "/auth/register"},
	TokenCookie:   cookie.AuthTokenCookie,
	DashboardPath: "/dashboard",
	LoginPath:     "/auth/login",
}

// Default is the gate built from DefaultOptions at process start.
var Default = MustNew(DefaultOptions)

// Gate is a compiled, immutable Options. It is safe for concurrent use.
type Gate struct {
	matcher       *pathmatch.Set
	authPages     []string
	tokenCookie   cookie.CookieName
	dashboardPath string
	loginPath     string
}

// New validates opts and compiles its matcher.
func New(opts Options) (*Gate, error) {
	if len(opts.Matcher) == 0 {
		return nil, errNoMatcher
	}

	if opts.TokenCookie == "" {
		return nil, errNoTokenCookie
	}

	for _, target := range []string{opts.DashboardPath, opts.LoginPath} {
		if len(target) == 0 || target[0] != '/' {
			return nil, fmt.Errorf("%w: %q", errRelativeTarget, target)
		}
	}

	matcher, err := pathmatch.NewSet(opts.Matcher...)
	if err != nil {
		return nil, fmt.Errorf("authgate: %w", err)
	}

	return &Gate{
		matcher:       matcher,
		authPages:     slices.Clone(opts.AuthPages),
		tokenCookie:   opts.TokenCookie,
		dashboardPath: opts.DashboardPath,
		loginPath:     opts.LoginPath,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(opts Options) *Gate {
	g, err := New(opts)
	if err != nil {
		panic(err)
	}

	return g
}

// Intercepts reports whether the gate runs for path at all.
func (g *Gate) Intercepts(path string) bool {
	return g.matcher.Match(path)
}

// IsAuthPage reports whether path is exactly one of the auth pages.
func (g *Gate) IsAuthPage(path string) bool {
	return slices.Contains(g.authPages, path)
}

// Decide applies the gate rules to a path and token presence.
//
// It does not consult the matcher; callers that need the bypass for
// unmatched paths use Evaluate or Handle.
func (g *Gate) Decide(path string, hasToken bool) Decision {
	isAuthPage := g.IsAuthPage(path)

	switch {
	case isAuthPage && hasToken:
		return RedirectToDashboard
	case !isAuthPage && !hasToken:
		return RedirectToLogin
	default:
		return Allow
	}
}

// Evaluate returns the decision for r, or Allow if r is not intercepted.
func (g *Gate) Evaluate(r *http.Request) Decision {
	if !g.Intercepts(r.URL.Path) {
		return Allow
	}

	return g.Decide(r.URL.Path, untrusted.HasCookie(r, g.tokenCookie))
}

// Handle is the gate middleware.
func (g *Gate) Handle(w http.ResponseWriter, r *http.Request, next http.Handler) {
	decision := g.Evaluate(r)
	if !decision.IsRedirect() {
		next.ServeHTTP(w, r)

		return
	}

	ctx := request_context.FromRequest(r)
	ctx.StatusCode = RedirectStatus

	span := audit.Span{
		Kind:       audit.KindGate,
		RequestID:  ctx.RequestID,
		Method:     r.Method,
		URL:        r.URL.String(),
		StatusCode: RedirectStatus,
		Decision:   decision.String(),
	}

	_ = span.Begin(r.Context())

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, utils.ResolveOnOrigin(r, g.target(decision)), RedirectStatus)

	span.End()
	span.Log()
}

// Patterns returns the source patterns of the gate's matcher.
func (g *Gate) Patterns() []string {
	return g.matcher.Patterns()
}

func (g *Gate) target(d Decision) string {
	switch d {
	case RedirectToDashboard:
		return g.dashboardPath
	case RedirectToLogin:
		return g.loginPath
	default:
		return ""
	}
}

// Decide applies the rules of the Default gate.
func Decide(path string, hasToken bool) Decision {
	return Default.Decide(path, hasToken)
}

// Handle runs the Default gate as a middleware.
func Handle(w http.ResponseWriter, r *http.Request, next http.Handler) {
	Default.Handle(w, r, next)
}
