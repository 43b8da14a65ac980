// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"zuva/internal/identity"
	"zuva/internal/metrics"
	"zuva/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// PrincipalKey is the context key for the authorized admin.
	PrincipalKey contextKey = "principal"
)

const (
	// LoginPath is the only unauthenticated entry point to the admin area.
	LoginPath = "/login"
	// DashboardPath is where signed-in users land.
	DashboardPath = "/admin/dashboard"
	// UnauthorizedPath tells the login page the account is not whitelisted.
	UnauthorizedPath = LoginPath + "?error=unauthorized"
)

// Whitelist reports whether an email may use the admin area.
// *store.AdminStore satisfies it.
type Whitelist interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// IsProtectedPath reports whether path is inside the admin area.
func IsProtectedPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// SessionGate is a cheap pre-filter on cookie presence only. Protected
// paths without a session cookie go to the login page; the login page with
// a session cookie goes to the dashboard. It never validates the token, so
// protected routes must also run Authorize.
func SessionGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		has := session.Present(r)
		switch {
		case !has && IsProtectedPath(r.URL.Path):
			redirect(w, r, LoginPath)
			return
		case has && r.URL.Path == LoginPath:
			redirect(w, r, DashboardPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authorize performs the authoritative check on every protected request:
// session cookie, token verification, email claim, verified email, and
// whitelist membership, in that order. Any failure clears the session
// cookie and redirects to the login page; a non-whitelisted account gets
// the unauthorized indicator. On success the principal is stored in the
// request context for PrincipalFromCtx.
func Authorize(verifier identity.Verifier, admins Whitelist, sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deny := func(result, target string) {
				metrics.RecordAuthorization(result)
				sessions.Clear(w)
				redirect(w, r, target)
			}

			token := session.Token(r)
			if token == "" {
				deny("no_session", LoginPath)
				return
			}

			p, err := verifier.Verify(r.Context(), token)
			if err != nil {
				result := "invalid_token"
				if errors.Is(err, identity.ErrNoEmail) {
					result = "no_email"
				}
				slog.Info("session rejected", "reason", result, "error", err)
				deny(result, LoginPath)
				return
			}

			if !p.EmailVerified {
				slog.Info("session rejected", "reason", "unverified_email", "email", p.Email)
				deny("unverified_email", LoginPath)
				return
			}

			ok, err := admins.Exists(r.Context(), p.Email)
			if err != nil {
				slog.Error("admin whitelist lookup failed", "email", p.Email, "error", err)
				deny("lookup_error", LoginPath)
				return
			}
			if !ok {
				slog.Warn("non-whitelisted sign-in attempt", "email", p.Email)
				deny("unauthorized", UnauthorizedPath)
				return
			}

			metrics.RecordAuthorization("ok")
			ctx := context.WithValue(r.Context(), PrincipalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromCtx extracts the authorized admin from the request context.
// Returns nil outside Authorize.
func PrincipalFromCtx(ctx context.Context) *identity.Principal {
	p, _ := ctx.Value(PrincipalKey).(*identity.Principal)
	return p
}

// redirect sends a 303 to target. HTMX requests get an HX-Redirect header
// instead so the whole page navigates rather than a fragment swap.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
