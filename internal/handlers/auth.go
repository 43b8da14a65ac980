// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"zuva/internal/identity"
	"zuva/internal/middleware"
	"zuva/internal/render"
	"zuva/internal/session"
)

// Auth groups the sign-in and session handlers. Sign-in itself happens in
// the browser against the identity provider; these handlers only move the
// resulting ID token in and out of the session cookie.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Manager
	verifier identity.Verifier
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Manager, verifier identity.Verifier) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		verifier: verifier,
	}
}

// LoginPage renders the popup sign-in page. The unauthorized banner shows
// when Authorize rejected a signed-in account that is not whitelisted.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data: map[string]any{
			"Unauthorized": r.URL.Query().Get("error") == "unauthorized",
		},
	})
}

// CreateSession verifies a posted ID token and mirrors it into the session
// cookie. The page posts here after sign-in and on every token refresh.
// Whitelist membership is not checked here; Authorize does that on every
// admin request.
func (a *Auth) CreateSession(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, message{Message: "Token is required"})
		return
	}

	p, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		slog.Info("session token rejected", "error", err)
		a.sessions.Clear(w)
		writeJSON(w, http.StatusUnauthorized, message{Message: "Invalid token"})
		return
	}

	a.sessions.Set(w, token)
	slog.Info("session established", "email", p.Email)
	w.WriteHeader(http.StatusNoContent)
}

// ClearSession drops the session cookie and returns to the login page.
// The page calls it when the identity provider reports a signed-out user.
func (a *Auth) ClearSession(w http.ResponseWriter, r *http.Request) {
	a.sessions.Clear(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Logout ends the session. The page signs out of the identity provider
// before submitting the form.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if p := middleware.PrincipalFromCtx(r.Context()); p != nil {
		slog.Info("admin signed out", "email", p.Email)
	}
	a.sessions.Clear(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}
