// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// Zuva site. It organizes routes into public, auth, OTP API and admin
// groups with the middleware stack each one needs.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"zuva/internal/handlers"
	"zuva/internal/identity"
	"zuva/internal/media"
	"zuva/internal/metrics"
	"zuva/internal/middleware"
	"zuva/internal/session"
)

// maxAdminBody caps admin request bodies: one image plus the article form.
const maxAdminBody = media.MaxSize + 2<<20

// Deps are the handlers and services the routes are built from.
type Deps struct {
	Sessions *session.Manager
	Verifier identity.Verifier
	Admins   middleware.Whitelist

	Admin        *handlers.Admin
	Auth         *handlers.Auth
	Public       *handlers.Public
	Verification *handlers.Verification
	Health       http.Handler

	// OTPLimiter throttles the OTP endpoints. Nil disables throttling.
	OTPLimiter *middleware.RateLimiter
	// Static holds the files served under /static/.
	Static fs.FS
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.SessionGate)

	// Operational endpoints: no session, no CSRF.
	r.Method(http.MethodGet, "/health", d.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))
	}

	// OTP API for the mobile app. JSON clients hold no CSRF cookie, so
	// these are throttled per client instead.
	r.Route("/api/auth", func(r chi.Router) {
		if d.OTPLimiter != nil {
			r.Use(d.OTPLimiter.Middleware)
		}
		r.Post("/send-otp", d.Verification.SendCode)
		r.Post("/verify-otp", d.Verification.VerifyCode)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.SecureCookies))

		// Marketing site.
		r.Get("/", d.Public.Home)
		r.Get("/csae-policy", d.Public.CSAEPolicy)

		// Sign-in and the session cookie.
		r.Get(middleware.LoginPath, d.Auth.LoginPage)
		r.Post("/session", d.Auth.CreateSession)
		r.Get("/api/clear-session", d.Auth.ClearSession)
		r.Post("/logout", d.Auth.Logout)
	})

	// Admin area. The size cap runs before CSRF, which parses the body.
	r.Route("/admin", func(r chi.Router) {
		r.Use(chimw.RequestSize(maxAdminBody))
		r.Use(middleware.NewCSRF(d.SecureCookies))
		r.Use(middleware.Authorize(d.Verifier, d.Admins, d.Sessions))

		r.Get("/", d.Admin.Dashboard)
		r.Get("/dashboard", d.Admin.Dashboard)

		r.Route("/news", func(r chi.Router) {
			r.Get("/", d.Admin.NewsList)
			r.Get("/create", d.Admin.NewsNew)
			r.Post("/", d.Admin.NewsCreate)
			r.Post("/preview", d.Admin.NewsPreview)
			r.Get("/{id}", d.Admin.NewsShow)
			r.Get("/{id}/edit", d.Admin.NewsEdit)
			r.Post("/{id}", d.Admin.NewsUpdate)
			r.Post("/{id}/delete", d.Admin.NewsDelete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", d.Admin.TasksList)
			r.Get("/create", d.Admin.TaskNew)
			r.Post("/", d.Admin.TaskCreate)
			r.Get("/{id}/edit", d.Admin.TaskEdit)
			r.Post("/{id}", d.Admin.TaskUpdate)
			r.Post("/{id}/delete", d.Admin.TaskDelete)
			r.Post("/{id}/toggle", d.Admin.TaskToggle)
		})
	})

	return r
}
