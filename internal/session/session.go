// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session manages the browser-side session. The session is the
// identity provider's ID token mirrored into a cookie; no session state is
// kept on the server. A second short-lived cookie carries one-time flash
// messages across redirects.
package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "session"

	// MaxAge is the session cookie lifetime. The token inside expires much
	// sooner and is refreshed by the login page.
	MaxAge = 30 * 24 * time.Hour

	// FlashCookieName carries one pending flash message.
	FlashCookieName = "flash"

	flashMaxAge = time.Minute
)

// Flash kinds, matching the toast styles in the admin layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-time notice shown after a redirect.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Manager sets and clears the session and flash cookies.
type Manager struct {
	secure bool
}

// NewManager creates a Manager. secure marks cookies HTTPS-only.
func NewManager(secure bool) *Manager {
	return &Manager{secure: secure}
}

// Set stores the ID token in the session cookie.
func (m *Manager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the session cookie value, or "" when absent.
func Token(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// Present reports whether the request carries a non-empty session cookie.
func Present(r *http.Request) bool {
	return Token(r) != ""
}

// SetFlash queues a flash message for the next page render.
func (m *Manager) SetFlash(w http.ResponseWriter, kind, message string) {
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   int(flashMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending flash message, if any, and clears it.
func (m *Manager) PopFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(data, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
