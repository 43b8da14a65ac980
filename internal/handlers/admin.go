// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"zuva/internal/content"
	"zuva/internal/media"
	"zuva/internal/render"
	"zuva/internal/session"
	"zuva/internal/toggle"
)

// Admin groups all admin dashboard HTTP handlers and their dependencies.
// Every route it serves sits behind Authorize.
type Admin struct {
	renderer  *render.Renderer
	sessions  *session.Manager
	articles  *content.Articles
	publisher *content.Publisher
	tasks     *content.Tasks
	uploader  media.Uploader
	toggles   *toggle.Tracker
}

// NewAdmin creates a new Admin handler group. A nil uploader rejects every
// image upload with media.ErrNotConfigured.
func NewAdmin(renderer *render.Renderer, sessions *session.Manager, articles *content.Articles, publisher *content.Publisher, tasks *content.Tasks, uploader media.Uploader, toggles *toggle.Tracker) *Admin {
	if uploader == nil {
		uploader = media.Unconfigured{}
	}
	if toggles == nil {
		toggles = toggle.NewTracker()
	}
	return &Admin{
		renderer:  renderer,
		sessions:  sessions,
		articles:  articles,
		publisher: publisher,
		tasks:     tasks,
		uploader:  uploader,
		toggles:   toggles,
	}
}

// Dashboard renders the welcome page with article and task counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	articles, published, err := a.articles.Count(r.Context())
	if err != nil {
		slog.Error("count articles failed", "error", err)
	}
	tasks, active, err := a.tasks.Count(r.Context())
	if err != nil {
		slog.Error("count tasks failed", "error", err)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"ArticleCount":   articles,
			"PublishedCount": published,
			"TaskCount":      tasks,
			"ActiveCount":    active,
		},
	})
}

// deleted answers a row delete. HTMX requests get an empty body, which
// removes the row, plus an out-of-band toast; plain requests are
// redirected back to the list with a flash.
func (a *Admin) deleted(w http.ResponseWriter, r *http.Request, page, listPath string, flash session.Flash) {
	if isHTMX(r) {
		if flash.Kind == session.FlashError {
			w.Header().Set("HX-Reswap", "none")
		}
		a.renderer.Partial(w, r, page, "toasts_oob", &render.PageData{
			Flashes: []session.Flash{flash},
		})
		return
	}
	a.sessions.SetFlash(w, flash.Kind, flash.Message)
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}
