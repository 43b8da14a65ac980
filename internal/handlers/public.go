// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"zuva/internal/cache"
	"zuva/internal/render"
)

// Feature is one card on the landing page.
type Feature struct {
	Title string
	Text  string
}

var features = []Feature{
	{"Mobile First Design", "Optimized for seamless experience on all your devices"},
	{"Computationally Effective", "Lightweight protocols that won't drain your battery"},
	{"User Friendly Interface", "Intuitive design making crypto accessible to everyone"},
	{"Rewards", "Earn consistent rewards for participating in the network"},
}

// homePage is the data of the landing page.
type homePage struct {
	Title    string
	Year     int
	Features []Feature
}

// policyPage is the data of the child safety policy page.
type policyPage struct {
	Title         string
	Year          int
	EffectiveDate string
	Company       string
	App           string
	ReportEmail   string
	SupportEmail  string
}

// Public serves the marketing pages. Rendered pages are kept in the
// Valkey page cache; a cache outage only costs a re-render.
type Public struct {
	renderer *render.Renderer
	cache    *cache.PageCache
	now      func() time.Time
}

// NewPublic creates the public page handlers. pageCache may be nil.
func NewPublic(renderer *render.Renderer, pageCache *cache.PageCache) *Public {
	return &Public{renderer: renderer, cache: pageCache, now: time.Now}
}

// Home renders the landing page.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, cache.HomeKey, "home", homePage{
		Title:    "Zuva Network",
		Year:     p.now().Year(),
		Features: features,
	})
}

// CSAEPolicy renders the child sexual abuse and exploitation policy.
func (p *Public) CSAEPolicy(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, cache.PolicyKey, "csae_policy", policyPage{
		Title:         "CSAE Policy | Zuva Network",
		Year:          p.now().Year(),
		EffectiveDate: "February 22, 2026",
		Company:       "Zuva Network",
		App:           "Zuva Network",
		ReportEmail:   "abuse.zuvanetwork@gmail.com",
		SupportEmail:  "support@zuva.network",
	})
}

func (p *Public) serve(w http.ResponseWriter, r *http.Request, key, page string, data any) {
	ctx := r.Context()

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, key); ok {
			writeHTML(w, cached)
			return
		}
	}

	var buf bytes.Buffer
	if err := p.renderer.Public(&buf, page, data); err != nil {
		slog.Error("render public page failed", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, buf.Bytes())
	}
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
