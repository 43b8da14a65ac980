// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin interface
// and the public marketing pages. Admin pages support full-page and HTMX
// partial rendering, detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"zuva/internal/identity"
	"zuva/internal/markdown"
	"zuva/internal/middleware"
	"zuva/internal/session"
)

//go:embed templates
var templateFS embed.FS

// ClientConfig is the public identity-provider web configuration the
// sign-in page and the admin layout need to run the client SDK.
type ClientConfig struct {
	APIKey     string
	AuthDomain string
	ProjectID  string
}

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string              // Page title for <title> tag
	Section   string              // Active sidebar section ("dashboard", "news", "tasks")
	Principal *identity.Principal // Signed-in admin (nil on the login page)
	CSRFToken string              // CSRF token for forms and HTMX headers
	Client    ClientConfig
	Data      map[string]any  // Page-specific data
	Flashes   []session.Flash // One-time notification messages
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template // admin pages
	public    map[string]*template.Template // marketing pages
	funcMap   template.FuncMap
	sessions  *session.Manager
	client    ClientConfig
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout (they have their own <html>, <head>, etc.).
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. Each admin page is paired with the base layout and each
// public page with the public layout. When devMode is true, templates use
// CDN-hosted assets; when false, they reference local static files.
func New(devMode bool, sessions *session.Manager, client ClientConfig) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		public:    make(map[string]*template.Template),
		sessions:  sessions,
		client:    client,
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "bg-indigo-600/10 text-indigo-400"
				}
				return "text-gray-400 hover:bg-gray-800 hover:text-white"
			},
			// deref safely dereferences a string pointer for use in templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			"isDev": func() bool {
				return devMode
			},
			"markdown": markdown.Render,
			"date": func(t time.Time) string {
				if t.IsZero() {
					return ""
				}
				return t.Format("Jan 2, 2006")
			},
			"datetime": func(t time.Time) string {
				return t.Format("Jan 2, 2006 15:04")
			},
			"initial": func(s string) string {
				if s == "" {
					return "?"
				}
				return strings.ToUpper(s[:1])
			},
		},
	}

	if err := r.parseDir("templates/admin", "base.html", r.templates); err != nil {
		return nil, err
	}
	if err := r.parseDir("templates/public", "layout.html", r.public); err != nil {
		return nil, err
	}
	return r, nil
}

// parseDir pairs every page in dir with its layout and stores the result
// under the page name without extension.
func (r *Renderer) parseDir(dir, layout string, into map[string]*template.Template) error {
	entries, err := fs.ReadDir(templateFS, dir)
	if err != nil {
		return fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layout || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standaloneTemplates[tmplName] {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, dir+"/"+name)
		} else {
			tmpl, err = template.New(layout).Funcs(r.funcMap).ParseFS(templateFS, dir+"/"+layout, dir+"/"+name)
		}
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		into[tmplName] = tmpl
	}
	return nil
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
// A pending flash message is consumed and shown either way.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code, used when re-rendering
// a form with validation errors.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	rn.fill(w, r, data)

	execName := "base.html"
	switch {
	case standaloneTemplates[name]:
		execName = name + ".html"
	case isHTMX(r):
		execName = "content"
	}
	rn.execute(w, tmpl, execName, data, status)
}

// Partial renders one named block of an admin page, for HTMX swaps of a
// single element such as a table row.
func (rn *Renderer) Partial(w http.ResponseWriter, r *http.Request, page, block string, data *PageData) {
	tmpl, ok := rn.templates[page]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", page), http.StatusInternalServerError)
		return
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Principal == nil {
		data.Principal = middleware.PrincipalFromCtx(r.Context())
	}
	rn.execute(w, tmpl, block, data, http.StatusOK)
}

// Public renders a marketing page into w. Pages are rendered into a
// writer rather than a response so the result can be cached.
func (rn *Renderer) Public(w io.Writer, name string, data any) error {
	tmpl, ok := rn.public[name]
	if !ok {
		return fmt.Errorf("public template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout.html", data)
}

func (rn *Renderer) fill(w http.ResponseWriter, r *http.Request, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Principal == nil {
		data.Principal = middleware.PrincipalFromCtx(r.Context())
	}
	data.Client = rn.client
	if rn.sessions != nil {
		if f := rn.sessions.PopFlash(w, r); f != nil {
			data.Flashes = append(data.Flashes, *f)
		}
	}
}

// execute renders into a buffer first so a template error never leaves a
// half-written page behind a 200 status.
func (rn *Renderer) execute(w http.ResponseWriter, tmpl *template.Template, name string, data any, status int) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
