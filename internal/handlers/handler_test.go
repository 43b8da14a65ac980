// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: in-memory repositories, fakes for the external services, and a
// fully wired testEnv.
package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"zuva/internal/cache"
	"zuva/internal/content"
	"zuva/internal/identity"
	"zuva/internal/media"
	"zuva/internal/middleware"
	"zuva/internal/models"
	"zuva/internal/notify"
	"zuva/internal/render"
	"zuva/internal/session"
	"zuva/internal/toggle"
)

var errStorage = errors.New("storage unavailable")

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

// ---------- In-memory repositories ----------

type memArticles struct {
	mu      sync.Mutex
	items   map[uuid.UUID]models.Article
	listErr error
}

func newMemArticles() *memArticles {
	return &memArticles{items: make(map[uuid.UUID]models.Article)}
}

func (m *memArticles) ListAll(ctx context.Context) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Article, 0, len(m.items))
	for _, a := range m.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (m *memArticles) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memArticles) Create(ctx context.Context, in models.ArticleInput, now time.Time) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.items[id] = models.Article{
		ID: id, Title: in.Title, Excerpt: in.Excerpt, Content: in.Content,
		ImageURL: in.ImageURL, Author: in.Author, IsPublished: in.IsPublished,
		PublishedAt: now, CreatedAt: now,
	}
	return id, nil
}

func (m *memArticles) Update(ctx context.Context, id uuid.UUID, patch models.ArticlePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.items[id]; ok {
		m.items[id] = patch.Apply(a)
	}
	return nil
}

func (m *memArticles) MarkPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok || a.IsPublished {
		return false, nil
	}
	a.IsPublished = true
	m.items[id] = a
	return true, nil
}

func (m *memArticles) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memArticles) Count(ctx context.Context) (total, published int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		total++
		if a.IsPublished {
			published++
		}
	}
	return total, published, nil
}

func (m *memArticles) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *memArticles) only(t *testing.T) models.Article {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) != 1 {
		t.Fatalf("stored articles: got %d, want 1", len(m.items))
	}
	for _, a := range m.items {
		return a
	}
	return models.Article{}
}

type memTasks struct {
	mu        sync.Mutex
	items     map[uuid.UUID]models.Task
	updateErr error
	deleteErr error
	// onUpdate, when set, runs before every update outside the lock.
	onUpdate func()
}

func newMemTasks() *memTasks {
	return &memTasks{items: make(map[uuid.UUID]models.Task)}
}

func (m *memTasks) ListAll(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Task, 0, len(m.items))
	for _, t := range m.items {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memTasks) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memTasks) Create(ctx context.Context, in models.TaskInput, now time.Time) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.items[id] = models.Task{
		ID: id, Title: in.Title, Category: in.Category, ButtonText: in.ButtonText,
		Reward: in.Reward, ActionURL: in.ActionURL, IsActive: in.IsActive,
		IsSpecial: in.IsSpecial, Order: in.Order, CreatedAt: now,
	}
	return id, nil
}

func (m *memTasks) Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) error {
	if m.onUpdate != nil {
		m.onUpdate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if t, ok := m.items[id]; ok {
		m.items[id] = patch.Apply(t)
	}
	return nil
}

func (m *memTasks) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.items, id)
	return nil
}

func (m *memTasks) Count(ctx context.Context) (total, active int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		total++
		if t.IsActive {
			active++
		}
	}
	return total, active, nil
}

func (m *memTasks) get(t *testing.T, id uuid.UUID) models.Task {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.items[id]
	if !ok {
		t.Fatalf("task %s not stored", id)
	}
	return task
}

// ---------- External service fakes ----------

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.News
	err  error
}

func (n *recordingNotifier) SendNews(ctx context.Context, news notify.News) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, news)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeUploader struct {
	mu    sync.Mutex
	url   string
	err   error
	files []media.File
}

func (u *fakeUploader) Upload(ctx context.Context, f media.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files = append(u.files, f)
	return u.url, u.err
}

type fakeVerifier struct {
	tokens map[string]*identity.Principal
}

func (v fakeVerifier) Verify(ctx context.Context, token string) (*identity.Principal, error) {
	if p, ok := v.tokens[token]; ok {
		return p, nil
	}
	return nil, identity.ErrInvalidToken
}

// ---------- Test environment ----------

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Articles  *memArticles
	Tasks     *memTasks
	Notifier  *recordingNotifier
	Uploader  *fakeUploader
	Sessions  *session.Manager
	Renderer  *render.Renderer
	PageCache *cache.PageCache
	Redis     *miniredis.Miniredis
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with in-memory storage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sessions := session.NewManager(false)
	renderer, err := render.New(true, sessions, render.ClientConfig{ProjectID: "zuva-test"})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	articleRepo := newMemArticles()
	taskRepo := newMemTasks()
	notifier := &recordingNotifier{}
	uploader := &fakeUploader{url: "https://cdn.example.com/uploaded.png"}

	articles := content.NewArticles(articleRepo, time.Now)
	tasks := content.NewTasks(taskRepo, time.Now)
	publisher := content.NewPublisher(articles, notifier)
	pageCache := cache.NewPageCache(client, time.Minute)

	verifier := fakeVerifier{tokens: map[string]*identity.Principal{
		"good-token": testPrincipal(),
	}}

	return &testEnv{
		Articles:  articleRepo,
		Tasks:     taskRepo,
		Notifier:  notifier,
		Uploader:  uploader,
		Sessions:  sessions,
		Renderer:  renderer,
		PageCache: pageCache,
		Redis:     mr,
		Admin:     NewAdmin(renderer, sessions, articles, publisher, tasks, uploader, toggle.NewTracker()),
		Auth:      NewAuth(renderer, sessions, verifier),
		Public:    NewPublic(renderer, pageCache),
	}
}

func testPrincipal() *identity.Principal {
	return &identity.Principal{
		UID:           "uid-1",
		Email:         "admin@zuva.network",
		EmailVerified: true,
		Name:          "Test Admin",
		Picture:       "https://cdn.example.com/avatar.png",
	}
}

// withPrincipal places the signed-in admin in the request context, as
// Authorize does.
func withPrincipal(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.PrincipalKey, testPrincipal()))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// formRequest builds an url-encoded POST.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a multipart POST with fields and an optional
// "image" file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, filename string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(file)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// flashFrom replays the response's cookies and pops the queued flash.
func flashFrom(t *testing.T, env *testEnv, rec *httptest.ResponseRecorder) *session.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return env.Sessions.PopFlash(httptest.NewRecorder(), req)
}

// expectFlash asserts the response queued a flash with the given message.
func expectFlash(t *testing.T, env *testEnv, rec *httptest.ResponseRecorder, kind, msg string) {
	t.Helper()
	f := flashFrom(t, env, rec)
	if f == nil {
		t.Fatalf("no flash queued, want %q", msg)
	}
	if f.Kind != kind || f.Message != msg {
		t.Errorf("flash: got %s %q, want %s %q", f.Kind, f.Message, kind, msg)
	}
}

// expectRedirect asserts a 303 to location.
func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Location: got %q, want %q", got, location)
	}
}

// sessionCookie returns the session cookie set by the response, if any.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}
