// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"zuva/internal/models"
	"zuva/internal/notify"
)

var errStorage = errors.New("storage unavailable")

// memArticles is an in-memory ArticleRepository.
type memArticles struct {
	mu        sync.Mutex
	items     map[uuid.UUID]models.Article
	updateErr error
}

func newMemArticles() *memArticles {
	return &memArticles{items: make(map[uuid.UUID]models.Article)}
}

func (m *memArticles) ListAll(ctx context.Context) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	if m.updateErr != nil {
		return m.updateErr
	}
	if a, ok := m.items[id]; ok {
		m.items[id] = patch.Apply(a)
	}
	return nil
}

func (m *memArticles) MarkPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return false, m.updateErr
	}
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

// memTasks is an in-memory TaskRepository.
type memTasks struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Task
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
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.items[id]; ok {
		m.items[id] = patch.Apply(t)
	}
	return nil
}

func (m *memTasks) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

// recordingNotifier captures every announcement.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.News
	err  error
}

func (r *recordingNotifier) SendNews(ctx context.Context, n notify.News) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

// fixedClock returns a Clock that reports t and can be advanced.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time          { return c.t }
func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }
