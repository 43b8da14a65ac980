// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"zuva/internal/models"
)

// ArticleRepository persists articles. *store.ArticleStore satisfies it.
type ArticleRepository interface {
	ListAll(ctx context.Context) ([]models.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	Create(ctx context.Context, in models.ArticleInput, now time.Time) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, patch models.ArticlePatch) error
	MarkPublished(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (total, published int, err error)
}

// Articles is the News service.
type Articles struct {
	repo ArticleRepository
	now  Clock
}

// NewArticles creates an Articles service. A nil clock uses time.Now.
func NewArticles(repo ArticleRepository, now Clock) *Articles {
	if now == nil {
		now = time.Now
	}
	return &Articles{repo: repo, now: now}
}

// ListAll returns every article, newest first.
func (s *Articles) ListAll(ctx context.Context) ([]models.Article, error) {
	return s.repo.ListAll(ctx)
}

// Get returns the article or nil when it does not exist.
func (s *Articles) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new article and returns its ID. Creation and publish
// timestamps are both set to the current time.
func (s *Articles) Create(ctx context.Context, in models.ArticleInput) (uuid.UUID, error) {
	if strings.TrimSpace(in.Title) == "" {
		return uuid.Nil, invalid("title is required")
	}
	if in.Author.Email == "" {
		return uuid.Nil, invalid("author email is required")
	}
	id, err := s.repo.Create(ctx, in, s.now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("create article: %w", err)
	}
	return id, nil
}

// Update merges the supplied fields. Timestamps are never modified.
func (s *Articles) Update(ctx context.Context, id uuid.UUID, patch models.ArticlePatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return invalid("title cannot be empty")
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return nil
}

// MarkPublished publishes a draft and reports whether this call did it.
// An article that is already published, or missing, reports false.
func (s *Articles) MarkPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	changed, err := s.repo.MarkPublished(ctx, id)
	if err != nil {
		return false, fmt.Errorf("publish article: %w", err)
	}
	return changed, nil
}

// Delete removes the article. Deleting a missing article succeeds.
func (s *Articles) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// Count returns the number of articles and how many are published.
func (s *Articles) Count(ctx context.Context) (total, published int, err error) {
	total, published, err = s.repo.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count articles: %w", err)
	}
	return total, published, nil
}
