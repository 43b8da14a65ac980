// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"zuva/internal/models"
)

const articleColumns = `id, title, excerpt, content, image_url,
	author_email, author_name, author_photo_url,
	is_published, published_at, created_at`

// ArticleStore handles the news collection.
type ArticleStore struct {
	db *sql.DB
}

// NewArticleStore creates a new ArticleStore with the given database connection.
func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.ImageURL,
		&a.Author.Email, &a.Author.Name, &a.Author.PhotoURL,
		&a.IsPublished, &a.PublishedAt, &a.CreatedAt,
	)
	return a, err
}

// ListAll returns every article, newest publish time first.
func (s *ArticleStore) ListAll(ctx context.Context) ([]models.Article, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM news
		ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// FindByID retrieves an article by its UUID. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM news WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news by id: %w", err)
	}
	return &a, nil
}

// Create inserts a new article. Both created_at and published_at are set
// to now and are never written again.
func (s *ArticleStore) Create(ctx context.Context, in models.ArticleInput, now time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO news (title, excerpt, content, image_url,
		                  author_email, author_name, author_photo_url,
		                  is_published, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`, in.Title, in.Excerpt, in.Content, in.ImageURL,
		in.Author.Email, in.Author.Name, in.Author.PhotoURL,
		in.IsPublished, now,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create news: %w", err)
	}
	return id, nil
}

// Update merges the non-nil fields of patch into the article. Timestamps
// and the embedded author are not updatable.
func (s *ArticleStore) Update(ctx context.Context, id uuid.UUID, patch models.ArticlePatch) error {
	var b setBuilder
	if patch.Title != nil {
		b.add("title", *patch.Title)
	}
	if patch.Excerpt != nil {
		b.add("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		b.add("content", *patch.Content)
	}
	if patch.ImageURL != nil {
		b.add("image_url", *patch.ImageURL)
	}
	if patch.IsPublished != nil {
		b.add("is_published", *patch.IsPublished)
	}
	if b.empty() {
		return nil
	}

	query, args := b.build("news", id)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// MarkPublished publishes a draft. It reports whether this call made the
// change, so concurrent saves of the same draft see true exactly once.
func (s *ArticleStore) MarkPublished(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE news SET is_published = true WHERE id = $1 AND NOT is_published`, id)
	if err != nil {
		return false, fmt.Errorf("publish news: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("publish news: %w", err)
	}
	return n == 1, nil
}

// Delete removes an article by ID. Deleting a missing ID is not an error.
func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete news: %w", err)
	}
	return nil
}

// Count returns the number of articles, and how many of them are published.
func (s *ArticleStore) Count(ctx context.Context) (total, published int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_published) FROM news`,
	).Scan(&total, &published)
	if err != nil {
		return 0, 0, fmt.Errorf("count news: %w", err)
	}
	return total, published, nil
}
