// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"zuva/internal/metrics"
	"zuva/internal/models"
	"zuva/internal/notify"
)

// Notifier announces newly published articles. *notify.OneSignal satisfies it.
type Notifier interface {
	SendNews(ctx context.Context, n notify.News) error
}

// DefaultNotifyTimeout bounds a single notification attempt.
const DefaultNotifyTimeout = 10 * time.Second

// PublishResult describes the outcome of a save through the Publisher.
type PublishResult struct {
	ID uuid.UUID
	// Article is the record as it stands after the save.
	Article models.Article
	// Announced is true when the save moved the article from draft to
	// published and a notification was attempted.
	Announced bool
	// NotifyErr is the notification failure, if any. It never fails the save.
	NotifyErr error
}

// Published reports whether the article is published after the save.
func (r PublishResult) Published() bool {
	return r.Article.IsPublished
}

// ShouldNotify reports whether a save that moved isPublished from was to
// now must announce the article.
func ShouldNotify(was, now bool) bool {
	return !was && now
}

// Publisher saves articles and announces the draft to published transition.
type Publisher struct {
	articles *Articles
	notifier Notifier
	timeout  time.Duration
}

// NewPublisher creates a Publisher. A nil notifier disables announcements.
func NewPublisher(articles *Articles, notifier Notifier) *Publisher {
	return &Publisher{articles: articles, notifier: notifier, timeout: DefaultNotifyTimeout}
}

// Create stores a new article and announces it when it is created published.
func (p *Publisher) Create(ctx context.Context, in models.ArticleInput) (PublishResult, error) {
	id, err := p.articles.Create(ctx, in)
	if err != nil {
		return PublishResult{}, err
	}

	res := PublishResult{
		ID: id,
		Article: models.Article{
			ID:          id,
			Title:       in.Title,
			Excerpt:     in.Excerpt,
			Content:     in.Content,
			ImageURL:    in.ImageURL,
			Author:      in.Author,
			IsPublished: in.IsPublished,
		},
	}
	if ShouldNotify(false, in.IsPublished) {
		res.Announced = true
		res.NotifyErr = p.announce(ctx, res.Article)
	}
	return res, nil
}

// Update merges patch into the article and announces it when the save
// moved it from draft to published. Publishing goes through a conditional
// write, so of several concurrent saves of one draft only the save that
// flipped the flag announces. Returns ErrNotFound for a missing article.
func (p *Publisher) Update(ctx context.Context, id uuid.UUID, patch models.ArticlePatch) (PublishResult, error) {
	prior, err := p.articles.Get(ctx, id)
	if err != nil {
		return PublishResult{}, err
	}
	if prior == nil {
		return PublishResult{}, ErrNotFound
	}

	publish := patch.IsPublished != nil && *patch.IsPublished
	fields := patch
	if publish {
		fields.IsPublished = nil
	}
	if !fields.IsEmpty() {
		if err := p.articles.Update(ctx, id, fields); err != nil {
			return PublishResult{}, err
		}
	}

	res := PublishResult{ID: id, Article: patch.Apply(*prior)}
	if !publish {
		return res, nil
	}

	changed, err := p.articles.MarkPublished(ctx, id)
	if err != nil {
		return PublishResult{}, err
	}
	if changed {
		res.Announced = true
		res.NotifyErr = p.announce(ctx, res.Article)
	}
	return res, nil
}

// announce sends the notification and records its outcome. Failures are
// logged and returned for display, never propagated as save errors.
func (p *Publisher) announce(ctx context.Context, a models.Article) error {
	if p.notifier == nil {
		metrics.RecordNotification(metrics.OutcomeNotConfigured)
		return notify.ErrNotConfigured
	}

	n := notify.News{ID: a.ID.String(), Title: a.Title, Excerpt: a.Excerpt}
	if a.ImageURL != nil {
		n.ImageURL = *a.ImageURL
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	err := p.notifier.SendNews(ctx, n)
	switch {
	case err == nil:
		metrics.RecordNotification(metrics.OutcomeOK)
	case errors.Is(err, notify.ErrNotConfigured):
		metrics.RecordNotification(metrics.OutcomeNotConfigured)
		slog.Error("push notification skipped", "news_id", n.ID, "error", err)
	default:
		metrics.RecordNotification(metrics.OutcomeFailed)
		slog.Error("push notification failed", "news_id", n.ID, "error", err)
	}
	return err
}
