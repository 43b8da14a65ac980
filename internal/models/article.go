// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Author is the admin who created an article, embedded in the article row.
type Author struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photoURL,omitempty"`
}

// Article is a News entry shown in the mobile app. PublishedAt and
// CreatedAt are set once at creation and never change afterwards.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"` // Markdown
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Author      Author    `json:"author"`
	IsPublished bool      `json:"isPublished"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ArticleInput holds the fields supplied when creating an article.
// ID and timestamps are assigned by the store.
type ArticleInput struct {
	Title       string
	Excerpt     string
	Content     string
	ImageURL    *string
	Author      Author
	IsPublished bool
}

// ArticlePatch is a partial update. Nil fields are left untouched.
// Author, PublishedAt and CreatedAt cannot be patched.
type ArticlePatch struct {
	Title       *string
	Excerpt     *string
	Content     *string
	ImageURL    *string
	IsPublished *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Content == nil &&
		p.ImageURL == nil && p.IsPublished == nil
}

// Apply returns a copy of a with the patch merged in.
func (p ArticlePatch) Apply(a Article) Article {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.ImageURL != nil {
		url := *p.ImageURL
		a.ImageURL = &url
	}
	if p.IsPublished != nil {
		a.IsPublished = *p.IsPublished
	}
	return a
}
