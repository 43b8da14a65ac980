// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskCategory groups tasks in the app's "earn" screen.
type TaskCategory string

const (
	TaskCategoryOneTime TaskCategory = "One Time"
	TaskCategoryDaily   TaskCategory = "Daily"
	TaskCategorySocial  TaskCategory = "Social"
	TaskCategoryGames   TaskCategory = "Games & Products"
)

// TaskCategories lists every valid category in display order.
var TaskCategories = []TaskCategory{
	TaskCategoryOneTime,
	TaskCategoryDaily,
	TaskCategorySocial,
	TaskCategoryGames,
}

// Valid reports whether c is one of the fixed categories.
func (c TaskCategory) Valid() bool {
	for _, known := range TaskCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Task is a rewardable action users complete in the app.
type Task struct {
	ID         uuid.UUID    `json:"id"`
	Title      string       `json:"title"`
	Category   TaskCategory `json:"category"`
	ButtonText string       `json:"buttonText"` // e.g. "Claim", "Post & Claim"
	Reward     int          `json:"reward"`     // points
	ActionURL  *string      `json:"actionUrl,omitempty"`
	IsActive   bool         `json:"isActive"`
	IsSpecial  bool         `json:"isSpecial"` // highlighted in the app
	Order      int          `json:"order"`     // ascending sort key
	CreatedAt  time.Time    `json:"createdAt"`
}

// TaskInput holds the fields supplied when creating a task.
type TaskInput struct {
	Title      string
	Category   TaskCategory
	ButtonText string
	Reward     int
	ActionURL  *string
	IsActive   bool
	IsSpecial  bool
	Order      int
}

// TaskPatch is a partial update. Nil fields are left untouched; an
// ActionURL pointing at "" clears the link.
type TaskPatch struct {
	Title      *string
	Category   *TaskCategory
	ButtonText *string
	Reward     *int
	ActionURL  *string
	IsActive   *bool
	IsSpecial  *bool
	Order      *int
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.ButtonText == nil &&
		p.Reward == nil && p.ActionURL == nil && p.IsActive == nil &&
		p.IsSpecial == nil && p.Order == nil
}

// Apply returns a copy of t with the patch merged in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ButtonText != nil {
		t.ButtonText = *p.ButtonText
	}
	if p.Reward != nil {
		t.Reward = *p.Reward
	}
	if p.ActionURL != nil {
		if url := *p.ActionURL; url != "" {
			t.ActionURL = &url
		} else {
			t.ActionURL = nil
		}
	}
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
	if p.IsSpecial != nil {
		t.IsSpecial = *p.IsSpecial
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	return t
}
