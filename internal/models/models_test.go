// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

// TestTaskCategoryValid verifies that only the four fixed categories are accepted.
func TestTaskCategoryValid(t *testing.T) {
	tests := []struct {
		name string
		cat  TaskCategory
		want bool
	}{
		{name: "one time", cat: "One Time", want: true},
		{name: "daily", cat: "Daily", want: true},
		{name: "social", cat: "Social", want: true},
		{name: "games", cat: "Games & Products", want: true},
		{name: "lowercase daily", cat: "daily", want: false},
		{name: "empty", cat: "", want: false},
		{name: "unknown", cat: "Weekly", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cat.Valid(); got != tt.want {
				t.Errorf("TaskCategory(%q).Valid() = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

// TestArticlePatchApply verifies partial merges leave timestamps and
// unspecified fields alone.
func TestArticlePatchApply(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	orig := Article{
		Title:       "Old",
		Excerpt:     "old excerpt",
		Content:     "# old",
		Author:      Author{Email: "a@zuva.network", Name: "A"},
		IsPublished: false,
		PublishedAt: created,
		CreatedAt:   created,
	}

	got := ArticlePatch{Title: ptr("New"), IsPublished: ptr(true)}.Apply(orig)

	if got.Title != "New" {
		t.Errorf("Title = %q, want New", got.Title)
	}
	if !got.IsPublished {
		t.Error("IsPublished = false, want true")
	}
	if got.Excerpt != orig.Excerpt || got.Content != orig.Content {
		t.Error("unpatched fields changed")
	}
	if !got.PublishedAt.Equal(created) || !got.CreatedAt.Equal(created) {
		t.Error("timestamps changed by Apply")
	}
	if orig.Title != "Old" {
		t.Error("Apply mutated the original")
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(ArticlePatch{}).IsEmpty() {
		t.Error("zero ArticlePatch should be empty")
	}
	if (ArticlePatch{Excerpt: ptr("")}).IsEmpty() {
		t.Error("ArticlePatch with an empty-string field is not empty")
	}
	if !(TaskPatch{}).IsEmpty() {
		t.Error("zero TaskPatch should be empty")
	}
	if (TaskPatch{IsActive: ptr(false)}).IsEmpty() {
		t.Error("TaskPatch with IsActive=false is not empty")
	}
}

func TestTaskPatchApply(t *testing.T) {
	orig := Task{Title: "Follow", Category: TaskCategorySocial, IsActive: true, Order: 3}
	got := TaskPatch{IsActive: ptr(false), Reward: ptr(25)}.Apply(orig)

	if got.IsActive {
		t.Error("IsActive = true, want false")
	}
	if got.Reward != 25 {
		t.Errorf("Reward = %d, want 25", got.Reward)
	}
	if got.Title != "Follow" || got.Order != 3 || got.Category != TaskCategorySocial {
		t.Errorf("unpatched fields changed: %+v", got)
	}
}

func TestTaskPatchApplyClearsActionURL(t *testing.T) {
	orig := Task{Title: "Follow", ActionURL: ptr("https://x.com/zuva")}

	if got := (TaskPatch{ActionURL: ptr("")}).Apply(orig); got.ActionURL != nil {
		t.Errorf("ActionURL = %q, want nil", *got.ActionURL)
	}
	got := TaskPatch{ActionURL: ptr("https://t.me/zuva")}.Apply(orig)
	if got.ActionURL == nil || *got.ActionURL != "https://t.me/zuva" {
		t.Errorf("ActionURL = %v, want the new link", got.ActionURL)
	}
	if *orig.ActionURL != "https://x.com/zuva" {
		t.Error("Apply modified the original task")
	}
}

func TestVerificationCodeExpired(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	code := VerificationCode{Code: "482913", CreatedAt: t0.UnixMilli(), ExpiresAt: t0.Add(10 * time.Minute).UnixMilli()}

	if code.Expired(t0.Add(9 * time.Minute)) {
		t.Error("code expired at t0+9m")
	}
	if code.Expired(t0.Add(10 * time.Minute)) {
		t.Error("code expired exactly at expiry; expiry is exclusive")
	}
	if !code.Expired(t0.Add(11 * time.Minute)) {
		t.Error("code not expired at t0+11m")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}
