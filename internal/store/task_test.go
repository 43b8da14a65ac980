// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"zuva/internal/models"
)

func TestTaskStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	title := "test-task-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTasks(t, db, title) })

	id, err := s.Create(ctx, models.TaskInput{
		Title:      title,
		Category:   models.TaskCategorySocial,
		ButtonText: "Follow",
		Reward:     250,
		ActionURL:  strPtr("https://x.com/zuva"),
		IsActive:   true,
		Order:      3,
	}, time.Now())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := s.FindByID(ctx, id)
	if err != nil || found == nil {
		t.Fatalf("FindByID: %v (%v)", err, found)
	}
	if found.Category != models.TaskCategorySocial || found.Reward != 250 || found.Order != 3 {
		t.Errorf("unexpected task: %+v", found)
	}

	if err := s.Update(ctx, id, models.TaskPatch{IsActive: boolPtr(false), Reward: intPtr(300)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	found, _ = s.FindByID(ctx, id)
	if found.IsActive || found.Reward != 300 || found.ButtonText != "Follow" {
		t.Errorf("patch not merged: %+v", found)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestTaskStoreUpdateClearsActionURL(t *testing.T) {
	db := testDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	title := "test-clearurl-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTasks(t, db, title) })

	id, err := s.Create(ctx, models.TaskInput{
		Title: title, Category: models.TaskCategorySocial, ButtonText: "Join",
		ActionURL: strPtr("https://t.me/zuva"),
	}, time.Now())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Update(ctx, id, models.TaskPatch{ActionURL: strPtr("")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	var isNull bool
	if err := db.QueryRowContext(ctx, `SELECT action_url IS NULL FROM tasks WHERE id = $1`, id).Scan(&isNull); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !isNull {
		t.Error("action_url stored as empty string, want NULL")
	}
}

func TestTaskStoreRejectsUnknownCategory(t *testing.T) {
	db := testDB(t)
	s := NewTaskStore(db)

	title := "test-badcat-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTasks(t, db, title) })

	_, err := s.Create(context.Background(), models.TaskInput{
		Title: title, Category: "Weekly", ButtonText: "Claim",
	}, time.Now())
	if err == nil {
		t.Fatal("expected check constraint violation for unknown category")
	}
}

func TestTaskStoreListAllOrder(t *testing.T) {
	db := testDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	suffix := uuid.NewString()[:8]
	titles := []string{"test-order-a-" + suffix, "test-order-b-" + suffix}
	t.Cleanup(func() { cleanTasks(t, db, titles...) })

	for i, title := range titles {
		_, err := s.Create(ctx, models.TaskInput{
			Title: title, Category: models.TaskCategoryDaily, ButtonText: "Claim", Order: 100 - i,
		}, time.Now())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	items, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i].Order < items[i-1].Order {
			t.Fatalf("order not ascending at %d: %d < %d", i, items[i].Order, items[i-1].Order)
		}
	}
}
