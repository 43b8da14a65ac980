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

// TaskRepository persists tasks. *store.TaskStore satisfies it.
type TaskRepository interface {
	ListAll(ctx context.Context) ([]models.Task, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Create(ctx context.Context, in models.TaskInput, now time.Time) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (total, active int, err error)
}

// Tasks is the Tasks service.
type Tasks struct {
	repo TaskRepository
	now  Clock
}

// NewTasks creates a Tasks service. A nil clock uses time.Now.
func NewTasks(repo TaskRepository, now Clock) *Tasks {
	if now == nil {
		now = time.Now
	}
	return &Tasks{repo: repo, now: now}
}

// ListAll returns every task in ascending display order.
func (s *Tasks) ListAll(ctx context.Context) ([]models.Task, error) {
	return s.repo.ListAll(ctx)
}

// Get returns the task or nil when it does not exist.
func (s *Tasks) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new task and returns its ID.
func (s *Tasks) Create(ctx context.Context, in models.TaskInput) (uuid.UUID, error) {
	if strings.TrimSpace(in.Title) == "" {
		return uuid.Nil, invalid("title is required")
	}
	if !in.Category.Valid() {
		return uuid.Nil, invalid("unknown category %q", in.Category)
	}
	if in.Reward < 0 {
		return uuid.Nil, invalid("reward must not be negative")
	}
	id, err := s.repo.Create(ctx, in, s.now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("create task: %w", err)
	}
	return id, nil
}

// Update merges the supplied fields.
func (s *Tasks) Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return invalid("title cannot be empty")
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return invalid("unknown category %q", *patch.Category)
	}
	if patch.Reward != nil && *patch.Reward < 0 {
		return invalid("reward must not be negative")
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// SetActive sets the isActive flag of a task.
func (s *Tasks) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.Update(ctx, id, models.TaskPatch{IsActive: &active})
}

// Delete removes the task. Deleting a missing task succeeds.
func (s *Tasks) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Count returns the number of tasks and how many are active.
func (s *Tasks) Count(ctx context.Context) (total, active int, err error) {
	total, active, err = s.repo.Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, active, nil
}
