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

const taskColumns = `id, title, category, button_text, reward, action_url,
	is_active, is_special, sort_order, created_at`

// TaskStore handles the tasks collection.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new TaskStore with the given database connection.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Category, &t.ButtonText, &t.Reward, &t.ActionURL,
		&t.IsActive, &t.IsSpecial, &t.Order, &t.CreatedAt,
	)
	return t, err
}

// ListAll returns every task in ascending sort order.
func (s *TaskStore) ListAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY sort_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var items []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a task by its UUID. Returns nil if not found.
func (s *TaskStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task by id: %w", err)
	}
	return &t, nil
}

// Create inserts a new task stamped with now.
func (s *TaskStore) Create(ctx context.Context, in models.TaskInput, now time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, category, button_text, reward, action_url,
		                   is_active, is_special, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, in.Title, in.Category, in.ButtonText, in.Reward, in.ActionURL,
		in.IsActive, in.IsSpecial, in.Order, now,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create task: %w", err)
	}
	return id, nil
}

// Update merges the non-nil fields of patch into the task. An empty
// action URL is written as NULL.
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) error {
	var b setBuilder
	if patch.Title != nil {
		b.add("title", *patch.Title)
	}
	if patch.Category != nil {
		b.add("category", *patch.Category)
	}
	if patch.ButtonText != nil {
		b.add("button_text", *patch.ButtonText)
	}
	if patch.Reward != nil {
		b.add("reward", *patch.Reward)
	}
	if patch.ActionURL != nil {
		if *patch.ActionURL == "" {
			b.add("action_url", nil)
		} else {
			b.add("action_url", *patch.ActionURL)
		}
	}
	if patch.IsActive != nil {
		b.add("is_active", *patch.IsActive)
	}
	if patch.IsSpecial != nil {
		b.add("is_special", *patch.IsSpecial)
	}
	if patch.Order != nil {
		b.add("sort_order", *patch.Order)
	}
	if b.empty() {
		return nil
	}

	query, args := b.build("tasks", id)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// Delete removes a task by ID. Deleting a missing ID is not an error.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Count returns the number of tasks, and how many are active.
func (s *TaskStore) Count(ctx context.Context) (total, active int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM tasks`,
	).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count tasks: %w", err)
	}
	return total, active, nil
}
