// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"zuva/internal/models"
)

// AdminStore reads and writes the admin whitelist.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// Exists reports whether email is whitelisted. It is queried on every
// protected request and never cached.
func (s *AdminStore) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE email = $1)`,
		models.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admin whitelist: %w", err)
	}
	return exists, nil
}

// Add whitelists an email. Adding an existing email is a no-op.
func (s *AdminStore) Add(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admins (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`,
		models.NormalizeEmail(email),
	)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	return nil
}

// Remove deletes an email from the whitelist.
func (s *AdminStore) Remove(ctx context.Context, email string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admins WHERE email = $1`, models.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	return nil
}

// List returns all whitelisted admins ordered by email.
func (s *AdminStore) List(ctx context.Context) ([]models.AdminEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT email, created_at FROM admins ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var items []models.AdminEntry
	for rows.Next() {
		var e models.AdminEntry
		if err := rows.Scan(&e.Email, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
