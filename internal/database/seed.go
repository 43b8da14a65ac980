// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// starterTask is a development fixture row for the tasks table.
type starterTask struct {
	title, category, buttonText string
	reward, order               int
	actionURL                   string
	special                     bool
}

var starterTasks = []starterTask{
	{"Daily check-in", "Daily", "Claim", 50, 0, "", false},
	{"Follow us on X", "Social", "Follow & Claim", 100, 1, "https://x.com/zuvanetwork", true},
	{"Join the Telegram community", "Social", "Join & Claim", 100, 2, "https://t.me/zuvanetwork", false},
	{"Verify your email", "One Time", "Claim", 250, 3, "", false},
}

// Seed populates the database with initial development data. It whitelists
// adminEmail (when non-empty) and inserts starter tasks if the tasks table
// is empty. Safe to call on every start.
func Seed(db *sql.DB, adminEmail string) error {
	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))
	if adminEmail != "" {
		if _, err := db.Exec(
			`INSERT INTO admins (email) VALUES ($1) ON CONFLICT (email) DO NOTHING`, adminEmail,
		); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		slog.Info("seed admin whitelisted", "email", adminEmail)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return fmt.Errorf("seed check tasks: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	now := time.Now()
	for _, st := range starterTasks {
		var actionURL *string
		if st.actionURL != "" {
			actionURL = &st.actionURL
		}
		_, err := db.Exec(`
			INSERT INTO tasks (title, category, button_text, reward, action_url,
			                   is_active, is_special, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8)
		`, st.title, st.category, st.buttonText, st.reward, actionURL, st.special, st.order, now)
		if err != nil {
			return fmt.Errorf("seed insert task %q: %w", st.title, err)
		}
	}

	slog.Info("database seeded with starter tasks", "count", len(starterTasks))
	return nil
}
