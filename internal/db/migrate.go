package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Statements are idempotent and re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stages (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL
		            CHECK(kind IN ('closure','detachment','acceptance','rebuilding','renewal')),
		sort_order  INTEGER NOT NULL UNIQUE,
		title       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS days (
		id          TEXT PRIMARY KEY,
		stage_id    TEXT NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
		day_number  INTEGER NOT NULL CHECK(day_number > 0),
		title       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		UNIQUE (stage_id, day_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_days_stage ON days(stage_id)`,

	`CREATE TABLE IF NOT EXISTS day_progress (
		user_id          TEXT NOT NULL,
		day_id           TEXT NOT NULL REFERENCES days(id),
		status           TEXT NOT NULL
		                 CHECK(status IN ('active','completed','failed')),
		completion_pct   INTEGER NOT NULL DEFAULT 0
		                 CHECK(completion_pct BETWEEN 0 AND 100),
		started_at       TEXT,
		last_activity_at TEXT NOT NULL,
		PRIMARY KEY (user_id, day_id)
	)`,

	// At most one active day per user across the whole catalog.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_day_progress_single_active
		ON day_progress(user_id) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS closure_actions (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL DEFAULT '',
		sort_order  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS closure_action_progress (
		user_id    TEXT NOT NULL,
		action_id  TEXT NOT NULL REFERENCES closure_actions(id),
		status     TEXT NOT NULL DEFAULT 'pending'
		           CHECK(status IN ('pending','done')),
		done_at    TEXT,
		PRIMARY KEY (user_id, action_id)
	)`,

	`CREATE TABLE IF NOT EXISTS closure_track_records (
		user_id                 TEXT PRIMARY KEY,
		signed_at               TEXT,
		safety_check            TEXT NOT NULL DEFAULT ''
		                        CHECK(safety_check IN ('','safe','unsafe')),
		next_stage_unlocked_at  TEXT,
		updated_at              TEXT NOT NULL
	)`,
}
