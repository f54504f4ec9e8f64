package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied idempotently at startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS testimonials (
	id TEXT PRIMARY KEY,
	student_name TEXT NOT NULL,
	course_name TEXT NOT NULL,
	rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS testimonials_status_idx ON testimonials (status, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS export_jobs (
	id TEXT PRIMARY KEY,
	params JSONB NOT NULL,
	status TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	result_url TEXT,
	visitor_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	error_message TEXT
)`,
	`CREATE INDEX IF NOT EXISTS export_jobs_status_idx ON export_jobs (status, created_at)`,
}

// Migrate creates the dashboard tables when they do not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
