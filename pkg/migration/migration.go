// Package migration applies the database schema.
package migration

import (
	"context"
	"fmt"

	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/jmoiron/sqlx"
)

// Migration is one named, idempotent schema step
type Migration struct {
	Name string
	Up   func(ctx context.Context, tx *sqlx.Tx) error
}

// exec builds an Up func from plain SQL
func exec(query string) func(ctx context.Context, tx *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query)
		return err
	}
}

// Migrations is the ordered schema history. Append only.
var Migrations = []Migration{
	{Name: "0001_create_users", Up: exec(createUsers)},
	{Name: "0002_create_companies", Up: exec(createCompanies)},
	{Name: "0003_create_jobs", Up: exec(createJobs)},
	{Name: "0004_create_applications", Up: exec(createApplications)},
	{Name: "0005_application_indexes", Up: exec(createApplicationIndexes)},
}

const trackingTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Run applies every migration not yet recorded in schema_migrations, each in
// its own transaction. It returns the names that were applied.
func Run(ctx context.Context, db *sqlx.DB, migrations []Migration) ([]string, error) {
	logx.Info("Starting database migrations")

	if _, err := db.ExecContext(ctx, trackingTable); err != nil {
		return nil, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, `SELECT name FROM schema_migrations`); err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	var ran []string
	for _, m := range migrations {
		if done[m.Name] {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			logx.Error("Migration failed", "name", m.Name, "error", err)
			return ran, err
		}
		logx.Info("Migration completed", "name", m.Name)
		ran = append(ran, m.Name)
	}

	logx.Info("All migrations completed successfully", "applied", len(ran))
	return ran, nil
}

func apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration %s: %w", m.Name, err)
	}
	defer tx.Rollback()

	if err := m.Up(ctx, tx); err != nil {
		return fmt.Errorf("migration %s: %w", m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
	}
	return tx.Commit()
}
