// Package migration bootstraps the schema of the Postgres document backend.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hondaapi/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// Every collection shares one table; a document is a JSONB object keyed by
// (collection, id).
var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  collection TEXT        NOT NULL,
  id         TEXT        NOT NULL,
  data       JSONB       NOT NULL DEFAULT '{}'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (collection, id)
);`,
	},
	{
		Name: "create_index_documents_collection_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_collection_created_at ON documents (collection, created_at, id);`,
	},
	{
		Name: "create_index_documents_data",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data jsonb_path_ops);`,
	},
}

// EnsureMigrated creates the documents table and its indexes unless the table
// already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log logging.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.documents') IS NOT NULL").Scan(&exists); err != nil {
		log.Error(ctx, "db_migration_failed",
			"error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info(ctx, "db_migration_skip",
			"reason", "schema already exists", "duration_ms", time.Since(start).Milliseconds())
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error(ctx, "db_migration_failed",
				"migration_step", step.Name,
				"error", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info(ctx, "db_migration_step",
			"migration_step", step.Name, "step_duration_ms", time.Since(stepStart).Milliseconds())
	}

	log.Info(ctx, "db_migration_success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
