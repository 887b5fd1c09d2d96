package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_notes",
		SQL: `CREATE TABLE IF NOT EXISTS notes (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title      TEXT        NOT NULL CHECK (title <> ''),
  content    TEXT        NOT NULL CHECK (content <> ''),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  CHECK (updated_at >= created_at)
);`,
	},
	{
		Name: "create_index_notes_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes (created_at DESC);`,
	},
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  note_id      UUID        NOT NULL REFERENCES notes (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attachments_note_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_note_id ON attachments (note_id);`,
	},
}

// EnsureMigrated checks if the 'notes' table exists and runs the bootstrap
// steps if it doesn't. Steps are idempotent, so a concurrent boot of a second
// instance is harmless.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	start := time.Now()

	var exists bool
	query := "SELECT to_regclass('public.notes') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logger.Error("failed to check sentinel table",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.Info("schema already exists, skipping migration",
			zap.Duration("elapsed", time.Since(start)))
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.Error("migration step failed",
				zap.String("step", step.Name),
				zap.Error(err),
				zap.Duration("elapsed", time.Since(start)))
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.Info("migration step applied",
			zap.String("step", step.Name),
			zap.Duration("step_elapsed", time.Since(stepStart)))
	}

	logger.Info("schema migration complete",
		zap.Duration("elapsed", time.Since(start)))

	return nil
}
