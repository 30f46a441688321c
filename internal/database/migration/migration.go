package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mayankk-1803/file-store/internal/logjson"
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
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name           TEXT        NOT NULL,
  email          TEXT        NOT NULL UNIQUE,
  phone          TEXT        NOT NULL DEFAULT '',
  national_id    TEXT        UNIQUE,
  password_hash  TEXT        NOT NULL,
  is_verified    BOOLEAN     NOT NULL DEFAULT FALSE,
  otp_code       TEXT,
  otp_expires_at TIMESTAMPTZ,
  last_login_at  TIMESTAMPTZ,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  owner_id      UUID        NOT NULL REFERENCES users (id),
  title         TEXT        NOT NULL,
  description   TEXT        NOT NULL DEFAULT '',
  category      TEXT        NOT NULL,
  storage_path  TEXT        NOT NULL UNIQUE,
  original_name TEXT        NOT NULL,
  content_type  TEXT        NOT NULL,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  tags          TEXT        NOT NULL DEFAULT '',
  upload_ip     TEXT        NOT NULL DEFAULT '',
  user_agent    TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_shares",
		SQL: `CREATE TABLE IF NOT EXISTS shares (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  document_id      UUID        NOT NULL REFERENCES documents (id),
  grantor_id       UUID        NOT NULL REFERENCES users (id),
  recipient_email  TEXT        NOT NULL,
  recipient_id     UUID        REFERENCES users (id),
  permission       TEXT        NOT NULL CHECK (permission IN ('view', 'download')),
  expires_at       TIMESTAMPTZ,
  is_active        BOOLEAN     NOT NULL DEFAULT TRUE,
  access_count     INTEGER     NOT NULL DEFAULT 0,
  last_accessed_at TIMESTAMPTZ,
  share_token      TEXT        NOT NULL UNIQUE,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		// Payload bytes for the in-database storage backend; unused rows cost
		// nothing under the disk and minio backends.
		Name: "create_table_payloads",
		SQL: `CREATE TABLE IF NOT EXISTS payloads (
  key          TEXT        PRIMARY KEY,
  data         BYTEA       NOT NULL,
  content_type TEXT        NOT NULL DEFAULT '',
  size         BIGINT      NOT NULL CHECK (size >= 0),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_owner_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_category ON documents (owner_id, category);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_shares_grantor",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_shares_grantor ON shares (grantor_id);`,
	},
	{
		Name: "create_index_shares_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_shares_document ON shares (document_id);`,
	},
	{
		Name: "create_index_shares_recipient_email",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_shares_recipient_email ON shares (recipient_email);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logjson.Log(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logjson.Log(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logjson.Log(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logjson.Log(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logjson.Log(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logjson.Log(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logjson.Log(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

