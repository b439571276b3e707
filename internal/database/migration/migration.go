package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
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
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  project_id         TEXT        NOT NULL,
  project_prefix     TEXT        NOT NULL,
  title              TEXT        NOT NULL,
  series             TEXT        NOT NULL CHECK (series IN ('ADM', 'TEC')),
  direction          TEXT        NOT NULL CHECK (direction IN ('INBOUND', 'OUTBOUND', 'INTERNAL')),
  status             TEXT        NOT NULL CHECK (status IN ('DRAFT', 'PENDING_APPROVAL', 'PENDING_SCAN', 'RADICATED', 'ARCHIVED', 'VOID')),
  case_code          TEXT        UNIQUE,
  sequence_number    BIGINT,
  content_ref        TEXT        NOT NULL,
  content_type       TEXT        NOT NULL,
  editable_ref       TEXT        NOT NULL DEFAULT '',
  assigned_signer_id TEXT        NOT NULL DEFAULT '',
  metadata           JSONB       NOT NULL DEFAULT '{}',
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_actors",
		SQL: `CREATE TABLE IF NOT EXISTS actors (
  id                  UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name                TEXT NOT NULL,
  role                TEXT NOT NULL CHECK (role IN ('ENGINEER', 'DIRECTOR')),
  signing_pin         TEXT NOT NULL,
  signature_image_ref TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_sequence_counters",
		SQL: `CREATE TABLE IF NOT EXISTS sequence_counters (
  project_id TEXT   NOT NULL,
  series     TEXT   NOT NULL,
  direction  TEXT   NOT NULL,
  value      BIGINT NOT NULL DEFAULT 0 CHECK (value >= 0),
  PRIMARY KEY (project_id, series, direction)
);`,
	},
	{
		Name: "create_table_audit_entries",
		SQL: `CREATE TABLE IF NOT EXISTS audit_entries (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  actor_id    TEXT        NOT NULL,
  action      TEXT        NOT NULL,
  document_id TEXT        NOT NULL,
  detail      TEXT        NOT NULL DEFAULT '',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
	{
		Name: "create_index_documents_project",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_project ON documents (project_id, series, direction);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_audit_entries_document",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_entries_document ON audit_entries (document_id, created_at);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
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
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
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

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
