package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSessionsTable, downCreateSessionsTable)
}

func upCreateSessionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL,
			name TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			start_time BIGINT NOT NULL,
			end_time BIGINT NOT NULL DEFAULT 0,
			duration BIGINT NOT NULL DEFAULT 0,
			location TEXT NOT NULL DEFAULT '',
			instructor_name TEXT NOT NULL DEFAULT '',
			instructor_avatar TEXT NOT NULL DEFAULT '',
			track TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			launch_url TEXT NOT NULL DEFAULT '',
			recording_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX idx_sessions_start_time ON sessions (start_time);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateSessionsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS sessions;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
