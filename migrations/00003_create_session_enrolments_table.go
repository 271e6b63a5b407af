package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSessionEnrolmentsTable, downCreateSessionEnrolmentsTable)
}

func upCreateSessionEnrolmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE session_enrolments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			method TEXT NOT NULL DEFAULT 'manual',
			registration_time BIGINT NOT NULL,
			UNIQUE(session_id, user_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateSessionEnrolmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS session_enrolments;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
