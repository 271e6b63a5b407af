package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCertificatesTable, downCreateCertificatesTable)
}

func upCreateCertificatesTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE certificates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			course_name TEXT NOT NULL DEFAULT '',
			issue_date BIGINT NOT NULL,
			filename TEXT NOT NULL,
			file_key TEXT NOT NULL,
			preview_key TEXT NOT NULL DEFAULT '',
			UNIQUE(session_id, user_id)
		);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateCertificatesTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS certificates;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
