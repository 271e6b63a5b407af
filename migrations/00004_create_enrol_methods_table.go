package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEnrolMethodsTable, downCreateEnrolMethodsTable)
}

func upCreateEnrolMethodsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
		CREATE TABLE enrol_methods (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			course_id TEXT NOT NULL,
			method TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT true,
			enrol_start BIGINT NOT NULL DEFAULT 0,
			enrol_end BIGINT NOT NULL DEFAULT 0,
			sort_order INT NOT NULL DEFAULT 0
		);
		CREATE INDEX idx_enrol_methods_course ON enrol_methods (course_id, sort_order);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateEnrolMethodsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS enrol_methods;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
