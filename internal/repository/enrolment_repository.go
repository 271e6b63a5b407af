package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type EnrolmentRepository interface {
	// Add records the enrolment and reports whether a new row was inserted.
	// Re-adding an existing (session, user) pair is a no-op returning false.
	Add(ctx context.Context, sessionID string, userID uuid.UUID, method string) (bool, error)
	Exists(ctx context.Context, sessionID string, userID uuid.UUID) (bool, error)
}

type postgresEnrolmentRepository struct {
	db *sqlx.DB
}

func NewPostgresEnrolmentRepository(db *sqlx.DB) EnrolmentRepository {
	return &postgresEnrolmentRepository{db: db}
}

func (r *postgresEnrolmentRepository) Add(ctx context.Context, sessionID string, userID uuid.UUID, method string) (bool, error) {
	query := `
		INSERT INTO session_enrolments (session_id, user_id, method, registration_time)
		VALUES ($1, $2, $3, EXTRACT(EPOCH FROM now())::bigint)
		ON CONFLICT (session_id, user_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query, sessionID, userID, method)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *postgresEnrolmentRepository) Exists(ctx context.Context, sessionID string, userID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM session_enrolments WHERE session_id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &count, query, sessionID, userID)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
