package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionRow is a stored live-class session. Timestamps are unix seconds.
type SessionRow struct {
	ID               string `db:"id"`
	CourseID         string `db:"course_id"`
	Name             string `db:"name"`
	Summary          string `db:"summary"`
	StartTime        int64  `db:"start_time"`
	EndTime          int64  `db:"end_time"`
	Duration         int64  `db:"duration"`
	Location         string `db:"location"`
	InstructorName   string `db:"instructor_name"`
	InstructorAvatar string `db:"instructor_avatar"`
	Track            string `db:"track"`
	ImageURL         string `db:"image_url"`
	LaunchURL        string `db:"launch_url"`
	RecordingURL     string `db:"recording_url"`
	Status           string `db:"status"`
}

// CatalogRow is a session annotated with the requesting user's enrolment.
// RegistrationTime is zero when the user is not enrolled.
type CatalogRow struct {
	SessionRow
	RegistrationTime int64 `db:"registration_time"`
}

type SessionRepository interface {
	FindByID(ctx context.Context, sessionID string) (*SessionRow, error)
	ListCatalog(ctx context.Context, userID uuid.UUID) ([]CatalogRow, error)
	ListEnrolled(ctx context.Context, userID uuid.UUID) ([]CatalogRow, error)
}

type postgresSessionRepository struct {
	db *sqlx.DB
}

func NewPostgresSessionRepository(db *sqlx.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

func (r *postgresSessionRepository) FindByID(ctx context.Context, sessionID string) (*SessionRow, error) {
	var session SessionRow
	query := `SELECT * FROM sessions WHERE id = $1`
	err := r.db.GetContext(ctx, &session, query, sessionID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func (r *postgresSessionRepository) ListCatalog(ctx context.Context, userID uuid.UUID) ([]CatalogRow, error) {
	query := `
		SELECT s.*, COALESCE(e.registration_time, 0) AS registration_time
		FROM sessions s
		LEFT JOIN session_enrolments e ON e.session_id = s.id AND e.user_id = $1
		ORDER BY s.start_time ASC
	`

	var rows []CatalogRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []CatalogRow{}
	}

	return rows, nil
}

func (r *postgresSessionRepository) ListEnrolled(ctx context.Context, userID uuid.UUID) ([]CatalogRow, error) {
	query := `
		SELECT s.*, e.registration_time AS registration_time
		FROM sessions s
		JOIN session_enrolments e ON e.session_id = s.id
		WHERE e.user_id = $1
		ORDER BY s.start_time ASC
	`

	var rows []CatalogRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []CatalogRow{}
	}

	return rows, nil
}
