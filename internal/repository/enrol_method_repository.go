package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// EnrolMethod is one way of enrolling into a course. Methods outside their
// [EnrolStart, EnrolEnd] window, or disabled ones, must be skipped. A zero
// bound means the window is open on that side.
type EnrolMethod struct {
	ID         string `db:"id"`
	CourseID   string `db:"course_id"`
	Method     string `db:"method"`
	Enabled    bool   `db:"enabled"`
	EnrolStart int64  `db:"enrol_start"`
	EnrolEnd   int64  `db:"enrol_end"`
}

type EnrolMethodRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]EnrolMethod, error)
}

type postgresEnrolMethodRepository struct {
	db *sqlx.DB
}

func NewPostgresEnrolMethodRepository(db *sqlx.DB) EnrolMethodRepository {
	return &postgresEnrolMethodRepository{db: db}
}

func (r *postgresEnrolMethodRepository) ListByCourse(ctx context.Context, courseID string) ([]EnrolMethod, error) {
	var methods []EnrolMethod
	query := `SELECT id, course_id, method, enabled, enrol_start, enrol_end FROM enrol_methods WHERE course_id = $1 ORDER BY sort_order ASC`
	err := r.db.SelectContext(ctx, &methods, query, courseID)
	return methods, err
}
