package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CertificateRow is a stored certificate issue. FileKey/PreviewKey are object
// storage keys; presigned URLs are minted at read time.
type CertificateRow struct {
	ID          string `db:"id"`
	SessionID   string `db:"session_id"`
	SessionName string `db:"session_name"`
	CourseName  string `db:"course_name"`
	IssueDate   int64  `db:"issue_date"`
	Filename    string `db:"filename"`
	FileKey     string `db:"file_key"`
	PreviewKey  string `db:"preview_key"`
}

type CertificateRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]CertificateRow, error)
}

type postgresCertificateRepository struct {
	db *sqlx.DB
}

func NewPostgresCertificateRepository(db *sqlx.DB) CertificateRepository {
	return &postgresCertificateRepository{db: db}
}

func (r *postgresCertificateRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]CertificateRow, error) {
	query := `
		SELECT c.id, c.session_id, s.name AS session_name, c.course_name, c.issue_date, c.filename, c.file_key, c.preview_key
		FROM certificates c
		JOIN sessions s ON s.id = c.session_id
		WHERE c.user_id = $1
		ORDER BY c.issue_date DESC
	`

	var rows []CertificateRow
	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []CertificateRow{}
	}

	return rows, nil
}
