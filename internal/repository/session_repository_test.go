package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	repo "liveclass-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func sessionColumns() []string {
	return []string{
		"id", "course_id", "name", "summary", "start_time", "end_time", "duration",
		"location", "instructor_name", "instructor_avatar", "track", "image_url",
		"launch_url", "recording_url", "status",
	}
}

func TestPostgresSessionRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresSessionRepository(sqlxDB)

	rows := sqlmock.NewRows(sessionColumns()).
		AddRow("201", "course-1", "Graphs", "Paths and cycles", int64(1767200400), int64(1767205800), int64(5400),
			"Virtual room 1", "Ana Souza", "/a.png", "Foundations", "/banner.png", "https://meet.example/201", "", "scheduled")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM sessions WHERE id = $1`)).
		WithArgs("201").
		WillReturnRows(rows)

	s, err := r.FindByID(context.Background(), "201")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, "course-1", s.CourseID)
	require.Equal(t, int64(1767200400), s.StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_FindByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresSessionRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM sessions WHERE id = $1`)).
		WithArgs("999").
		WillReturnError(sql.ErrNoRows)

	s, err := r.FindByID(context.Background(), "999")
	require.NoError(t, err)
	require.Nil(t, s)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_ListCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresSessionRepository(sqlxDB)

	userID := uuid.New()
	columns := append(sessionColumns(), "registration_time")
	rows := sqlmock.NewRows(columns).
		AddRow("201", "course-1", "Graphs", "", int64(1767200400), int64(0), int64(5400),
			"", "Ana Souza", "", "Foundations", "", "", "", "", int64(1767000000)).
		AddRow("202", "course-1", "Trees", "", int64(1767300000), int64(0), int64(5400),
			"", "Carlos Lima", "", "Foundations", "", "", "", "", int64(0))

	mock.ExpectQuery("SELECT s.\\*, COALESCE\\(e.registration_time, 0\\)").
		WithArgs(userID).
		WillReturnRows(rows)

	catalog, err := r.ListCatalog(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, catalog, 2)
	require.Equal(t, int64(1767000000), catalog[0].RegistrationTime)
	require.Zero(t, catalog[1].RegistrationTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_ListCatalog_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresSessionRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectQuery("SELECT s.\\*, COALESCE\\(e.registration_time, 0\\)").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(append(sessionColumns(), "registration_time")))

	catalog, err := r.ListCatalog(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, catalog)
	require.Empty(t, catalog)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionRepository_ListEnrolled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresSessionRepository(sqlxDB)

	userID := uuid.New()
	columns := append(sessionColumns(), "registration_time")
	rows := sqlmock.NewRows(columns).
		AddRow("201", "course-1", "Graphs", "", int64(1767200400), int64(0), int64(5400),
			"", "Ana Souza", "", "Foundations", "", "", "", "", int64(1767000000))

	mock.ExpectQuery("JOIN session_enrolments e").
		WithArgs(userID).
		WillReturnRows(rows)

	enrolled, err := r.ListEnrolled(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	require.Equal(t, "201", enrolled[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
