package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	repo "liveclass-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "deleted", "created_at", "updated_at"}).
		AddRow(userID, "ana@example.com", "Ana", "manager", false, now, now)

	mock.ExpectQuery("SELECT id, email, name, role, deleted").
		WithArgs(userID).
		WillReturnRows(rows)

	user, err := r.FindByID(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.True(t, user.IsManager())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepository_FindByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresUserRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectQuery("SELECT id, email, name, role, deleted").
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	user, err := r.FindByID(context.Background(), userID)
	require.NoError(t, err)
	require.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrolMethodRepository_ListByCourse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresEnrolMethodRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"id", "course_id", "method", "enabled", "enrol_start", "enrol_end"}).
		AddRow("m1", "course-1", "self", true, int64(0), int64(0)).
		AddRow("m2", "course-1", "manual", false, int64(0), int64(0))

	mock.ExpectQuery("FROM enrol_methods").
		WithArgs("course-1").
		WillReturnRows(rows)

	methods, err := r.ListByCourse(context.Background(), "course-1")
	require.NoError(t, err)
	require.Len(t, methods, 2)
	require.True(t, methods[0].Enabled)
	require.False(t, methods[1].Enabled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeviceTokenRepository_GetUserDeviceTokens(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresDeviceTokenRepository(sqlxDB)

	userID := uuid.New()
	rows := sqlmock.NewRows([]string{"device_token"}).AddRow("tok-1").AddRow("tok-2")

	mock.ExpectQuery("SELECT device_token FROM user_device_tokens").
		WithArgs(userID).
		WillReturnRows(rows)

	tokens, err := r.GetUserDeviceTokens(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, []string{"tok-1", "tok-2"}, tokens)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeviceTokenRepository_GetSessionParticipantTokens(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresDeviceTokenRepository(sqlxDB)

	rows := sqlmock.NewRows([]string{"device_token"}).AddRow("tok-1")

	mock.ExpectQuery("JOIN session_enrolments e").
		WithArgs("201").
		WillReturnRows(rows)

	tokens, err := r.GetSessionParticipantTokens(context.Background(), "201")
	require.NoError(t, err)
	require.Equal(t, []string{"tok-1"}, tokens)
	require.NoError(t, mock.ExpectationsWereMet())
}
