package repository_test

import (
	"context"
	"regexp"
	"testing"

	repo "liveclass-service/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestPostgresEnrolmentRepository_Add_Inserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresEnrolmentRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec("INSERT INTO session_enrolments").
		WithArgs("201", userID, "self").
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := r.Add(context.Background(), "201", userID, "self")
	require.NoError(t, err)
	require.True(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrolmentRepository_Add_ConflictIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresEnrolmentRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec("INSERT INTO session_enrolments").
		WithArgs("201", userID, "self").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := r.Add(context.Background(), "201", userID, "self")
	require.NoError(t, err)
	require.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresEnrolmentRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresEnrolmentRepository(sqlxDB)

	userID := uuid.New()
	query := regexp.QuoteMeta(`SELECT COUNT(*) FROM session_enrolments WHERE session_id = $1 AND user_id = $2`)

	mock.ExpectQuery(query).
		WithArgs("201", userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	enrolled, err := r.Exists(context.Background(), "201", userID)
	require.NoError(t, err)
	require.True(t, enrolled)

	mock.ExpectQuery(query).
		WithArgs("999", userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	enrolled, err = r.Exists(context.Background(), "999", userID)
	require.NoError(t, err)
	require.False(t, enrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}
