package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	repo "liveclass-service/internal/repository"
	_ "liveclass-service/migrations"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type EnrolmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	db         *sqlx.DB
	sessions   repo.SessionRepository
	enrolments repo.EnrolmentRepository
	pgc        *postgres.PostgresContainer
	ctx        context.Context
}

func (s *EnrolmentRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	assert.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	assert.NoError(s.T(), err)
	s.db = db

	err = goose.Up(db.DB, "../../migrations")
	assert.NoError(s.T(), err)

	s.sessions = repo.NewPostgresSessionRepository(s.db)
	s.enrolments = repo.NewPostgresEnrolmentRepository(s.db)
}

func (s *EnrolmentRepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *EnrolmentRepositoryIntegrationTestSuite) TestEnrolmentRepository_AddAndExists() {
	userID := uuid.New()
	_, err := s.db.ExecContext(s.ctx,
		`INSERT INTO users (id, email, name, role) VALUES ($1, $2, $3, $4)`,
		userID, "integration@test.com", "Integration Test User", "student")
	assert.NoError(s.T(), err)

	start := time.Now().Add(time.Hour).Unix()
	_, err = s.db.ExecContext(s.ctx,
		`INSERT INTO sessions (id, course_id, name, start_time, end_time, duration) VALUES ($1, $2, $3, $4, $5, $6)`,
		"it-201", "it-course-1", "Integration Session", start, start+5400, 5400)
	assert.NoError(s.T(), err)

	enrolled, err := s.enrolments.Exists(s.ctx, "it-201", userID)
	assert.NoError(s.T(), err)
	assert.False(s.T(), enrolled)

	inserted, err := s.enrolments.Add(s.ctx, "it-201", userID, "self")
	assert.NoError(s.T(), err)
	assert.True(s.T(), inserted)

	// second add hits the unique constraint and reports no new row
	inserted, err = s.enrolments.Add(s.ctx, "it-201", userID, "self")
	assert.NoError(s.T(), err)
	assert.False(s.T(), inserted)

	enrolled, err = s.enrolments.Exists(s.ctx, "it-201", userID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), enrolled)

	catalog, err := s.sessions.ListCatalog(s.ctx, userID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), catalog, 1)
	assert.Greater(s.T(), catalog[0].RegistrationTime, int64(0))
}

func TestEnrolmentRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(EnrolmentRepositoryIntegrationTestSuite))
}
