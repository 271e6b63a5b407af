package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"liveclass-service/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) FindByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var user model.User
	query := `SELECT id, email, name, role, deleted, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, userID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}
