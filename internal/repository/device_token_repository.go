package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DeviceTokenRepository interface {
	GetUserDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error)
	// GetSessionParticipantTokens returns the device tokens of every user
	// enrolled in the session.
	GetSessionParticipantTokens(ctx context.Context, sessionID string) ([]string, error)
}

type postgresDeviceTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresDeviceTokenRepository(db *sqlx.DB) DeviceTokenRepository {
	return &postgresDeviceTokenRepository{db: db}
}

func (r *postgresDeviceTokenRepository) GetUserDeviceTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var tokens []string
	query := `SELECT device_token FROM user_device_tokens WHERE user_id = $1`
	err := r.db.SelectContext(ctx, &tokens, query, userID)
	return tokens, err
}

func (r *postgresDeviceTokenRepository) GetSessionParticipantTokens(ctx context.Context, sessionID string) ([]string, error) {
	var tokens []string
	query := `
		SELECT t.device_token
		FROM user_device_tokens t
		JOIN session_enrolments e ON e.user_id = t.user_id
		WHERE e.session_id = $1
	`
	err := r.db.SelectContext(ctx, &tokens, query, sessionID)
	return tokens, err
}
