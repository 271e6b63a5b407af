package provider

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"liveclass-service/internal/model"
)

// ErrNotSupported signals that the configured provider does not implement a
// given operation. The caller treats it like an absent provider and applies
// its fallback policy instead of failing outright.
var ErrNotSupported = errors.New("operation not supported by provider")

// EnrolResult is the structured outcome of a provider enrolment call.
type EnrolResult struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// SessionProvider is the contract an external catalogue/enrolment source must
// satisfy. Catalogue results are raw records because sources disagree on
// field names; the aggregator normalizes them before use.
type SessionProvider interface {
	GetCatalog(ctx context.Context, userID uuid.UUID) ([]map[string]any, error)
	GetEnrolments(ctx context.Context, userID uuid.UUID) ([]map[string]any, error)
	GetCertificates(ctx context.Context, userID uuid.UUID) ([]model.Certificate, error)
	EnrolSession(ctx context.Context, userID uuid.UUID, sessionID string) (EnrolResult, error)
}
