package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"liveclass-service/internal/model"
	"liveclass-service/internal/provider"
)

var (
	ErrMissingProvider    = errors.New("no session provider configured and fallback is disabled")
	ErrIntegrationMissing = errors.New("enrolment integration is not configured")
	ErrSessionNotFound    = errors.New("session not found")
)

// EnrolOutcome is what the write endpoint reports back to the user.
type EnrolOutcome struct {
	Status        bool   `json:"status"`
	Message       string `json:"message"`
	UsingFallback bool   `json:"usingfallback"`
}

const enrolSuccessMessage = "You are enrolled. See you in class!"

// Service aggregates the session catalogue and reconciles enrolments,
// preferring the configured provider and degrading to the static demo data
// when allowed.
type Service struct {
	provider        provider.SessionProvider
	fallbackEnabled bool
	registry        *EnrolmentRegistry
	now             func() time.Time
}

// NewService wires the aggregator. provider may be nil when no integration is
// configured; now may be nil to use wall-clock time.
func NewService(p provider.SessionProvider, fallbackEnabled bool, registry *EnrolmentRegistry, now func() time.Time) *Service {
	if registry == nil {
		registry = NewEnrolmentRegistry()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		provider:        p,
		fallbackEnabled: fallbackEnabled,
		registry:        registry,
		now:             now,
	}
}

// GetCatalog returns the normalized session list for the user. The second
// return value reports whether fallback data was served.
func (s *Service) GetCatalog(ctx context.Context, userID uuid.UUID) ([]model.Session, bool, error) {
	raw, usingFallback, err := s.fetch(ctx, userID, func(p provider.SessionProvider) ([]map[string]any, error) {
		return p.GetCatalog(ctx, userID)
	}, s.fallbackSessionsWithState)
	if err != nil {
		return nil, false, err
	}

	return normalizeAll(raw), usingFallback, nil
}

// GetEnrolments returns the sessions the user is enrolled in. Provider data
// is trusted as already scoped to the user; fallback data is filtered here.
func (s *Service) GetEnrolments(ctx context.Context, userID uuid.UUID) ([]model.Session, bool, error) {
	raw, usingFallback, err := s.fetch(ctx, userID, func(p provider.SessionProvider) ([]map[string]any, error) {
		return p.GetEnrolments(ctx, userID)
	}, func(userID uuid.UUID) []map[string]any {
		all := s.fallbackSessionsWithState(userID)
		enrolled := make([]map[string]any, 0, len(all))
		for _, session := range all {
			if truthy(session["isenrolled"]) {
				enrolled = append(enrolled, session)
			}
		}
		return enrolled
	})
	if err != nil {
		return nil, false, err
	}

	return normalizeAll(raw), usingFallback, nil
}

// GetCertificates lists issued certificates. The fallback catalogue carries
// no certificate artifacts, so fallback mode serves an empty list.
func (s *Service) GetCertificates(ctx context.Context, userID uuid.UUID) ([]model.Certificate, bool, error) {
	if s.provider != nil {
		certificates, err := s.provider.GetCertificates(ctx, userID)
		if err == nil {
			if certificates == nil {
				certificates = []model.Certificate{}
			}
			return certificates, false, nil
		}
		if !errors.Is(err, provider.ErrNotSupported) {
			slog.Warn("Certificate provider failed, applying fallback policy", slog.String("error", err.Error()))
		}
	}

	if !s.fallbackEnabled {
		return nil, false, ErrMissingProvider
	}

	return []model.Certificate{}, true, nil
}

// EnrolSession performs (or simulates) the enrolment of the user into the
// session. Re-enrolling an already-enrolled user is a success no-op.
func (s *Service) EnrolSession(ctx context.Context, userID uuid.UUID, sessionID string) (EnrolOutcome, error) {
	if s.provider != nil {
		result, err := s.provider.EnrolSession(ctx, userID, sessionID)
		if err == nil {
			return EnrolOutcome{Status: result.Status, Message: result.Message, UsingFallback: false}, nil
		}
		if !errors.Is(err, provider.ErrNotSupported) {
			return EnrolOutcome{}, err
		}
	}

	if !s.fallbackEnabled {
		return EnrolOutcome{}, ErrIntegrationMissing
	}

	if s.findFallbackSession(sessionID) == nil {
		return EnrolOutcome{}, ErrSessionNotFound
	}

	s.registry.Add(userID, sessionID)

	return EnrolOutcome{Status: true, Message: enrolSuccessMessage, UsingFallback: true}, nil
}

// fetch applies the provider-or-fallback policy shared by the catalogue and
// enrolment reads.
func (s *Service) fetch(ctx context.Context, userID uuid.UUID, fromProvider func(provider.SessionProvider) ([]map[string]any, error), fallback func(uuid.UUID) []map[string]any) ([]map[string]any, bool, error) {
	if s.provider != nil {
		records, err := fromProvider(s.provider)
		if err == nil {
			return records, false, nil
		}
		if !errors.Is(err, provider.ErrNotSupported) {
			slog.Warn("Session provider failed, applying fallback policy", slog.String("error", err.Error()))
		}
	}

	if !s.fallbackEnabled {
		return nil, false, ErrMissingProvider
	}

	return fallback(userID), true, nil
}

func normalizeAll(raw []map[string]any) []model.Session {
	sessions := make([]model.Session, 0, len(raw))
	for _, record := range raw {
		sessions = append(sessions, Normalize(record))
	}
	return sessions
}

// SortSessions orders sessions ascending by start time for display. The sort
// is stable so records sharing a start time keep their source order.
func SortSessions(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime < sessions[j].StartTime
	})
}
