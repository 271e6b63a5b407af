package api

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"liveclass-service/internal/bridge"
	"liveclass-service/internal/catalog"
	"liveclass-service/internal/model"
	"liveclass-service/internal/schedule"
)

// DashboardHandler serves the live-classes dashboard endpoints.
type DashboardHandler struct {
	svc     *catalog.Service
	watcher *schedule.Watcher
	now     func() time.Time
}

func NewDashboardHandler(svc *catalog.Service, watcher *schedule.Watcher, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{
		svc:     svc,
		watcher: watcher,
		now:     now,
	}
}

func (h *DashboardHandler) GetCatalog(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	sessions, usingFallback, err := h.svc.GetCatalog(c.Context(), userID)
	if err != nil {
		return h.catalogError(c, err)
	}

	catalog.SortSessions(sessions)
	h.track(sessions)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessions": sessions, "usingfallback": usingFallback})
}

func (h *DashboardHandler) GetEnrolments(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	sessions, usingFallback, err := h.svc.GetEnrolments(c.Context(), userID)
	if err != nil {
		return h.catalogError(c, err)
	}

	catalog.SortSessions(sessions)
	h.track(sessions)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessions": sessions, "usingfallback": usingFallback})
}

func (h *DashboardHandler) GetCertificates(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	certificates, usingFallback, err := h.svc.GetCertificates(c.Context(), userID)
	if err != nil {
		return h.catalogError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"certificates": certificates, "usingfallback": usingFallback})
}

type sessionsPanel struct {
	Sessions      []model.Session `json:"sessions"`
	UsingFallback bool            `json:"usingfallback"`
	Error         string          `json:"error,omitempty"`
}

type certificatesPanel struct {
	Certificates  []model.Certificate `json:"certificates"`
	UsingFallback bool                `json:"usingfallback"`
	Error         string              `json:"error,omitempty"`
}

// GetDashboard fetches the catalogue, enrolments and certificates panels
// concurrently. A failing panel degrades to an empty list with its error
// attached; it never blocks or fails the other panels.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	ctx := c.UserContext()

	var (
		wg           sync.WaitGroup
		catalogPanel sessionsPanel
		enrolled     sessionsPanel
		certificates certificatesPanel
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		catalogPanel = h.sessionsPanel(ctx, userID, h.svc.GetCatalog)
	}()

	go func() {
		defer wg.Done()
		enrolled = h.sessionsPanel(ctx, userID, h.svc.GetEnrolments)
	}()

	go func() {
		defer wg.Done()
		certs, usingFallback, err := h.svc.GetCertificates(ctx, userID)
		if err != nil {
			certificates = certificatesPanel{Certificates: []model.Certificate{}, Error: err.Error()}
			return
		}
		certificates = certificatesPanel{Certificates: certs, UsingFallback: usingFallback}
	}()

	wg.Wait()

	h.track(catalogPanel.Sessions)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"catalog":      catalogPanel,
		"enrolled":     enrolled,
		"certificates": certificates,
	})
}

func (h *DashboardHandler) sessionsPanel(ctx context.Context, userID uuid.UUID, fetch func(context.Context, uuid.UUID) ([]model.Session, bool, error)) sessionsPanel {
	sessions, usingFallback, err := fetch(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard panel fetch failed", slog.String("error", err.Error()))
		return sessionsPanel{Sessions: []model.Session{}, Error: err.Error()}
	}

	catalog.SortSessions(sessions)
	return sessionsPanel{Sessions: sessions, UsingFallback: usingFallback}
}

func (h *DashboardHandler) EnrolSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session ID"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	outcome, err := h.svc.EnrolSession(c.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSessionNotFound), errors.Is(err, bridge.ErrSessionNotFound), errors.Is(err, bridge.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, bridge.ErrPermissionDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, catalog.ErrIntegrationMissing):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, bridge.ErrEnrolmentFailed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			slog.ErrorContext(c.UserContext(), "Enrolment failed", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusOK).JSON(outcome)
}

func (h *DashboardHandler) GetCountdown(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session ID"})
	}

	userID, err := GetUserIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user claims"})
	}

	sessions, _, err := h.svc.GetCatalog(c.Context(), userID)
	if err != nil {
		return h.catalogError(c, err)
	}

	for _, session := range sessions {
		if session.ID == sessionID {
			return c.Status(fiber.StatusOK).JSON(schedule.BuildCountdown(h.now(), session))
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
}

func (h *DashboardHandler) catalogError(c *fiber.Ctx, err error) error {
	if errors.Is(err, catalog.ErrMissingProvider) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	slog.ErrorContext(c.UserContext(), "Could not fetch sessions", slog.String("error", err.Error()))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch sessions"})
}

// track keeps upcoming and live sessions in the countdown watcher so phase
// transitions keep firing while the session is on someone's dashboard.
func (h *DashboardHandler) track(sessions []model.Session) {
	if h.watcher == nil {
		return
	}
	now := h.now()
	for _, session := range sessions {
		if schedule.ResolvePhase(now, session.StartTime, session.EndTime, session.Duration) != schedule.PhasePast {
			h.watcher.Register(session)
		}
	}
}
