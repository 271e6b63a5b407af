package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"liveclass-service/internal/bridge"
)

// ProviderHandler exposes the session provider contract over HTTP so other
// dashboard instances can consume this service as their provider. Routes are
// guarded by the internal shared secret, not by user tokens.
type ProviderHandler struct {
	bridge   *bridge.Bridge
	validate *validator.Validate
}

func NewProviderHandler(b *bridge.Bridge) *ProviderHandler {
	return &ProviderHandler{
		bridge:   b,
		validate: validator.New(),
	}
}

func (h *ProviderHandler) GetCatalog(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	sessions, err := h.bridge.GetCatalog(c.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Provider catalog fetch failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch sessions"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessions": sessions})
}

func (h *ProviderHandler) GetEnrolments(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	sessions, err := h.bridge.GetEnrolments(c.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Provider enrolments fetch failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch sessions"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"sessions": sessions})
}

func (h *ProviderHandler) GetCertificates(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userid"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID format"})
	}

	certificates, err := h.bridge.GetCertificates(c.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Provider certificates fetch failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch certificates"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"certificates": certificates})
}

type ProviderEnrolRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	CallerID uuid.UUID `json:"caller_id,omitempty"`
}

func (h *ProviderHandler) EnrolSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var request ProviderEnrolRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	callerID := request.CallerID
	if callerID == uuid.Nil {
		callerID = request.UserID
	}

	result, err := h.bridge.EnrolUser(c.Context(), callerID, request.UserID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrSessionNotFound), errors.Is(err, bridge.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, bridge.ErrPermissionDenied):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, bridge.ErrEnrolmentFailed):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		default:
			slog.ErrorContext(c.UserContext(), "Provider enrolment failed", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
