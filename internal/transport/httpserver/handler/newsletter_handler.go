package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/transport/httpserver/dto"
	"promptlab-content-service/internal/validator"
)

// NewsletterHandler serves newsletter availability and sign-ups.
type NewsletterHandler struct {
	service   *service.NewsletterService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(svc *service.NewsletterService, v *validator.Validator, logger *zap.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Status handles GET /api/v1/newsletter
func (h *NewsletterHandler) Status(c *fiber.Ctx) error {
	provider := h.service.Provider()
	if provider == "" {
		provider = "none"
	}

	return c.JSON(dto.NewsletterStatusResponse{
		Available: h.service.Enabled(),
		Provider:  provider,
	})
}

// Subscribe handles POST /api/v1/newsletter
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	if !h.service.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: domain.ErrNewsletterDisabled.Error(),
			Code:  dto.CodeNewsletterDisabled,
		})
	}

	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  dto.CodeInvalidParams,
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	err := h.service.Subscribe(c.UserContext(), req.ToSubscription())

	var rejected *domain.SubscriptionRejectedError
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(dto.SubscribeResponse{Success: true})
	case errors.Is(err, domain.ErrNewsletterDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  dto.CodeNewsletterDisabled,
		})
	case errors.As(err, &rejected):
		msg := rejected.Detail
		if msg == "" {
			msg = "subscription rejected"
		}

		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  dto.CodeSubscriptionRejected,
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "newsletter provider unavailable",
			Code:  dto.CodeNewsletterFailed,
		})
	}
}
