package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/transport/httpserver/dto"
)

const maxSlugLength = 200

// PostHandler serves article detail pages.
type PostHandler struct {
	service *service.PostService
	logger  *zap.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc *service.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		service: svc,
		logger:  logger,
	}
}

// BySlug handles GET /api/v1/posts/:slug
func (h *PostHandler) BySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" || len(slug) > maxSlugLength {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid slug",
			Code:  dto.CodeInvalidParams,
		})
	}

	post, err := h.service.BySlug(c.UserContext(), domain.CollectionArticles, slug)
	if err != nil {
		status, code, msg := sourceFailure(err)

		return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
	}

	return c.JSON(dto.FromDomainPost(post))
}
