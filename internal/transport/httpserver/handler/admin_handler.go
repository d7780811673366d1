package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/transport/httpserver/dto"
)

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	syncService *service.SyncService
	invalidator service.Invalidator
	syncTimeout time.Duration
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. syncSvc is nil when the mirror
// is disabled; invalidator is nil when the candidate cache is disabled.
func NewAdminHandler(syncSvc *service.SyncService, invalidator service.Invalidator, syncTimeout time.Duration, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		syncService: syncSvc,
		invalidator: invalidator,
		syncTimeout: syncTimeout,
		logger:      logger,
	}
}

// SyncAll handles POST /api/v1/admin/sync
func (h *AdminHandler) SyncAll(c *fiber.Ctx) error {
	if h.syncService == nil {
		return mirrorDisabled(c)
	}

	h.logger.Info("manual sync triggered")

	ctx, cancel := h.syncContext(c)
	defer cancel()

	return c.JSON(dto.FromSyncResults(h.syncService.SyncAll(ctx)))
}

// SyncSource handles POST /api/v1/admin/sync/:source
func (h *AdminHandler) SyncSource(c *fiber.Ctx) error {
	if h.syncService == nil {
		return mirrorDisabled(c)
	}

	name := c.Params("source")
	h.logger.Info("manual source sync triggered", zap.String("source", name))

	ctx, cancel := h.syncContext(c)
	defer cancel()

	result, err := h.syncService.SyncSource(ctx, name)
	switch {
	case errors.Is(err, service.ErrUnknownSource):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "source not found",
			Code:  dto.CodeSourceNotFound,
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:   err.Error(),
			Code:    dto.CodeSyncFailed,
			Details: dto.FromSyncResult(result),
		})
	}

	return c.JSON(dto.FromSyncResult(result))
}

// Sources handles GET /api/v1/admin/sources
func (h *AdminHandler) Sources(c *fiber.Ctx) error {
	if h.syncService == nil {
		return mirrorDisabled(c)
	}

	names := h.syncService.SourceNames()
	resp := dto.SourcesResponse{Sources: make([]dto.SourceResponse, len(names))}
	for i, name := range names {
		resp.Sources[i].Name = name

		n, err := h.syncService.MirroredCount(c.UserContext(), name)
		if err != nil {
			resp.Sources[i].Error = "mirror unavailable"
			continue
		}
		resp.Sources[i].Mirrored = n
	}

	return c.JSON(resp)
}

// ClearCache handles DELETE /api/v1/admin/cache
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	if h.invalidator == nil {
		return c.JSON(fiber.Map{"cleared": false})
	}

	if err := h.invalidator.Invalidate(c.UserContext()); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "cache clear failed",
			Code:  dto.CodeCacheClearFailed,
		})
	}

	h.logger.Info("candidate cache cleared")

	return c.JSON(fiber.Map{"cleared": true})
}

func (h *AdminHandler) syncContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.syncTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}

	return context.WithTimeout(c.UserContext(), h.syncTimeout)
}

func mirrorDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{
		Error: "content mirror is disabled",
		Code:  dto.CodeMirrorDisabled,
	})
}
