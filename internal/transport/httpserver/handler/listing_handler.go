package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/transport/httpserver/dto"
	"promptlab-content-service/internal/validator"
)

// ListingHandler serves article listings, search, the tool grid and categories.
type ListingHandler struct {
	service   *service.ListingService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc *service.ListingService, v *validator.Validator, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Posts handles GET /api/v1/posts
func (h *ListingHandler) Posts(c *fiber.Ctx) error {
	var req dto.PostsRequest
	if ok, err := bindQuery(c, h.validator, &req, false); !ok {
		return err
	}

	page, err := h.service.Posts(c.UserContext(), req.Category, req.ToFilterSpec(), req.SortKey(), dto.ParsePage(req.Page))
	resp := dto.FromPage(page)
	if err != nil {
		return h.pageFailure(c, resp, err)
	}

	return c.JSON(resp)
}

// Search handles GET /api/v1/search
func (h *ListingHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if ok, err := bindQuery(c, h.validator, &req, false); !ok {
		return err
	}

	page, err := h.service.Search(c.UserContext(), req.Query, req.Category, req.Tags(), dto.ParsePage(req.Page))
	resp := dto.FromPage(page)
	if err != nil {
		return h.pageFailure(c, resp, err)
	}

	return c.JSON(resp)
}

// Tools handles GET /api/v1/tools/:category
func (h *ListingHandler) Tools(c *fiber.Ctx) error {
	var req dto.ToolsRequest
	if ok, err := bindQuery(c, h.validator, &req, true); !ok {
		return err
	}

	result, err := h.service.Tools(c.UserContext(), req.Category, req.ToFilterSpec(), req.SortKey(), dto.ParsePage(req.Page))
	resp := dto.FromToolListing(req.Category, result)
	if err != nil {
		status, code, msg := sourceFailure(err)
		resp.Error, resp.Code = msg, code

		return c.Status(status).JSON(resp)
	}

	return c.JSON(resp)
}

// Featured handles GET /api/v1/posts/featured
func (h *ListingHandler) Featured(c *fiber.Ctx) error {
	items, err := h.service.Featured(c.UserContext())
	resp := dto.ItemsResponse{Items: dto.FromDomainItems(items)}
	if err != nil {
		status, code, msg := sourceFailure(err)
		resp.Error, resp.Code = msg, code

		return c.Status(status).JSON(resp)
	}

	return c.JSON(resp)
}

// Related handles GET /api/v1/posts/:slug/related
func (h *ListingHandler) Related(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" || len(slug) > maxSlugLength {
		return invalidParams(c)
	}

	items, err := h.service.Related(c.UserContext(), slug)
	resp := dto.ItemsResponse{Items: dto.FromDomainItems(items)}
	if err != nil {
		status, code, msg := sourceFailure(err)
		resp.Error, resp.Code = msg, code

		return c.Status(status).JSON(resp)
	}

	return c.JSON(resp)
}

// Category handles GET /api/v1/categories/:slug
func (h *ListingHandler) Category(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" || len(slug) > maxSlugLength {
		return invalidParams(c)
	}

	category, err := h.service.Category(c.UserContext(), slug)
	if err != nil {
		status, code, msg := sourceFailure(err)

		return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
	}

	return c.JSON(category)
}

// Categories handles GET /api/v1/categories
func (h *ListingHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	resp := dto.CategoriesResponse{Categories: categories}
	if err != nil {
		status, code, msg := sourceFailure(err)
		resp.Error, resp.Code = msg, code

		return c.Status(status).JSON(resp)
	}

	return c.JSON(resp)
}

// pageFailure reports a source failure together with the empty page, so
// clients can tell it apart from a successful empty result.
func (h *ListingHandler) pageFailure(c *fiber.Ctx, resp dto.PageResponse, err error) error {
	status, code, msg := sourceFailure(err)
	resp.Error, resp.Code = msg, code

	return c.Status(status).JSON(resp)
}
