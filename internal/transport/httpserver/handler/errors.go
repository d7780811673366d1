// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/transport/httpserver/dto"
	"promptlab-content-service/internal/validator"
)

// sourceFailure maps a content source error to status, code and a client message.
func sourceFailure(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.CodeNotFound, "content not found"
	case errors.Is(err, domain.ErrUnsupportedCollection):
		return fiber.StatusNotImplemented, dto.CodeUnsupportedCollection, "collection not supported by the configured content source"
	default:
		return fiber.StatusInternalServerError, dto.CodeSourceUnavailable, "content source unavailable"
	}
}

// bindQuery parses and validates query (and route) parameters into req.
// It writes the 400 response itself and reports false when binding failed.
func bindQuery(c *fiber.Ctx, v *validator.Validator, req any, withParams bool) (bool, error) {
	if withParams {
		if err := c.ParamsParser(req); err != nil {
			return false, invalidParams(c)
		}
	}
	if err := c.QueryParser(req); err != nil {
		return false, invalidParams(c)
	}

	if err := v.Validate(req); err != nil {
		return false, validationFailed(c, err)
	}

	return true, nil
}

func invalidParams(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: "invalid query parameters",
		Code:  dto.CodeInvalidParams,
	})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    dto.CodeValidation,
		Details: err,
	})
}
