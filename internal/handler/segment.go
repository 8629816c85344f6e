package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/Key0string/SponsorBlockServer/internal/middleware"
	"github.com/Key0string/SponsorBlockServer/internal/service"
)

type SegmentHandler struct {
	svc *service.SegmentService
}

func NewSegmentHandler(svc *service.SegmentService) *SegmentHandler {
	return &SegmentHandler{svc: svc}
}

// GetByVideoID handles GET /api/skipSegments?videoID=X&categories=a,b
func (h *SegmentHandler) GetByVideoID(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(fiber.Query[string](c, "videoID"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	categories, errMsg := parseCategories(categoriesQuery(c))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	segments, err := h.svc.GetVideoSegments(c.Context(), videoID, categories)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup segments")
	}
	if len(segments) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No segments found for video")
	}

	return c.JSON(segments)
}

// GetByHashPrefix handles GET /api/skipSegments/:sha256HashPrefix. The client
// sends only a hash prefix, so the server never learns which exact video was
// looked up.
func (h *SegmentHandler) GetByHashPrefix(c fiber.Ctx) error {
	prefix, errMsg := middleware.ValidateHashPrefix(c.Params("sha256HashPrefix"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_PREFIX", errMsg)
	}

	categories, errMsg := parseCategories(categoriesQuery(c))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	videos, err := h.svc.GetSegmentsByHashPrefix(c.Context(), prefix, categories)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to lookup segments")
	}
	if len(videos) == 0 {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No segments matching prefix")
	}

	return c.JSON(videos)
}

// categoriesQuery reads the category filter, accepting both the plural
// comma-separated form and the legacy singular parameter.
func categoriesQuery(c fiber.Ctx) string {
	if raw := fiber.Query[string](c, "categories"); raw != "" {
		return raw
	}
	return fiber.Query[string](c, "category")
}

// parseCategories splits and validates an optional comma-separated category
// filter. Empty input means no filter.
func parseCategories(raw string) ([]string, string) {
	if raw == "" {
		return nil, ""
	}
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		cat, errMsg := middleware.ValidateCategory(p)
		if errMsg != "" {
			return nil, errMsg
		}
		if cat != "" {
			categories = append(categories, cat)
		}
	}
	return categories, ""
}
