package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Key0string/SponsorBlockServer/internal/middleware"
	"github.com/Key0string/SponsorBlockServer/internal/model"
	"github.com/Key0string/SponsorBlockServer/internal/service"
)

type VoteHandler struct {
	votes      *service.VoteService
	categories *service.CategoryService
	segments   *service.SegmentService
}

func NewVoteHandler(votes *service.VoteService, categories *service.CategoryService, segments *service.SegmentService) *VoteHandler {
	return &VoteHandler{votes: votes, categories: categories, segments: segments}
}

// Submit handles POST /api/voteOnSponsorTime. A request with a category field
// is a category-change vote; otherwise type selects the score vote kind.
func (h *VoteHandler) Submit(c fiber.Ctx) error {
	var req model.VoteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	uuid, errMsg := middleware.ValidateSegmentUUID(req.UUID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.UUID = uuid

	userID, errMsg := middleware.ValidateUserID(req.UserID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.UserID = userID

	category, errMsg := middleware.ValidateCategory(req.Category)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Category = category

	ip := c.IP()

	var (
		outcome *model.VoteOutcome
		err     error
		kind    = "category"
	)
	if req.Category != "" {
		outcome, err = h.categories.Vote(c.Context(), req, ip)
	} else {
		if req.Type != nil {
			if k, ok := service.ParseVoteType(*req.Type); ok {
				kind = k.String()
			} else {
				kind = "invalid"
			}
		} else {
			kind = "invalid"
		}
		outcome, err = h.votes.Submit(c.Context(), req, ip)
	}
	if err != nil {
		middleware.Logger.Error().Err(err).Str("uuid", req.UUID).Msg("vote submission failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit vote")
	}

	Metrics.VotesTotal.WithLabelValues(kind, outcomeLabel(outcome.Status)).Inc()

	switch outcome.Status {
	case model.OutcomeRejected:
		return middleware.ErrorResponse(c, rejectionStatus(outcome.Code), outcome.Code, outcome.Message)
	case model.OutcomeAcknowledged:
		return c.JSON(model.VoteResponse{Applied: false, Message: outcome.Message})
	case model.OutcomeSilent:
		return c.JSON(model.VoteResponse{Applied: false})
	default:
		return c.JSON(model.VoteResponse{Applied: true})
	}
}

// RecordView handles POST /api/viewedVideoSponsorTime.
func (h *VoteHandler) RecordView(c fiber.Ctx) error {
	var req model.ViewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	uuid, errMsg := middleware.ValidateSegmentUUID(req.UUID)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	found, err := h.segments.RecordView(c.Context(), uuid)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record view")
	}
	if !found {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "SEGMENT_NOT_FOUND", "Segment not found")
	}

	return c.JSON(fiber.Map{"success": true})
}

// rejectionStatus maps service rejection codes to HTTP statuses.
func rejectionStatus(code string) int {
	switch code {
	case service.CodeSegmentNotFound:
		return fiber.StatusNotFound
	case service.CodeUserWarned, service.CodeVoteRejected:
		return fiber.StatusForbidden
	default:
		return fiber.StatusBadRequest
	}
}

func outcomeLabel(status model.OutcomeStatus) string {
	switch status {
	case model.OutcomeApplied:
		return "applied"
	case model.OutcomeAcknowledged:
		return "acknowledged"
	case model.OutcomeSilent:
		return "silent"
	default:
		return "rejected"
	}
}
