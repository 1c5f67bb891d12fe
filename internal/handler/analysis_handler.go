package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mentor-go-api/internal/dto"
	"github.com/noah-isme/mentor-go-api/internal/middleware"
	"github.com/noah-isme/mentor-go-api/internal/service"
	"github.com/noah-isme/mentor-go-api/internal/utils"
	"github.com/noah-isme/mentor-go-api/pkg/ai"
)

// RateLimitedMessage is the stable user-facing text for provider throttling.
const RateLimitedMessage = "the mentor is handling too many requests, please retry shortly"

// AnalysisHandler manages the analysis, history, stats, and recommendation endpoints.
type AnalysisHandler struct {
	analysis        service.AnalysisService
	recommendations service.RecommendationService
	validator       *validator.Validate
	logger          zerolog.Logger
}

// NewAnalysisHandler builds an analysis handler instance.
func NewAnalysisHandler(analysis service.AnalysisService, recommendations service.RecommendationService, validate *validator.Validate, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis:        analysis,
		recommendations: recommendations,
		validator:       validate,
		logger:          logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Post("", h.analyze)
	router.Get("/my-submissions", h.listSubmissions)
	router.Get("/stats", h.stats)
	router.Get("/recommendations", h.recommend)
}

func (h *AnalysisHandler) analyze(c *fiber.Ctx) error {
	var payload dto.AnalyzeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
		}
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.analysis.Analyze(c.Context(), middleware.UserEmail(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission analyzed", response)
}

func (h *AnalysisHandler) listSubmissions(c *fiber.Ctx) error {
	submissions, err := h.analysis.ListSubmissions(c.Context(), middleware.UserEmail(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *AnalysisHandler) stats(c *fiber.Ctx) error {
	stats, err := h.analysis.Stats(c.Context(), middleware.UserEmail(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "stats retrieved", stats)
}

func (h *AnalysisHandler) recommend(c *fiber.Ctx) error {
	advice, err := h.recommendations.Recommend(c.Context(), middleware.UserEmail(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recommendation generated", dto.RecommendationResponse{Recommendation: advice})
}

func (h *AnalysisHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrOwnerNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, ai.ErrRateLimited):
		return utils.SendError(c, fiber.StatusTooManyRequests, RateLimitedMessage)
	case errors.Is(err, service.ErrModelUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "analysis service unavailable")
	case errors.Is(err, service.ErrAnalysisFailed):
		return utils.SendError(c, fiber.StatusInternalServerError, "analysis failed")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
