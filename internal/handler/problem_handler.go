package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/mentor-go-api/internal/service"
	"github.com/noah-isme/mentor-go-api/internal/utils"
)

// ProblemHandler manages the problem fetching endpoint.
type ProblemHandler struct {
	service service.ProblemService
	logger  zerolog.Logger
}

// NewProblemHandler builds a problem handler instance.
func NewProblemHandler(service service.ProblemService, logger zerolog.Logger) *ProblemHandler {
	return &ProblemHandler{
		service: service,
		logger:  logger.With().Str("component", "problem_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProblemHandler) Register(router fiber.Router) {
	router.Get("/fetch", h.fetch)
}

func (h *ProblemHandler) fetch(c *fiber.Ctx) error {
	input := c.Query("input")
	if input == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "input query parameter is required")
	}

	problem, err := h.service.Fetch(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProblemURL):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid leetcode url")
		case errors.Is(err, service.ErrProblemNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "problem not found")
		default:
			h.logger.Error().Err(err).Msg("failed to fetch problem")
			return utils.SendError(c, fiber.StatusBadGateway, "failed to fetch problem")
		}
	}

	return utils.SendSuccess(c, "problem fetched", problem)
}
