package controllers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type ProgressController struct {
	Stats  *services.StatsService
	Logger *log.Logger
}

func NewProgressController(stats *services.StatsService, logger *log.Logger) *ProgressController {
	return &ProgressController{Stats: stats, Logger: logger}
}

// GetUserStats godoc
// @Summary Get learning stats
// @Description Returns total learning time, completions, streaks and top skills of the user
// @Tags progress
// @Produce json
// @Success 200 {object} models.UserStats
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/stats [get]
func (pc *ProgressController) GetUserStats(c *fiber.Ctx) error {
	stats, err := pc.Stats.GetUserStats(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return handleError(c, pc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, stats)
}

// GetProgress godoc
// @Summary Get user progress
// @Description Returns user's progress data for the last months (4 by default)
// @Tags progress
// @Produce json
// @Param months query int false "Number of months" default(4)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	months, err := strconv.Atoi(c.Query("months", "4"))
	if err != nil || months < 1 || months > 24 {
		return utils.BadRequest(c, "months must be between 1 and 24")
	}

	report, err := pc.Stats.Monthly(c.UserContext(), utils.CurrentUserID(c), months)
	if err != nil {
		return handleError(c, pc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"progress": report})
}

// GetProgressOverview godoc
// @Summary Get progress overview
// @Description Returns stats, task counts per status and the last 4 months of progress
// @Tags progress
// @Produce json
// @Success 200 {object} models.ProgressOverview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress/overview [get]
func (pc *ProgressController) GetProgressOverview(c *fiber.Ctx) error {
	overview, err := pc.Stats.Overview(c.UserContext(), utils.CurrentUserID(c), 4)
	if err != nil {
		return handleError(c, pc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, overview)
}
