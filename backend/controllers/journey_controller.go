package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type JourneyController struct {
	Journeys *services.JourneyService
	Logger   *log.Logger
}

func NewJourneyController(journeys *services.JourneyService, logger *log.Logger) *JourneyController {
	return &JourneyController{Journeys: journeys, Logger: logger}
}

type ShareJourneyRequest struct {
	Email string `json:"email" example:"friend@example.com" format:"email"`
}

type RespondShareRequest struct {
	Response string `json:"response" example:"accept" enums:"accept,reject"`
}

// CreateJourney godoc
// @Summary Create learning journey
// @Tags journeys
// @Accept json
// @Produce json
// @Param input body services.JourneyInput true "Journey data"
// @Success 201 {object} models.LearningJourney
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys [post]
func (jc *JourneyController) CreateJourney(c *fiber.Ctx) error {
	var input services.JourneyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	journey, err := jc.Journeys.Create(c.UserContext(), utils.CurrentUserID(c), input)
	if err != nil {
		return handleError(c, jc.Logger, err, "Learning journey not found")
	}
	return utils.Created(c, journey)
}

// GetJourneys godoc
// @Summary List learning journeys
// @Tags journeys
// @Produce json
// @Success 200 {array} models.LearningJourney
// @Security ApiKeyAuth
// @Router /learning-journeys [get]
func (jc *JourneyController) GetJourneys(c *fiber.Ctx) error {
	journeys, err := jc.Journeys.List(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return handleError(c, jc.Logger, err, "Learning journey not found")
	}
	return utils.Success(c, fiber.StatusOK, journeys)
}

// GetJourney godoc
// @Summary Get learning journey
// @Tags journeys
// @Produce json
// @Param id path int true "Journey ID"
// @Success 200 {object} models.LearningJourney
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/{id} [get]
func (jc *JourneyController) GetJourney(c *fiber.Ctx) error {
	journeyID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid journey ID")
	}

	journey, err := jc.Journeys.Get(c.UserContext(), utils.CurrentUserID(c), journeyID)
	if err != nil {
		return handleError(c, jc.Logger, err, "Learning journey not found")
	}
	return utils.Success(c, fiber.StatusOK, journey)
}

// UpdateJourney godoc
// @Summary Update learning journey
// @Description Replaces name, description, notes, steps, resources and tasks
// @Tags journeys
// @Accept json
// @Produce json
// @Param id path int true "Journey ID"
// @Param input body services.JourneyInput true "Journey data"
// @Success 200 {object} models.LearningJourney
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/{id} [put]
func (jc *JourneyController) UpdateJourney(c *fiber.Ctx) error {
	journeyID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid journey ID")
	}

	var input services.JourneyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	journey, err := jc.Journeys.Update(c.UserContext(), utils.CurrentUserID(c), journeyID, input)
	if err != nil {
		return handleError(c, jc.Logger, err, "Learning journey not found")
	}
	return utils.Success(c, fiber.StatusOK, journey)
}

// DeleteJourney godoc
// @Summary Delete learning journey
// @Tags journeys
// @Param id path int true "Journey ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/{id} [delete]
func (jc *JourneyController) DeleteJourney(c *fiber.Ctx) error {
	journeyID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid journey ID")
	}

	if err := jc.Journeys.Delete(c.UserContext(), utils.CurrentUserID(c), journeyID); err != nil {
		return handleError(c, jc.Logger, err, "Learning journey not found")
	}
	return utils.Message(c, "Learning journey deleted successfully")
}

// DeleteResource godoc
// @Summary Delete a resource of a learning journey
// @Tags journeys
// @Param journeyId path int true "Journey ID"
// @Param resourceId path int true "Resource ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/{journeyId}/resources/{resourceId} [delete]
func (jc *JourneyController) DeleteResource(c *fiber.Ctx) error {
	journeyID, err := paramID(c, "journeyId")
	if err != nil {
		return utils.BadRequest(c, "Invalid journey ID")
	}
	resourceID, err := paramID(c, "resourceId")
	if err != nil {
		return utils.BadRequest(c, "Invalid resource ID")
	}

	if err := jc.Journeys.DeleteResource(c.UserContext(), utils.CurrentUserID(c), journeyID, resourceID); err != nil {
		return handleError(c, jc.Logger, err, "Resource not found")
	}
	return utils.Message(c, "Resource deleted successfully")
}

// DeleteJourneyTask godoc
// @Summary Delete a task of a learning journey
// @Tags journeys
// @Param journeyId path int true "Journey ID"
// @Param taskId path int true "Task ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/{journeyId}/tasks/{taskId} [delete]
func (jc *JourneyController) DeleteJourneyTask(c *fiber.Ctx) error {
	journeyID, err := paramID(c, "journeyId")
	if err != nil {
		return utils.BadRequest(c, "Invalid journey ID")
	}
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	if err := jc.Journeys.DeleteTask(c.UserContext(), utils.CurrentUserID(c), journeyID, taskID); err != nil {
		return handleError(c, jc.Logger, err, "Task not found")
	}
	return utils.Message(c, "Task deleted successfully")
}

// ShareJourney godoc
// @Summary Share learning journey
// @Description Offers the journey to the user registered under the given email
// @Tags journeys
// @Accept json
// @Produce json
// @Param id path int true "Journey ID"
// @Param input body ShareJourneyRequest true "Recipient"
// @Success 201 {object} models.SharedJourney
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/{id}/share [post]
func (jc *JourneyController) ShareJourney(c *fiber.Ctx) error {
	journeyID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid journey ID")
	}

	var input ShareJourneyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	share, err := jc.Journeys.Share(c.UserContext(), utils.CurrentUserID(c), journeyID, input.Email)
	if err != nil {
		return handleError(c, jc.Logger, err, "Journey or recipient not found")
	}
	return utils.Created(c, share)
}

// GetSharedJourneys godoc
// @Summary List journeys shared with me
// @Description Returns pending shares addressed to the user
// @Tags journeys
// @Produce json
// @Success 200 {array} models.SharedJourney
// @Security ApiKeyAuth
// @Router /learning-journeys/shared [get]
func (jc *JourneyController) GetSharedJourneys(c *fiber.Ctx) error {
	shares, err := jc.Journeys.ListShared(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return handleError(c, jc.Logger, err, "Shared journey not found")
	}
	return utils.Success(c, fiber.StatusOK, shares)
}

// RespondToShare godoc
// @Summary Accept or reject a shared journey
// @Description Accepting copies the journey for the user with all completion flags cleared; rejecting removes the share
// @Tags journeys
// @Accept json
// @Produce json
// @Param id path int true "Shared journey ID"
// @Param input body RespondShareRequest true "Response"
// @Success 200 {object} services.RespondResult
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-journeys/shared/{id}/respond [put]
func (jc *JourneyController) RespondToShare(c *fiber.Ctx) error {
	shareID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid shared journey ID")
	}

	var input RespondShareRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	response, err := services.ParseShareResponse(input.Response)
	if err != nil {
		return handleError(c, jc.Logger, err, "Shared journey not found")
	}

	result, err := jc.Journeys.Respond(c.UserContext(), utils.CurrentUserID(c), shareID, response)
	if err != nil {
		return handleError(c, jc.Logger, err, "Shared journey not found")
	}
	return utils.Success(c, fiber.StatusOK, result)
}
