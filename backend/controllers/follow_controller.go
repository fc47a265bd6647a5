package controllers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type FollowController struct {
	Follows *services.FollowService
	Logger  *log.Logger
}

func NewFollowController(follows *services.FollowService, logger *log.Logger) *FollowController {
	return &FollowController{Follows: follows, Logger: logger}
}

type SuggestConnectionsRequest struct {
	Limit                 int   `json:"limit" example:"5"`
	ConsiderSkills        *bool `json:"considerSkills"`
	ConsiderLearningGoals *bool `json:"considerLearningGoals"`
}

// FollowUser godoc
// @Summary Follow user
// @Description Returns the caller's followers and followed users after the change
// @Tags network
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} services.Network
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/follow/{id} [post]
func (fc *FollowController) FollowUser(c *fiber.Ctx) error {
	return fc.changeFollow(c, fc.Follows.Follow, "Successfully followed user")
}

// UnfollowUser godoc
// @Summary Unfollow user
// @Tags network
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} services.Network
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/unfollow/{id} [post]
func (fc *FollowController) UnfollowUser(c *fiber.Ctx) error {
	return fc.changeFollow(c, fc.Follows.Unfollow, "Successfully unfollowed user")
}

func (fc *FollowController) changeFollow(c *fiber.Ctx, change func(context.Context, uint, uint) error, message string) error {
	targetID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	userID := utils.CurrentUserID(c)
	if err := change(c.UserContext(), userID, targetID); err != nil {
		return handleError(c, fc.Logger, err, "User not found")
	}

	network, err := fc.Follows.Network(c.UserContext(), userID)
	if err != nil {
		return handleError(c, fc.Logger, err, "User not found")
	}
	return c.JSON(utils.SuccessResponse{Success: true, Message: message, Data: network})
}

// GetFollowers godoc
// @Summary List followers
// @Tags network
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} services.UserSummary
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/followers/{id} [get]
func (fc *FollowController) GetFollowers(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	followers, err := fc.Follows.Followers(c.UserContext(), userID)
	if err != nil {
		return handleError(c, fc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, followers)
}

// GetFollowing godoc
// @Summary List followed users
// @Tags network
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} services.UserSummary
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/following/{id} [get]
func (fc *FollowController) GetFollowing(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	following, err := fc.Follows.Following(c.UserContext(), userID)
	if err != nil {
		return handleError(c, fc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, following)
}

// GetConnections godoc
// @Summary List connections
// @Description Followers and followed users merged, most recently active first
// @Tags network
// @Produce json
// @Success 200 {array} services.Connection
// @Security ApiKeyAuth
// @Router /user/connections [get]
func (fc *FollowController) GetConnections(c *fiber.Ctx) error {
	connections, err := fc.Follows.Connections(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return handleError(c, fc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, connections)
}

// SuggestConnections godoc
// @Summary Suggest users to follow
// @Description Ranks users by shared skills and learning goals, then by recent activity
// @Tags network
// @Accept json
// @Produce json
// @Param input body SuggestConnectionsRequest false "Suggestion options"
// @Success 200 {array} services.Suggestion
// @Security ApiKeyAuth
// @Router /user/suggest-connections [post]
func (fc *FollowController) SuggestConnections(c *fiber.Ctx) error {
	var input SuggestConnectionsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return utils.BadRequest(c, "Cannot parse JSON")
		}
	}

	opts := services.SuggestOptions{Limit: input.Limit, ConsiderSkills: true, ConsiderLearningGoals: true}
	if input.ConsiderSkills != nil {
		opts.ConsiderSkills = *input.ConsiderSkills
	}
	if input.ConsiderLearningGoals != nil {
		opts.ConsiderLearningGoals = *input.ConsiderLearningGoals
	}

	suggestions, err := fc.Follows.Suggest(c.UserContext(), utils.CurrentUserID(c), opts)
	if err != nil {
		return handleError(c, fc.Logger, err, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, suggestions)
}
