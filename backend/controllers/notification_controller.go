package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type NotificationController struct {
	Notifications *services.NotificationService
	Logger        *log.Logger
}

func NewNotificationController(notifications *services.NotificationService, logger *log.Logger) *NotificationController {
	return &NotificationController{Notifications: notifications, Logger: logger}
}

// GetNotifications godoc
// @Summary List notifications
// @Description Returns the user's notifications, newest first, with the unread count in meta
// @Tags notifications
// @Produce json
// @Success 200 {array} models.Notification
// @Security ApiKeyAuth
// @Router /notifications [get]
func (nc *NotificationController) GetNotifications(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	notifications, err := nc.Notifications.List(c.UserContext(), userID)
	if err != nil {
		return handleError(c, nc.Logger, err, "Notification not found")
	}
	unread, err := nc.Notifications.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return handleError(c, nc.Logger, err, "Notification not found")
	}
	return utils.Success(c, fiber.StatusOK, notifications, fiber.Map{"unread": unread})
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications/{id}/read [put]
func (nc *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid notification ID")
	}

	n, err := nc.Notifications.MarkRead(c.UserContext(), utils.CurrentUserID(c), id)
	if err != nil {
		return handleError(c, nc.Logger, err, "Notification not found")
	}
	return utils.Success(c, fiber.StatusOK, n)
}
