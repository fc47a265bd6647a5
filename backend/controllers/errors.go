package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

// handleError maps service errors onto responses. Unexpected errors are
// logged and reported without detail.
func handleError(c *fiber.Ctx, logger *log.Logger, err error, notFound string) error {
	if verr, ok := services.IsValidation(err); ok {
		return utils.ValidationError(c, verr.Message, verr.Fields)
	}
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFound(c, notFound)
	}
	logger.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return utils.InternalServerError(c, "Server error")
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
