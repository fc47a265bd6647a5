package middleware

import (
	"github.com/gofiber/fiber/v2"

	"learnhub/backend/config"
	"learnhub/backend/utils"
)

// AuthMiddleware resolves the caller from the bearer token and stores the
// user id in the request locals for the controllers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Authentication failed")
		}
		c.Locals(utils.UserIDKey, userID)
		return c.Next()
	}
}
