package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/services"
)

// NewApp builds the Fiber application with middleware and all routes.
func NewApp(db *gorm.DB, cfg *config.Config, svc *services.Services, logger *log.Logger) *fiber.App {
	app := fiber.New(fiber.Config{AppName: "LearnHub"})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger, false))

	SetupRoutes(app, db, cfg, svc, logger)
	return app
}
