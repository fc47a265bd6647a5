package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/controllers"
	"learnhub/backend/middleware"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *services.Services, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, logger)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, svc.Stats, logger)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/activity", authMiddleware, userController.GetUserActivity)

	// Follow graph
	followController := controllers.NewFollowController(svc.Follows, logger)
	app.Post("/api/user/follow/:id", authMiddleware, followController.FollowUser)
	app.Post("/api/user/unfollow/:id", authMiddleware, followController.UnfollowUser)
	app.Get("/api/user/followers/:id", authMiddleware, followController.GetFollowers)
	app.Get("/api/user/following/:id", authMiddleware, followController.GetFollowing)
	app.Get("/api/user/connections", authMiddleware, followController.GetConnections)
	app.Post("/api/user/suggest-connections", authMiddleware, followController.SuggestConnections)

	// Progress routes
	progressController := controllers.NewProgressController(svc.Stats, logger)
	app.Get("/api/progress", authMiddleware, progressController.GetProgress)
	app.Get("/api/progress/overview", authMiddleware, progressController.GetProgressOverview)

	// Overview routes
	overviewController := controllers.NewOverviewController(db, svc.Stats, logger)
	app.Get("/api/overview", authMiddleware, overviewController.GetUserOverview)
	app.Get("/api/overview/tasks", authMiddleware, overviewController.SearchTasks)

	// Learning task routes
	taskController := controllers.NewLearningTaskController(svc.Tasks, logger)
	tasks := app.Group("/api/tasks", authMiddleware)
	tasks.Post("/learning-task", taskCreateLimiter(cfg), taskController.CreateTask)
	tasks.Get("/learning-tasks", taskController.GetTasks)
	tasks.Get("/learning-tasks/:taskId", taskController.GetTask)
	tasks.Put("/learning-tasks/:taskId/progress", taskController.UpdateTaskProgress)
	tasks.Delete("/learning-tasks/:taskId", taskController.DeleteTask)
	tasks.Get("/stats", progressController.GetUserStats)

	// Learning journey routes; /shared goes before /:id
	journeyController := controllers.NewJourneyController(svc.Journeys, logger)
	journeys := app.Group("/api/learning-journeys", authMiddleware)
	journeys.Get("/shared", journeyController.GetSharedJourneys)
	journeys.Put("/shared/:id/respond", journeyController.RespondToShare)
	journeys.Post("/", journeyController.CreateJourney)
	journeys.Get("/", journeyController.GetJourneys)
	journeys.Get("/:id", journeyController.GetJourney)
	journeys.Put("/:id", journeyController.UpdateJourney)
	journeys.Delete("/:id", journeyController.DeleteJourney)
	journeys.Post("/:id/share", journeyController.ShareJourney)
	journeys.Delete("/:journeyId/resources/:resourceId", journeyController.DeleteResource)
	journeys.Delete("/:journeyId/tasks/:taskId", journeyController.DeleteJourneyTask)

	// Post routes; /following goes before /:postId
	postController := controllers.NewPostController(svc.Posts, logger)
	posts := app.Group("/api/posts", authMiddleware)
	posts.Get("/following", postController.GetFollowingPosts)
	posts.Post("/", postController.CreatePost)
	posts.Get("/", postController.GetPosts)
	posts.Get("/:postId", postController.GetPost)
	posts.Put("/:postId", postController.UpdatePost)
	posts.Delete("/:postId", postController.DeletePost)
	posts.Post("/:postId/comments", postController.AddPostComment)
	posts.Get("/:postId/comments", postController.GetPostComments)

	// Event routes
	eventController := controllers.NewEventController(svc.Events, logger)
	events := app.Group("/api/events", authMiddleware)
	events.Get("/", eventController.GetEvents)
	events.Post("/", eventController.CreateEvent)
	events.Put("/:id", eventController.UpdateEvent)
	events.Delete("/:id", eventController.DeleteEvent)

	// Notification routes
	notificationController := controllers.NewNotificationController(svc.Notifications, logger)
	notifications := app.Group("/api/notifications", authMiddleware)
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Put("/:id/read", notificationController.MarkAsRead)
}

// taskCreateLimiter caps task creation per client IP.
func taskCreateLimiter(cfg *config.Config) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.TaskCreateLimit,
		Expiration: cfg.TaskCreateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Error(c, fiber.StatusTooManyRequests,
				fiber.NewError(fiber.StatusTooManyRequests, "Too many learning tasks created from this IP, please try again later"))
		},
	})
}
