package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/models"
	"learnhub/backend/progress"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type OverviewController struct {
	DB     *gorm.DB
	Stats  *services.StatsService
	Logger *log.Logger
}

func NewOverviewController(db *gorm.DB, stats *services.StatsService, logger *log.Logger) *OverviewController {
	return &OverviewController{DB: db, Stats: stats, Logger: logger}
}

// SearchTasks возвращает задачи пользователя по критериям поиска
func (oc *OverviewController) SearchTasks(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	search := strings.TrimSpace(c.Query("search"))
	taskType := c.Query("type")
	status := c.Query("status")
	sort := c.Query("sort", "recent") // recent, newest, progress

	query := oc.DB.Model(&models.LearningTask{}).Where("user_id = ?", userID)

	// Поиск по названию
	if search != "" {
		query = query.Where("LOWER(task_title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	// Фильтры по типу и статусу
	if taskType != "" {
		if !progress.TaskType(taskType).Valid() {
			return utils.BadRequest(c, "Unknown task type")
		}
		query = query.Where("task_type = ?", taskType)
	}
	if status != "" {
		if !progress.Status(status).Valid() {
			return utils.BadRequest(c, "Unknown status")
		}
		query = query.Where("status = ?", status)
	}

	// Сортировка
	switch sort {
	case "newest":
		query = query.Order("created_at DESC, id DESC")
	case "progress":
		query = query.Order("progress DESC, id ASC")
	default: // recent
		query = query.Order("last_updated DESC, id DESC")
	}

	var tasks []models.LearningTask
	if err := query.Find(&tasks).Error; err != nil {
		oc.Logger.Printf("search tasks %d: %v", userID, err)
		return utils.InternalServerError(c, "Failed to fetch tasks")
	}

	// Формируем упрощенный ответ
	result := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, map[string]interface{}{
			"id":          task.ID,
			"name":        task.TaskTitle,
			"type":        task.TaskType,
			"status":      task.Status,
			"progress":    task.Progress,
			"timeRemain":  task.TimeRemain,
			"lastUpdated": task.LastUpdated,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetUserOverview возвращает обзорную информацию для пользователя:
// серии, три последние незавершённые задачи, ожидающие приглашения и
// непрочитанные уведомления
func (oc *OverviewController) GetUserOverview(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)

	// Получаем статистику пользователя
	stats, err := oc.Stats.GetOrCreate(c.UserContext(), userID)
	if err != nil {
		return handleError(c, oc.Logger, err, "User not found")
	}

	// Получаем активные задачи
	var activeTasks []models.LearningTask
	if err := oc.DB.Where("user_id = ? AND status <> ?", userID, progress.Completed).
		Order("last_updated DESC").
		Limit(3).
		Find(&activeTasks).Error; err != nil {
		oc.Logger.Printf("overview %d: %v", userID, err)
		return utils.InternalServerError(c, "Failed to fetch active tasks")
	}

	// Считаем приглашения и непрочитанные уведомления
	var pendingShares, unread int64
	if err := oc.DB.Model(&models.SharedJourney{}).
		Where("shared_with_id = ? AND status = ?", userID, models.SharePending).
		Count(&pendingShares).Error; err != nil {
		oc.Logger.Printf("overview %d: %v", userID, err)
		return utils.InternalServerError(c, "Failed to fetch shared journeys")
	}
	if err := oc.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error; err != nil {
		oc.Logger.Printf("overview %d: %v", userID, err)
		return utils.InternalServerError(c, "Failed to fetch notifications")
	}

	// Формируем ответ
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"current_streak":       stats.CurrentStreak,
		"longest_streak":       stats.LongestStreak,
		"tasks_completed":      stats.TasksCompleted,
		"total_learning_time":  stats.TotalLearningTime,
		"active_tasks":         activeTasks,
		"pending_shares":       pendingShares,
		"unread_notifications": unread,
	})
}
