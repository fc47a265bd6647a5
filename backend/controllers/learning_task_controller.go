package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type LearningTaskController struct {
	Tasks  *services.TaskService
	Logger *log.Logger
}

func NewLearningTaskController(tasks *services.TaskService, logger *log.Logger) *LearningTaskController {
	return &LearningTaskController{Tasks: tasks, Logger: logger}
}

// CreateTask godoc
// @Summary Create learning task
// @Description Creates a Book, Video, Course or Article task. All missing required fields are reported together.
// @Tags tasks
// @Accept json
// @Produce json
// @Param input body services.TaskInput true "Task data"
// @Success 201 {object} models.LearningTask
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/learning-task [post]
func (tc *LearningTaskController) CreateTask(c *fiber.Ctx) error {
	var input services.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	task, err := tc.Tasks.Create(c.UserContext(), utils.CurrentUserID(c), input)
	if err != nil {
		return handleError(c, tc.Logger, err, "Learning task not found")
	}
	return utils.Created(c, task)
}

// GetTasks godoc
// @Summary List learning tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} models.LearningTask
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/learning-tasks [get]
func (tc *LearningTaskController) GetTasks(c *fiber.Ctx) error {
	tasks, err := tc.Tasks.List(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return handleError(c, tc.Logger, err, "Learning task not found")
	}
	return utils.Success(c, fiber.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get learning task
// @Description Returns the task with its notes, code snippets and progress history
// @Tags tasks
// @Produce json
// @Param taskId path int true "Task ID"
// @Success 200 {object} models.LearningTask
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/learning-tasks/{taskId} [get]
func (tc *LearningTaskController) GetTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	task, err := tc.Tasks.Get(c.UserContext(), utils.CurrentUserID(c), taskID)
	if err != nil {
		return handleError(c, tc.Logger, err, "Learning task not found")
	}
	return utils.Success(c, fiber.StatusOK, task)
}

// UpdateTaskProgress godoc
// @Summary Report progress on a learning task
// @Description Applies pagesRead (Book), minutesWatched (Video), lessonsCompleted (Course) or completed (Article), appends notes and code snippets and updates the user's stats
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path int true "Task ID"
// @Param input body services.ProgressUpdate true "Progress report"
// @Success 200 {object} models.LearningTask
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/learning-tasks/{taskId}/progress [put]
func (tc *LearningTaskController) UpdateTaskProgress(c *fiber.Ctx) error {
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	var input services.ProgressUpdate
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	task, err := tc.Tasks.UpdateProgress(c.UserContext(), utils.CurrentUserID(c), taskID, input)
	if err != nil {
		return handleError(c, tc.Logger, err, "Learning task not found")
	}
	return utils.Success(c, fiber.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete learning task
// @Tags tasks
// @Produce json
// @Param taskId path int true "Task ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/learning-tasks/{taskId} [delete]
func (tc *LearningTaskController) DeleteTask(c *fiber.Ctx) error {
	taskID, err := paramID(c, "taskId")
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	if err := tc.Tasks.Delete(c.UserContext(), utils.CurrentUserID(c), taskID); err != nil {
		return handleError(c, tc.Logger, err, "Learning task not found")
	}
	return utils.Message(c, "Learning task deleted successfully")
}
