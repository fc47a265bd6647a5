package controllers

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"learnhub/backend/models"
	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type UserController struct {
	DB     *gorm.DB
	Stats  *services.StatsService
	Logger *log.Logger
}

func NewUserController(db *gorm.DB, stats *services.StatsService, logger *log.Logger) *UserController {
	return &UserController{DB: db, Stats: stats, Logger: logger}
}

type UpdateUserRequest struct {
	Username      string    `json:"username" example:"john_doe" minLength:"3" maxLength:"20"`
	Email         string    `json:"email" example:"user@example.com" format:"email"`
	OldPassword   string    `json:"old_password" example:"oldPassword123" minLength:"8"`
	NewPassword   string    `json:"new_password" example:"newPassword123" minLength:"8"`
	Bio           *string   `json:"bio" example:"Backend developer learning Rust"`
	Skills        *[]string `json:"skills" example:"Go,SQL"`
	LearningGoals *[]string `json:"learningGoals"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile data with learning stats
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	stats, err := uc.Stats.GetOrCreate(c.UserContext(), userID)
	if err != nil {
		return handleError(c, uc.Logger, err, "User not found")
	}

	// Password hash stays out of the response
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"role":          user.Role,
		"bio":           user.Bio,
		"skills":        user.Skills,
		"learningGoals": user.LearningGoals,
		"created_at":    user.CreatedAt,
		"stats":         stats,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates authenticated user's profile data. Skills listed here take precedence over skills derived from tasks.
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateUserRequest true "Profile update data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)

	var input UpdateUserRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Username != "" && input.Username != user.Username {
		var existingUser models.User
		if err := uc.DB.Where("username = ?", input.Username).First(&existingUser).Error; err == nil && existingUser.ID != user.ID {
			return utils.Conflict(c, "Username already taken")
		}
		user.Username = input.Username
	}

	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		var existingUser models.User
		if err := uc.DB.Where("email = ?", email).First(&existingUser).Error; err == nil && existingUser.ID != user.ID {
			return utils.Conflict(c, "Email already taken")
		}
		user.Email = email
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Skills != nil {
		user.Skills = cleanList(*input.Skills)
	}
	if input.LearningGoals != nil {
		user.LearningGoals = cleanList(*input.LearningGoals)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		uc.Logger.Printf("update profile %d: %v", userID, err)
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Message(c, "Profile updated successfully")
}

type dayActivity struct {
	Date      string `json:"date"`
	Updates   int    `json:"updates"`
	Tasks     int    `json:"tasks"`
	TimeSpent int    `json:"timeSpent"`
}

// GetUserActivity godoc
// @Summary Get user activity
// @Description Returns progress updates per UTC day for the last N days
// @Tags users
// @Produce json
// @Param days query int false "Number of days to look back" default(7)
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/activity [get]
func (uc *UserController) GetUserActivity(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)

	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days < 1 {
		return utils.BadRequest(c, "days must be a positive integer")
	}
	since := services.TruncateDay(time.Now()).AddDate(0, 0, -(days - 1))

	var entries []models.ProgressEntry
	if err := uc.DB.Joins("JOIN learning_tasks ON learning_tasks.id = progress_entries.task_id").
		Where("learning_tasks.user_id = ? AND learning_tasks.deleted_at IS NULL AND progress_entries.date >= ?", userID, since).
		Order("progress_entries.date ASC").
		Find(&entries).Error; err != nil {
		uc.Logger.Printf("activity %d: %v", userID, err)
		return utils.InternalServerError(c, "Failed to fetch activity")
	}

	byDay := map[string]*dayActivity{}
	tasksByDay := map[string]map[uint]struct{}{}
	for _, e := range entries {
		day := e.Date.UTC().Format("2006-01-02")
		a, ok := byDay[day]
		if !ok {
			a = &dayActivity{Date: day}
			byDay[day] = a
			tasksByDay[day] = map[uint]struct{}{}
		}
		a.Updates++
		a.TimeSpent += e.TimeSpent
		tasksByDay[day][e.TaskID] = struct{}{}
	}

	activity := make([]dayActivity, 0, len(byDay))
	for day, a := range byDay {
		a.Tasks = len(tasksByDay[day])
		activity = append(activity, *a)
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].Date > activity[j].Date })

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"activity":    activity,
		"period_days": days,
	})
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
