package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/backend/models"
	"learnhub/backend/progress"
)

// TaskInput is the payload for creating a learning task. Pointer fields
// distinguish "absent" from zero values.
type TaskInput struct {
	TaskType      string            `json:"taskType"`
	TaskTitle     string            `json:"taskTitle"`
	ResourceLinks []string          `json:"resourceLinks"`
	TimeRemain    string            `json:"timeRemain"`
	Reminders     *models.Reminders `json:"reminders"`
	PersonalGoals string            `json:"personalGoals"`
	Progress      *int              `json:"progress"`
	Pages         int               `json:"pages"`
	Chapters      int               `json:"chapters"`
	EstimatedTime int               `json:"estimatedTime"`
	Status        string            `json:"status"`
}

// ProgressUpdate is one progress report for a task. Only the signal that
// matches the task type is used.
type ProgressUpdate struct {
	Notes            string   `json:"notes"`
	CodeSnippet      string   `json:"codeSnippet"`
	ResourceLinks    []string `json:"resourceLinks"`
	TimeSpent        int      `json:"timeSpent"`
	PagesRead        *float64 `json:"pagesRead"`
	MinutesWatched   *float64 `json:"minutesWatched"`
	LessonsCompleted *float64 `json:"lessonsCompleted"`
	Completed        *bool    `json:"completed"`
}

func (u ProgressUpdate) signal() progress.Signal {
	return progress.Signal{
		PagesRead:        u.PagesRead,
		MinutesWatched:   u.MinutesWatched,
		LessonsCompleted: u.LessonsCompleted,
		Completed:        u.Completed,
	}
}

// TaskService owns learning tasks. Every progress update goes through the
// progress package and is followed by the derived stats updates.
type TaskService struct {
	db     *gorm.DB
	stats  *StatsService
	logger *log.Logger
	locks  *keyedMutex
	now    func() time.Time
}

func NewTaskService(db *gorm.DB, stats *StatsService, logger *log.Logger) *TaskService {
	return &TaskService{db: db, stats: stats, logger: logger, locks: newKeyedMutex(), now: time.Now}
}

func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func validateTaskInput(in TaskInput) error {
	missing := map[string]string{}
	if in.TaskType == "" {
		missing["taskType"] = "is required"
	}
	if in.TaskTitle == "" {
		missing["taskTitle"] = "is required"
	}
	if in.ResourceLinks == nil {
		missing["resourceLinks"] = "is required"
	}
	if in.TimeRemain == "" {
		missing["timeRemain"] = "is required"
	}
	if in.Reminders == nil {
		missing["reminders"] = "is required"
	}
	if in.Progress == nil {
		missing["progress"] = "is required"
	}
	if in.Status == "" {
		missing["status"] = "is required"
	}
	if len(missing) > 0 {
		return invalid("Missing required fields", missing)
	}

	fields := map[string]string{}
	if !progress.TaskType(in.TaskType).Valid() {
		fields["taskType"] = "must be one of Course, Book, Video, Article"
	}
	if !progress.Status(in.Status).Valid() {
		fields["status"] = "must be one of Not Started, In Progress, Completed"
	}
	if *in.Progress < 0 || *in.Progress > 100 {
		fields["progress"] = "must be between 0 and 100"
	}
	if in.Pages < 0 {
		fields["pages"] = "must not be negative"
	}
	if in.Chapters < 0 {
		fields["chapters"] = "must not be negative"
	}
	if in.EstimatedTime < 0 {
		fields["estimatedTime"] = "must not be negative"
	}
	if len(fields) > 0 {
		return invalid("Invalid learning task", fields)
	}
	return nil
}

// Create validates and stores a new task. Creating a task never counts as a
// completion, whatever its initial progress.
func (s *TaskService) Create(ctx context.Context, ownerID uint, in TaskInput) (*models.LearningTask, error) {
	if err := validateTaskInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	taskType := progress.TaskType(in.TaskType)
	initial := *in.Progress
	task := models.LearningTask{
		UserID:        ownerID,
		TaskType:      taskType,
		TaskTitle:     in.TaskTitle,
		Pages:         in.Pages,
		Chapters:      in.Chapters,
		TotalUnits:    progress.TotalUnits(taskType, in.Pages, in.Chapters),
		EstimatedTime: in.EstimatedTime,
		Progress:      initial,
		TimeRemain:    in.TimeRemain,
		Status:        progress.StatusFor(initial),
		ResourceLinks: mergeLinks(nil, in.ResourceLinks),
		Reminders:     datatypes.NewJSONType(*in.Reminders),
		PersonalGoals: in.PersonalGoals,
		LastUpdated:   now,
		ProgressHistory: []models.ProgressEntry{
			{Date: now, Progress: initial},
		},
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create learning task: %w", err)
	}
	return &task, nil
}

func preloadLogs(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
	return db.Preload("Notes", byID).Preload("CodeSnippets", byID).Preload("ProgressHistory", byID)
}

func (s *TaskService) List(ctx context.Context, ownerID uint) ([]models.LearningTask, error) {
	var tasks []models.LearningTask
	if err := preloadLogs(s.db.WithContext(ctx)).
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list learning tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID uint) (*models.LearningTask, error) {
	var task models.LearningTask
	if err := preloadLogs(s.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		First(&task).Error; err != nil {
		return nil, lookupErr("learning task", err)
	}
	return &task, nil
}

// UpdateProgress applies one progress report to the task and then updates
// the owner's stats. The task write is a single transaction; stats updates
// follow it and are logged rather than returned when they fail, so a client
// retry cannot apply the same pages twice.
func (s *TaskService) UpdateProgress(ctx context.Context, ownerID, taskID uint, upd ProgressUpdate) (*models.LearningTask, error) {
	if upd.TimeSpent < 0 {
		return nil, invalidField("timeSpent", "must not be negative")
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	now := s.now().UTC()
	var (
		task        models.LearningTask
		wasComplete bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error; err != nil {
			return lookupErr("learning task", err)
		}
		wasComplete = task.Progress == 100

		res, err := progress.Compute(task.TaskType, upd.signal(),
			float64(task.TotalUnits), task.TaskSpecificProgress, float64(task.EstimatedTime))
		if err != nil {
			switch {
			case errors.Is(err, progress.ErrInvalidTaskType):
				return invalidField("taskType", err.Error())
			case errors.Is(err, progress.ErrNegativeSignal):
				return invalid("Invalid progress", map[string]string{"signal": err.Error()})
			}
			return err
		}

		task.TaskSpecificProgress = res.SpecificProgress
		task.Progress = res.Progress
		task.Status = progress.StatusFor(res.Progress)
		task.TimeSpent += upd.TimeSpent
		task.TimeRemain = progress.FormatTimeRemain(progress.RemainingMinutes(task.EstimatedTime, task.TimeSpent))
		task.ResourceLinks = mergeLinks(task.ResourceLinks, upd.ResourceLinks)
		task.LastUpdated = now

		if err := tx.Omit(clause.Associations).Save(&task).Error; err != nil {
			return fmt.Errorf("save learning task: %w", err)
		}
		if upd.Notes != "" {
			if err := tx.Create(&models.TaskNote{TaskID: task.ID, Content: upd.Notes, Timestamp: now}).Error; err != nil {
				return fmt.Errorf("append note: %w", err)
			}
		}
		if upd.CodeSnippet != "" {
			if err := tx.Create(&models.CodeSnippet{TaskID: task.ID, Content: upd.CodeSnippet, Timestamp: now}).Error; err != nil {
				return fmt.Errorf("append code snippet: %w", err)
			}
		}
		entry := models.ProgressEntry{
			TaskID:               task.ID,
			Date:                 now,
			Progress:             task.Progress,
			TimeSpent:            upd.TimeSpent,
			TaskSpecificProgress: task.TaskSpecificProgress,
			Note:                 upd.Notes,
			CodeSnippet:          upd.CodeSnippet,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append progress history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, ownerID, &task, upd.TimeSpent, !wasComplete && task.Progress == 100)

	return s.Get(ctx, ownerID, taskID)
}

func (s *TaskService) recordActivity(ctx context.Context, ownerID uint, task *models.LearningTask, minutes int, completed bool) {
	if err := s.stats.AddLearningTime(ctx, ownerID, minutes); err != nil {
		s.logger.Printf("stats: add learning time for user %d: %v", ownerID, err)
	}
	if _, err := s.stats.UpdateStreak(ctx, ownerID); err != nil {
		s.logger.Printf("stats: update streak for user %d: %v", ownerID, err)
	}
	if err := s.stats.UpdateTopSkills(ctx, ownerID, task.TaskTitle); err != nil {
		s.logger.Printf("stats: update top skills for user %d: %v", ownerID, err)
	}
	if !completed {
		return
	}
	if err := s.stats.IncrementTasksCompleted(ctx, ownerID); err != nil {
		s.logger.Printf("stats: increment completed tasks for user %d: %v", ownerID, err)
	}
	if err := s.stats.IncrementLearningTasksCompleted(ctx, ownerID); err != nil {
		s.logger.Printf("stats: increment completed learning tasks for user %d: %v", ownerID, err)
	}
}

// Delete removes the owner's task together with its logs. Removing a
// completed task takes one completion off the owner's stats.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uint) error {
	unlock := s.locks.Lock(taskID)
	defer unlock()

	db := s.db.WithContext(ctx)
	var task models.LearningTask
	if err := db.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		return lookupErr("learning task", err)
	}
	if err := db.Select(clause.Associations).Delete(&task).Error; err != nil {
		return fmt.Errorf("delete learning task: %w", err)
	}

	if task.Progress == 100 {
		if err := s.stats.DecrementTasksCompleted(ctx, ownerID); err != nil {
			return fmt.Errorf("update stats after delete: %w", err)
		}
	}
	return nil
}

// ListInactive returns unfinished tasks of every user whose last progress
// update is older than since.
func (s *TaskService) ListInactive(ctx context.Context, since time.Time) ([]models.LearningTask, error) {
	var tasks []models.LearningTask
	if err := s.db.WithContext(ctx).
		Where("status <> ? AND last_updated < ?", progress.Completed, since).
		Order("user_id ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list inactive tasks: %w", err)
	}
	return tasks, nil
}

// mergeLinks appends the links of add that are not in current yet, keeping
// first-seen order and dropping empty strings.
func mergeLinks(current, add []string) datatypes.JSONSlice[string] {
	seen := make(map[string]struct{}, len(current)+len(add))
	merged := make([]string, 0, len(current)+len(add))
	for _, list := range [][]string{current, add} {
		for _, link := range list {
			if link == "" {
				continue
			}
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			merged = append(merged, link)
		}
	}
	return merged
}
