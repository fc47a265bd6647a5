package services

import (
	"context"
	"fmt"
	"time"

	"learnhub/backend/models"
	"learnhub/backend/progress"
)

// Monthly returns the user's progress for the last months calendar months,
// current month first.
func (s *StatsService) Monthly(ctx context.Context, userID uint, months int) ([]models.MonthlyProgress, error) {
	if months <= 0 {
		return nil, invalidField("months", "must be positive")
	}
	now := s.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	db := s.db.WithContext(ctx)

	report := make([]models.MonthlyProgress, 0, months)
	for i := 0; i < months; i++ {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var entries []models.ProgressEntry
		if err := db.Joins("JOIN learning_tasks ON learning_tasks.id = progress_entries.task_id").
			Where("learning_tasks.user_id = ? AND learning_tasks.deleted_at IS NULL", userID).
			Where("progress_entries.date >= ? AND progress_entries.date < ?", start, end).
			Find(&entries).Error; err != nil {
			return nil, fmt.Errorf("load progress entries: %w", err)
		}

		var completed int64
		if err := db.Model(&models.LearningTask{}).
			Where("user_id = ? AND status = ? AND last_updated >= ? AND last_updated < ?", userID, progress.Completed, start, end).
			Count(&completed).Error; err != nil {
			return nil, fmt.Errorf("count completed tasks: %w", err)
		}

		month := models.MonthlyProgress{
			Month:           start.Month(),
			Year:            start.Year(),
			TasksCompleted:  completed,
			UpdateFrequency: map[string]int{},
		}
		for _, e := range entries {
			month.UpdateFrequency[e.Date.UTC().Format("2006-01-02")]++
			month.MinutesSpent += e.TimeSpent
		}
		month.ActiveDays = len(month.UpdateFrequency)
		report = append(report, month)
	}
	return report, nil
}

// Overview combines the user's stats, task counts per status and the
// monthly report.
func (s *StatsService) Overview(ctx context.Context, userID uint, months int) (*models.ProgressOverview, error) {
	stats, err := s.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).Model(&models.LearningTask{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	byStatus := map[string]int64{
		string(progress.NotStarted): 0,
		string(progress.InProgress): 0,
		string(progress.Completed):  0,
	}
	for _, r := range rows {
		byStatus[r.Status] = r.Count
	}

	monthly, err := s.Monthly(ctx, userID, months)
	if err != nil {
		return nil, err
	}
	return &models.ProgressOverview{Stats: stats, TasksByStatus: byStatus, MonthlyProgress: monthly}, nil
}
