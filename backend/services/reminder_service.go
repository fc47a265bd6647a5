package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"learnhub/backend/models"
)

// ReminderService nudges users about learning tasks they have not touched
// for a while. It only runs when triggered.
type ReminderService struct {
	db            *gorm.DB
	tasks         *TaskService
	notifications *NotificationService
	mail          *Dispatcher
	logger        *log.Logger
	inactivity    time.Duration
}

func NewReminderService(db *gorm.DB, tasks *TaskService, notifications *NotificationService, mail *Dispatcher, logger *log.Logger, inactiveDays int) *ReminderService {
	if inactiveDays <= 0 {
		inactiveDays = 3
	}
	return &ReminderService{
		db:            db,
		tasks:         tasks,
		notifications: notifications,
		mail:          mail,
		logger:        logger,
		inactivity:    time.Duration(inactiveDays) * 24 * time.Hour,
	}
}

// SendInactivityReminders mails and notifies the owner of every unfinished
// task idle since before now minus the inactivity window. It returns the
// number of reminders sent.
func (s *ReminderService) SendInactivityReminders(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.tasks.ListInactive(ctx, now.Add(-s.inactivity))
	if err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(tasks))
	seen := make(map[uint]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.UserID]; !ok {
			seen[t.UserID] = struct{}{}
			ids = append(ids, t.UserID)
		}
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return 0, fmt.Errorf("load users for reminders: %w", err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	days := int(s.inactivity.Hours() / 24)
	sent := 0
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		user, ok := byID[task.UserID]
		if !ok {
			continue
		}
		text := fmt.Sprintf("Don't forget about your task: %s. It's been %d days since your last activity.", task.TaskTitle, days)
		s.mail.Dispatch(MailMessage{To: user.Email, Subject: "LearnHub Task Reminder", Body: text})
		if err := s.notifications.Create(ctx, &models.Notification{
			UserID:  user.ID,
			Type:    models.NotificationOther,
			Message: text,
		}); err != nil {
			s.logger.Printf("reminder for task %d: %v", task.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
