package services

import (
	"log"

	"gorm.io/gorm"

	"learnhub/backend/config"
)

// Services bundles the application services sharing one database handle.
type Services struct {
	Stats         *StatsService
	Tasks         *TaskService
	Journeys      *JourneyService
	Notifications *NotificationService
	Reminders     *ReminderService
	Events        *EventService
	Posts         *PostService
	Follows       *FollowService
	Mail          *Dispatcher
}

func New(db *gorm.DB, cfg *config.Config, mailer Mailer, logger *log.Logger) *Services {
	stats := NewStatsService(db)
	tasks := NewTaskService(db, stats, logger)
	notifications := NewNotificationService(db)
	mail := NewDispatcher(mailer, logger)
	return &Services{
		Stats:         stats,
		Tasks:         tasks,
		Journeys:      NewJourneyService(db, notifications, mail, logger),
		Notifications: notifications,
		Reminders:     NewReminderService(db, tasks, notifications, mail, logger, cfg.InactivityDays),
		Events:        NewEventService(db, mail, logger),
		Posts:         NewPostService(db),
		Follows:       NewFollowService(db, notifications),
		Mail:          mail,
	}
}
