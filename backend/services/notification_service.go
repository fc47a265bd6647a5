package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"learnhub/backend/models"
)

// NotificationService is the per-user inbox. Share notifications carry the
// shared journey id so they can be retracted once the share is resolved.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) Create(ctx context.Context, n *models.Notification) error {
	missing := map[string]string{}
	if n.UserID == 0 {
		missing["user"] = "is required"
	}
	if n.Message == "" {
		missing["message"] = "is required"
	}
	if len(missing) > 0 {
		return invalid("Invalid notification", missing)
	}
	if n.Type == "" {
		n.Type = models.NotificationOther
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	var n models.Notification
	db := s.db.WithContext(ctx)
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, lookupErr("notification", err)
	}
	if n.Read {
		return &n, nil
	}
	if err := db.Model(&n).Update("read", true).Error; err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.Read = true
	return &n, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// Retract removes the user's notifications of the given type that point at
// the shared journey. Removing nothing is not an error.
func (s *NotificationService) Retract(ctx context.Context, userID uint, typ models.NotificationType, sharedJourneyID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND shared_journey_id = ?", userID, typ, sharedJourneyID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("retract notification: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Exists reports whether the user already holds a notification of the given
// type for the shared journey.
func (s *NotificationService) Exists(ctx context.Context, userID uint, typ models.NotificationType, sharedJourneyID uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND shared_journey_id = ?", userID, typ, sharedJourneyID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count notifications: %w", err)
	}
	return count > 0, nil
}
