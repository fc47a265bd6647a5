package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/backend/models"
)

type ResourceInput struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	Completed bool   `json:"completed"`
}

type JourneyTaskInput struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type JourneyInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Resources   []ResourceInput    `json:"resources"`
	Tasks       []JourneyTaskInput `json:"tasks"`
	Steps       []string           `json:"steps"`
	Notes       string             `json:"notes"`
}

// ShareResponse is the recipient's answer to a pending share.
type ShareResponse string

const (
	ShareAccept ShareResponse = "accept"
	ShareReject ShareResponse = "reject"
)

// ParseShareResponse accepts "accept"/"accepted" and "reject"/"rejected".
func ParseShareResponse(raw string) (ShareResponse, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accept", "accepted":
		return ShareAccept, nil
	case "reject", "rejected":
		return ShareReject, nil
	}
	return "", invalidField("response", "must be accept or reject")
}

// RespondResult describes a resolved share. Journey is the recipient's copy
// and is nil when the share was rejected.
type RespondResult struct {
	Share   *models.SharedJourney   `json:"share"`
	Journey *models.LearningJourney `json:"journey,omitempty"`
}

// JourneyService manages learning journeys and the sharing state machine:
// pending -> accepted | rejected.
type JourneyService struct {
	db            *gorm.DB
	notifications *NotificationService
	mail          *Dispatcher
	logger        *log.Logger
	locks         *keyedMutex
}

func NewJourneyService(db *gorm.DB, notifications *NotificationService, mail *Dispatcher, logger *log.Logger) *JourneyService {
	return &JourneyService{
		db:            db,
		notifications: notifications,
		mail:          mail,
		logger:        logger,
		locks:         newKeyedMutex(),
	}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Resources", byPosition).Preload("Tasks", byPosition)
}

func buildItems(in JourneyInput) ([]models.JourneyResource, []models.JourneyTask) {
	resources := make([]models.JourneyResource, 0, len(in.Resources))
	for i, r := range in.Resources {
		resources = append(resources, models.JourneyResource{Position: i, URL: r.URL, Type: r.Type, Completed: r.Completed})
	}
	tasks := make([]models.JourneyTask, 0, len(in.Tasks))
	for i, t := range in.Tasks {
		tasks = append(tasks, models.JourneyTask{Position: i, Text: t.Text, Completed: t.Completed})
	}
	return resources, tasks
}

func (s *JourneyService) Create(ctx context.Context, ownerID uint, in JourneyInput) (*models.LearningJourney, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("Missing required fields", map[string]string{"name": "is required"})
	}
	resources, tasks := buildItems(in)
	journey := models.LearningJourney{
		UserID:      ownerID,
		Name:        in.Name,
		Description: in.Description,
		Resources:   resources,
		Tasks:       tasks,
		Steps:       in.Steps,
		Notes:       in.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&journey).Error; err != nil {
		return nil, fmt.Errorf("create learning journey: %w", err)
	}
	return &journey, nil
}

func (s *JourneyService) List(ctx context.Context, ownerID uint) ([]models.LearningJourney, error) {
	var journeys []models.LearningJourney
	if err := preloadItems(s.db.WithContext(ctx)).
		Where("user_id = ?", ownerID).
		Order("id ASC").
		Find(&journeys).Error; err != nil {
		return nil, fmt.Errorf("list learning journeys: %w", err)
	}
	return journeys, nil
}

func (s *JourneyService) Get(ctx context.Context, ownerID, journeyID uint) (*models.LearningJourney, error) {
	return s.find(s.db.WithContext(ctx), ownerID, journeyID)
}

func (s *JourneyService) find(db *gorm.DB, ownerID, journeyID uint) (*models.LearningJourney, error) {
	var journey models.LearningJourney
	if err := preloadItems(db).
		Where("id = ? AND user_id = ?", journeyID, ownerID).
		First(&journey).Error; err != nil {
		return nil, lookupErr("learning journey", err)
	}
	return &journey, nil
}

// Update replaces the journey's fields, resources and tasks.
func (s *JourneyService) Update(ctx context.Context, ownerID, journeyID uint, in JourneyInput) (*models.LearningJourney, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, invalid("Missing required fields", map[string]string{"name": "is required"})
	}

	var updated *models.LearningJourney
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		journey, err := s.find(tx, ownerID, journeyID)
		if err != nil {
			return err
		}
		if err := tx.Where("journey_id = ?", journey.ID).Delete(&models.JourneyResource{}).Error; err != nil {
			return fmt.Errorf("replace resources: %w", err)
		}
		if err := tx.Where("journey_id = ?", journey.ID).Delete(&models.JourneyTask{}).Error; err != nil {
			return fmt.Errorf("replace tasks: %w", err)
		}

		resources, tasks := buildItems(in)
		journey.Name = in.Name
		journey.Description = in.Description
		journey.Steps = in.Steps
		journey.Notes = in.Notes
		journey.Resources = resources
		journey.Tasks = tasks
		if err := tx.Save(journey).Error; err != nil {
			return fmt.Errorf("save learning journey: %w", err)
		}
		updated = journey
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *JourneyService) Delete(ctx context.Context, ownerID, journeyID uint) error {
	db := s.db.WithContext(ctx)
	var journey models.LearningJourney
	if err := db.Where("id = ? AND user_id = ?", journeyID, ownerID).First(&journey).Error; err != nil {
		return lookupErr("learning journey", err)
	}
	if err := db.Select(clause.Associations).Delete(&journey).Error; err != nil {
		return fmt.Errorf("delete learning journey: %w", err)
	}
	return nil
}

func (s *JourneyService) DeleteResource(ctx context.Context, ownerID, journeyID, resourceID uint) error {
	return s.deleteItem(ctx, ownerID, journeyID, resourceID, &models.JourneyResource{}, "resource")
}

func (s *JourneyService) DeleteTask(ctx context.Context, ownerID, journeyID, taskID uint) error {
	return s.deleteItem(ctx, ownerID, journeyID, taskID, &models.JourneyTask{}, "journey task")
}

func (s *JourneyService) deleteItem(ctx context.Context, ownerID, journeyID, itemID uint, model interface{}, what string) error {
	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.LearningJourney{}).
		Where("id = ? AND user_id = ?", journeyID, ownerID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("find learning journey: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("learning journey: %w", ErrNotFound)
	}

	res := db.Where("id = ? AND journey_id = ?", itemID, journeyID).Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", what, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

// Share offers the owner's journey to the user registered under
// recipientEmail. Sharing the same journey with the same user again while the
// first offer is pending returns the existing offer.
func (s *JourneyService) Share(ctx context.Context, ownerID, journeyID uint, recipientEmail string) (*models.SharedJourney, error) {
	recipientEmail = strings.TrimSpace(recipientEmail)
	if recipientEmail == "" {
		return nil, invalid("Missing required fields", map[string]string{"email": "is required"})
	}

	db := s.db.WithContext(ctx)
	var journey models.LearningJourney
	if err := db.Where("id = ? AND user_id = ?", journeyID, ownerID).First(&journey).Error; err != nil {
		return nil, lookupErr("learning journey", err)
	}

	var recipient models.User
	if err := db.Where("LOWER(email) = LOWER(?)", recipientEmail).First(&recipient).Error; err != nil {
		return nil, lookupErr("recipient", err)
	}
	if recipient.ID == ownerID {
		return nil, invalidField("email", "cannot share a journey with yourself")
	}

	var sharer models.User
	if err := db.First(&sharer, ownerID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	var existing models.SharedJourney
	err := db.Where("journey_id = ? AND shared_by_id = ? AND shared_with_id = ? AND status = ?",
		journey.ID, ownerID, recipient.ID, models.SharePending).First(&existing).Error
	switch {
	case err == nil:
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find shared journey: %w", err)
	}

	share := models.SharedJourney{
		JourneyID:    journey.ID,
		SharedByID:   ownerID,
		SharedWithID: recipient.ID,
		Status:       models.SharePending,
		Token:        uuid.NewString(),
	}
	if err := db.Create(&share).Error; err != nil {
		return nil, fmt.Errorf("create shared journey: %w", err)
	}

	message := fmt.Sprintf("%s shared the learning journey %q with you", sharer.Username, journey.Name)
	if err := s.notifications.Create(ctx, &models.Notification{
		UserID:           recipient.ID,
		Type:             models.NotificationJourneyShared,
		Message:          message,
		RelatedJourneyID: &journey.ID,
		RelatedUserID:    &sharer.ID,
		SharedJourneyID:  &share.ID,
	}); err != nil {
		return nil, err
	}

	s.mail.Dispatch(MailMessage{
		To:      recipient.Email,
		Subject: "A learning journey was shared with you",
		Body:    message + ".\nOpen LearnHub to accept or reject it.",
	})
	return &share, nil
}

// ListShared returns the pending offers addressed to the user.
func (s *JourneyService) ListShared(ctx context.Context, userID uint) ([]models.SharedJourney, error) {
	var shares []models.SharedJourney
	if err := s.db.WithContext(ctx).
		Preload("Journey").
		Preload("Journey.Resources", byPosition).
		Preload("Journey.Tasks", byPosition).
		Preload("SharedBy").
		Where("shared_with_id = ? AND status = ?", userID, models.SharePending).
		Order("created_at DESC, id DESC").
		Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("list shared journeys: %w", err)
	}
	return shares, nil
}

// Respond resolves a share addressed to userID.
//
// Accepting copies the original journey for the recipient with every
// completion flag cleared. The copy, the status change and the shared-with
// entry on the original are written in one transaction, and the share keeps
// the id of the copy, so answering an accepted share again returns the same
// copy. Rejecting deletes the share. Either way the journey_shared
// notification is retracted and the sharer is told the outcome; those writes
// follow the transaction and are not rolled back with it.
func (s *JourneyService) Respond(ctx context.Context, userID, sharedJourneyID uint, response ShareResponse) (*RespondResult, error) {
	if response != ShareAccept && response != ShareReject {
		return nil, invalidField("response", "must be accept or reject")
	}

	unlock := s.locks.Lock(sharedJourneyID)
	defer unlock()

	db := s.db.WithContext(ctx)
	var share models.SharedJourney
	if err := db.Where("id = ? AND shared_with_id = ?", sharedJourneyID, userID).First(&share).Error; err != nil {
		return nil, lookupErr("shared journey", err)
	}
	if share.Status == models.ShareAccepted && response == ShareReject {
		return nil, invalidField("response", "share was already accepted")
	}

	var recipient models.User
	if err := db.First(&recipient, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	result := &RespondResult{Share: &share}
	var journeyName string

	switch response {
	case ShareAccept:
		clone, name, err := s.accept(ctx, &share, userID)
		if err != nil {
			return nil, err
		}
		result.Journey = clone
		journeyName = name
	case ShareReject:
		var original models.LearningJourney
		if err := db.Select("name").First(&original, share.JourneyID).Error; err == nil {
			journeyName = original.Name
		}
		share.Status = models.ShareRejected
		if err := db.Unscoped().Delete(&models.SharedJourney{}, share.ID).Error; err != nil {
			return nil, fmt.Errorf("delete shared journey: %w", err)
		}
	}

	s.finishResponse(ctx, &share, &recipient, journeyName)
	return result, nil
}

func (s *JourneyService) accept(ctx context.Context, share *models.SharedJourney, userID uint) (*models.LearningJourney, string, error) {
	var (
		clone models.LearningJourney
		name  string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.LearningJourney
		if err := preloadItems(tx).First(&original, share.JourneyID).Error; err != nil {
			return lookupErr("learning journey", err)
		}
		name = original.Name

		if share.ClonedJourneyID != nil {
			err := preloadItems(tx).First(&clone, *share.ClonedJourneyID).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("find accepted journey: %w", err)
			}
		}

		clone = CloneJourney(&original, userID)
		if err := tx.Create(&clone).Error; err != nil {
			return fmt.Errorf("clone learning journey: %w", err)
		}

		if !containsID(original.SharedWith, userID) {
			sharedWith := append(append([]uint{}, original.SharedWith...), userID)
			if err := tx.Model(&original).Update("shared_with", datatypes.JSONSlice[uint](sharedWith)).Error; err != nil {
				return fmt.Errorf("record shared-with: %w", err)
			}
		}

		if err := tx.Model(share).Updates(map[string]interface{}{
			"status":            models.ShareAccepted,
			"cloned_journey_id": clone.ID,
		}).Error; err != nil {
			return fmt.Errorf("accept shared journey: %w", err)
		}
		share.Status = models.ShareAccepted
		share.ClonedJourneyID = &clone.ID
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &clone, name, nil
}

// finishResponse retracts the share notification and tells the sharer the
// outcome. Failures are logged: the share itself is already resolved.
func (s *JourneyService) finishResponse(ctx context.Context, share *models.SharedJourney, recipient *models.User, journeyName string) {
	if _, err := s.notifications.Retract(ctx, recipient.ID, models.NotificationJourneyShared, share.ID); err != nil {
		s.logger.Printf("share %d: retract notification: %v", share.ID, err)
	}

	sent, err := s.notifications.Exists(ctx, share.SharedByID, models.NotificationShareResponse, share.ID)
	if err != nil {
		s.logger.Printf("share %d: check response notification: %v", share.ID, err)
		return
	}
	if sent {
		return
	}

	if journeyName == "" {
		journeyName = "your learning journey"
	} else {
		journeyName = fmt.Sprintf("%q", journeyName)
	}
	message := fmt.Sprintf("%s %s the shared learning journey %s", recipient.Username, share.Status, journeyName)
	if err := s.notifications.Create(ctx, &models.Notification{
		UserID:           share.SharedByID,
		Type:             models.NotificationShareResponse,
		Message:          message,
		RelatedJourneyID: &share.JourneyID,
		RelatedUserID:    &recipient.ID,
		SharedJourneyID:  &share.ID,
	}); err != nil {
		s.logger.Printf("share %d: notify sharer: %v", share.ID, err)
	}
}

// CloneJourney copies original for newOwner. Progress is personal, so every
// resource and task of the copy starts uncompleted.
func CloneJourney(original *models.LearningJourney, newOwner uint) models.LearningJourney {
	resources := make([]models.JourneyResource, 0, len(original.Resources))
	for i, r := range original.Resources {
		resources = append(resources, models.JourneyResource{Position: i, URL: r.URL, Type: r.Type, Completed: false})
	}
	tasks := make([]models.JourneyTask, 0, len(original.Tasks))
	for i, t := range original.Tasks {
		tasks = append(tasks, models.JourneyTask{Position: i, Text: t.Text, Completed: false})
	}
	sourceID := original.ID
	return models.LearningJourney{
		UserID:       newOwner,
		Name:         original.Name,
		Description:  original.Description,
		Resources:    resources,
		Tasks:        tasks,
		Steps:        append([]string{}, original.Steps...),
		Notes:        original.Notes,
		SharedFromID: &sourceID,
	}
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
