package models

import "gorm.io/gorm"

type NotificationType string

const (
	NotificationJourneyShared NotificationType = "journey_shared"
	NotificationShareResponse NotificationType = "journey_share_response"
	NotificationNewFollower   NotificationType = "new_follower"
	NotificationOther         NotificationType = "other"
)

type Notification struct {
	gorm.Model
	UserID           uint             `gorm:"index;not null" json:"userId"`
	Type             NotificationType `gorm:"not null" json:"type"`
	Message          string           `gorm:"not null" json:"message"`
	Read             bool             `gorm:"default:false" json:"read"`
	RelatedJourneyID *uint            `json:"relatedJourney,omitempty"`
	RelatedUserID    *uint            `json:"relatedUser,omitempty"`
	SharedJourneyID  *uint            `gorm:"index" json:"sharedJourneyId,omitempty"`
}
