package models

import (
	"time"

	"gorm.io/gorm"
)

type EventResourceType string

const (
	EventLink    EventResourceType = "link"
	EventVideo   EventResourceType = "video"
	EventBook    EventResourceType = "book"
	EventArticle EventResourceType = "article"
)

func (t EventResourceType) Valid() bool {
	switch t {
	case EventLink, EventVideo, EventBook, EventArticle:
		return true
	}
	return false
}

// Event is a calendar entry. EndsAt is optional; when set it is after StartsAt.
type Event struct {
	gorm.Model
	UserID       uint              `gorm:"index;not null" json:"userId"`
	Title        string            `gorm:"not null" json:"title"`
	Description  string            `json:"description"`
	StartsAt     time.Time         `gorm:"index;not null" json:"start"`
	EndsAt       *time.Time        `gorm:"index" json:"end,omitempty"`
	ResourceType EventResourceType `gorm:"default:link" json:"resourceType"`
	ResourceLink string            `json:"resourceLink,omitempty"`
}
