package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LearningJourney struct {
	gorm.Model
	UserID       uint                        `gorm:"index;not null" json:"userId"`
	Name         string                      `gorm:"not null" json:"name"`
	Description  string                      `json:"description"`
	Resources    []JourneyResource           `gorm:"foreignKey:JourneyID;constraint:OnDelete:CASCADE" json:"resources"`
	Tasks        []JourneyTask               `gorm:"foreignKey:JourneyID;constraint:OnDelete:CASCADE" json:"tasks"`
	Steps        datatypes.JSONSlice[string] `json:"steps"`
	Notes        string                      `json:"notes"`
	SharedFromID *uint                       `gorm:"index" json:"sharedFrom,omitempty"`
	SharedWith   datatypes.JSONSlice[uint]   `json:"sharedWith"`
}

type JourneyResource struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	JourneyID uint   `gorm:"index;not null" json:"-"`
	Position  int    `json:"-"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	Completed bool   `gorm:"default:false" json:"completed"`
}

type JourneyTask struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	JourneyID uint   `gorm:"index;not null" json:"-"`
	Position  int    `json:"-"`
	Text      string `json:"text"`
	Completed bool   `gorm:"default:false" json:"completed"`
}

type ShareStatus string

const (
	SharePending  ShareStatus = "pending"
	ShareAccepted ShareStatus = "accepted"
	ShareRejected ShareStatus = "rejected"
)

type SharedJourney struct {
	gorm.Model
	JourneyID       uint             `gorm:"index;not null" json:"journeyId"`
	SharedByID      uint             `gorm:"index;not null" json:"sharedBy"`
	SharedWithID    uint             `gorm:"index;not null" json:"sharedWith"`
	Status          ShareStatus      `gorm:"default:pending;not null" json:"status"`
	Token           string           `gorm:"uniqueIndex;not null" json:"token"`
	ClonedJourneyID *uint            `json:"clonedJourneyId,omitempty"`
	Journey         *LearningJourney `gorm:"foreignKey:JourneyID" json:"journey,omitempty"`
	SharedBy        *User            `gorm:"foreignKey:SharedByID" json:"sharedByUser,omitempty"`
}
