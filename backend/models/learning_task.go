package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"learnhub/backend/progress"
)

type Reminders struct {
	Resume      bool `json:"resume"`
	Deadline    bool `json:"deadline"`
	Every3Hours bool `json:"every3Hours"`
}

type LearningTask struct {
	gorm.Model
	UserID               uint                          `gorm:"index;not null" json:"userId"`
	TaskType             progress.TaskType             `gorm:"not null" json:"type"`
	TaskTitle            string                        `gorm:"not null" json:"name"`
	Pages                int                           `json:"pages"`
	Chapters             int                           `json:"chapters"`
	TotalUnits           int                           `json:"totalUnits"`
	EstimatedTime        int                           `json:"estimatedTime"` // minutes
	TaskSpecificProgress float64                       `gorm:"default:0" json:"taskSpecificProgress"`
	Progress             int                           `gorm:"default:0;check:progress>=0 AND progress<=100" json:"progress"`
	TimeSpent            int                           `gorm:"default:0" json:"timeSpent"` // minutes
	TimeRemain           string                        `json:"timeRemain"`
	Status               progress.Status               `gorm:"not null" json:"status"`
	ResourceLinks        datatypes.JSONSlice[string]   `json:"resourceLinks"`
	Reminders            datatypes.JSONType[Reminders] `json:"reminders"`
	PersonalGoals        string                        `json:"personalGoals,omitempty"`
	LastUpdated          time.Time                     `json:"lastUpdated"`
	Notes                []TaskNote                    `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"notes"`
	CodeSnippets         []CodeSnippet                 `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"codeSnippets"`
	ProgressHistory      []ProgressEntry               `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"progressHistory"`
}

// TaskNote, CodeSnippet and ProgressEntry are append-only logs ordered by ID.
type TaskNote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	TaskID    uint      `gorm:"index;not null" json:"-"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type CodeSnippet struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	TaskID    uint      `gorm:"index;not null" json:"-"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ProgressEntry struct {
	ID                   uint      `gorm:"primaryKey" json:"-"`
	TaskID               uint      `gorm:"index;not null" json:"-"`
	Date                 time.Time `json:"date"`
	Progress             int       `json:"progress"`
	TimeSpent            int       `json:"timeSpent"`
	TaskSpecificProgress float64   `json:"taskSpecificProgress"`
	Note                 string    `json:"note,omitempty"`
	CodeSnippet          string    `json:"codeSnippet,omitempty"`
}
