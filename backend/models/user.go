package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username       string                      `gorm:"unique;not null" json:"username"`
	Email          string                      `gorm:"unique;not null" json:"email"`
	PasswordHash   string                      `gorm:"not null" json:"-"`
	Role           string                      `gorm:"default:student" json:"role"` // student, instructor, admin
	ProfilePicture string                      `json:"profilePicture,omitempty"`
	Bio            string                      `json:"bio,omitempty"`
	Skills         datatypes.JSONSlice[string] `json:"skills"`
	LearningGoals  datatypes.JSONSlice[string] `json:"learningGoals"`
	LastActive     time.Time                   `json:"lastActive"`
}
