package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type UserStats struct {
	gorm.Model
	UserID                 uint                            `gorm:"uniqueIndex;not null" json:"userId"`
	TotalLearningTime      int                             `gorm:"default:0" json:"totalLearningTime"`
	TasksCompleted         int                             `gorm:"default:0" json:"tasksCompleted"`
	LearningTasksCompleted int                             `gorm:"default:0" json:"learningTasksCompleted"`
	CurrentStreak          int                             `gorm:"default:0" json:"currentStreak"`
	LongestStreak          int                             `gorm:"default:0" json:"longestStreak"`
	LastActivityDate       *time.Time                      `json:"lastActivityDate"` // UTC midnight
	TopSkills              datatypes.JSONSlice[SkillCount] `json:"topSkills"`
}
