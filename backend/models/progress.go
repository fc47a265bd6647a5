package models

import "time"

// MonthlyProgress summarises one calendar month (UTC) of progress updates.
type MonthlyProgress struct {
	Month           time.Month     `json:"month"`
	Year            int            `json:"year"`
	ActiveDays      int            `json:"activeDays"`
	MinutesSpent    int            `json:"minutesSpent"`
	TasksCompleted  int64          `json:"tasksCompleted"`
	UpdateFrequency map[string]int `json:"updateFrequency"` // day -> updates
}

type ProgressOverview struct {
	Stats           *UserStats        `json:"stats"`
	TasksByStatus   map[string]int64  `json:"tasksByStatus"`
	MonthlyProgress []MonthlyProgress `json:"monthlyProgress"`
}
