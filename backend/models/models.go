package models

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserStats{},
		&LearningTask{},
		&TaskNote{},
		&CodeSnippet{},
		&ProgressEntry{},
		&LearningJourney{},
		&JourneyResource{},
		&JourneyTask{},
		&SharedJourney{},
		&Notification{},
		&Follow{},
		&Post{},
		&PostComment{},
		&Event{},
	}
}
