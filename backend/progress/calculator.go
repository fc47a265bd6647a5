// Package progress converts the raw, type-specific signals of a learning task
// (pages read, minutes watched, lessons completed, article read) into a
// normalized 0-100 progress value and a display label for the time remaining.
package progress

import (
	"errors"
	"fmt"
	"math"
)

type TaskType string

const (
	Book    TaskType = "Book"
	Video   TaskType = "Video"
	Course  TaskType = "Course"
	Article TaskType = "Article"
)

// TaskTypes lists the supported task types in a stable order.
var TaskTypes = []TaskType{Course, Book, Video, Article}

func (t TaskType) Valid() bool {
	switch t {
	case Book, Video, Course, Article:
		return true
	}
	return false
}

type Status string

const (
	NotStarted Status = "Not Started"
	InProgress Status = "In Progress"
	Completed  Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case NotStarted, InProgress, Completed:
		return true
	}
	return false
}

var (
	ErrInvalidTaskType = errors.New("invalid task type")
	ErrNegativeSignal  = errors.New("progress signal must not be negative")
)

// Signal carries the type-specific progress input. Only the field matching the
// task type is consulted; a nil field means "no new reading".
type Signal struct {
	PagesRead        *float64
	MinutesWatched   *float64
	LessonsCompleted *float64
	Completed        *bool
}

type Result struct {
	Progress         int
	SpecificProgress float64
}

// Compute returns the new overall progress and the new task-specific progress.
//
// Book readings accumulate on top of previousSpecific, Video and Course readings
// replace it, and Article is binary. Course progress is measured against
// estimatedTime rather than totalUnits.
func Compute(taskType TaskType, sig Signal, totalUnits, previousSpecific, estimatedTime float64) (Result, error) {
	specific := previousSpecific

	switch taskType {
	case Book:
		if sig.PagesRead != nil {
			if *sig.PagesRead < 0 {
				return Result{}, fmt.Errorf("pagesRead: %w", ErrNegativeSignal)
			}
			specific = previousSpecific + *sig.PagesRead
		}
		return Result{Progress: percent(specific, totalUnits), SpecificProgress: specific}, nil
	case Video:
		if sig.MinutesWatched != nil {
			if *sig.MinutesWatched < 0 {
				return Result{}, fmt.Errorf("minutesWatched: %w", ErrNegativeSignal)
			}
			specific = *sig.MinutesWatched
		}
		return Result{Progress: percent(specific, totalUnits), SpecificProgress: specific}, nil
	case Course:
		if sig.LessonsCompleted != nil {
			if *sig.LessonsCompleted < 0 {
				return Result{}, fmt.Errorf("lessonsCompleted: %w", ErrNegativeSignal)
			}
			specific = *sig.LessonsCompleted
		}
		return Result{Progress: percent(specific, estimatedTime), SpecificProgress: specific}, nil
	case Article:
		if sig.Completed != nil {
			specific = 0
			if *sig.Completed {
				specific = 1
			}
		}
		if specific > 0 {
			return Result{Progress: 100, SpecificProgress: 1}, nil
		}
		return Result{Progress: 0, SpecificProgress: 0}, nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidTaskType, taskType)
	}
}

func percent(value, denominator float64) int {
	if denominator <= 0 || value <= 0 {
		return 0
	}
	return Clamp(int(math.Round(math.Min(100, value/denominator*100))))
}

// Clamp bounds p to [0, 100].
func Clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// StatusFor derives the task status from its overall progress.
func StatusFor(p int) Status {
	switch {
	case p >= 100:
		return Completed
	case p <= 0:
		return NotStarted
	default:
		return InProgress
	}
}

// TotalUnits picks the denominator stored on a task: pages for books,
// chapters for courses, 1 for everything else.
func TotalUnits(taskType TaskType, pages, chapters int) int {
	switch taskType {
	case Book:
		return pages
	case Course:
		return chapters
	default:
		return 1
	}
}
