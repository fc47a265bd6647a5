package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnhub/backend/models"
)

// MaxTopSkills bounds the ranked skill list kept on UserStats.
const MaxTopSkills = 5

// StatsService maintains the per-user aggregate statistics. All day
// arithmetic happens in UTC.
type StatsService struct {
	db    *gorm.DB
	locks *keyedMutex
	now   func() time.Time
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db, locks: newKeyedMutex(), now: time.Now}
}

// WithClock replaces the time source, used by tests and batch jobs.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// GetOrCreate returns the stats record of the user, inserting an empty one on
// first touch. The unique index on user_id makes concurrent calls converge on
// a single row.
func (s *StatsService) GetOrCreate(ctx context.Context, userID uint) (*models.UserStats, error) {
	db := s.db.WithContext(ctx)
	fresh := models.UserStats{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("create user stats: %w", err)
	}

	var stats models.UserStats
	if err := db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, lookupErr("user stats", err)
	}
	return &stats, nil
}

// mutate runs fn on the user's stats under the per-user lock and saves the
// record when fn reports a change.
func (s *StatsService) mutate(ctx context.Context, userID uint, fn func(*models.UserStats) bool) (*models.UserStats, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	stats, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !fn(stats) {
		return stats, nil
	}
	if err := s.db.WithContext(ctx).Save(stats).Error; err != nil {
		return nil, fmt.Errorf("save user stats: %w", err)
	}
	return stats, nil
}

func (s *StatsService) AddLearningTime(ctx context.Context, userID uint, minutes int) error {
	if minutes <= 0 {
		return nil
	}
	_, err := s.mutate(ctx, userID, func(st *models.UserStats) bool {
		st.TotalLearningTime += minutes
		return true
	})
	return err
}

func (s *StatsService) IncrementTasksCompleted(ctx context.Context, userID uint) error {
	_, err := s.mutate(ctx, userID, func(st *models.UserStats) bool {
		st.TasksCompleted++
		return true
	})
	return err
}

func (s *StatsService) IncrementLearningTasksCompleted(ctx context.Context, userID uint) error {
	_, err := s.mutate(ctx, userID, func(st *models.UserStats) bool {
		st.LearningTasksCompleted++
		return true
	})
	return err
}

// DecrementTasksCompleted undoes one completion, never going below zero.
func (s *StatsService) DecrementTasksCompleted(ctx context.Context, userID uint) error {
	_, err := s.mutate(ctx, userID, func(st *models.UserStats) bool {
		if st.TasksCompleted == 0 {
			return false
		}
		st.TasksCompleted--
		return true
	})
	return err
}

// UpdateStreak records activity for today.
func (s *StatsService) UpdateStreak(ctx context.Context, userID uint) (*models.UserStats, error) {
	now := s.now()
	return s.mutate(ctx, userID, func(st *models.UserStats) bool {
		return AdvanceStreak(st, now)
	})
}

// AdvanceStreak applies one day of activity at now to st. It returns false
// when activity was already recorded for the same UTC day or a later one.
func AdvanceStreak(st *models.UserStats, now time.Time) bool {
	today := TruncateDay(now)
	if st.LastActivityDate != nil {
		last := TruncateDay(*st.LastActivityDate)
		switch {
		case !last.Before(today):
			return false
		case last.AddDate(0, 0, 1).Equal(today):
			st.CurrentStreak++
		default:
			st.CurrentStreak = 1
		}
	} else {
		st.CurrentStreak = 1
	}

	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}
	st.LastActivityDate = &today
	return true
}

// TruncateDay returns midnight UTC of t's UTC calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *StatsService) UpdateTopSkills(ctx context.Context, userID uint, skill string) error {
	if skill == "" {
		return nil
	}
	_, err := s.mutate(ctx, userID, func(st *models.UserStats) bool {
		st.TopSkills = RankSkills(st.TopSkills, skill)
		return true
	})
	return err
}

// RankSkills counts one more use of skill and returns the top MaxTopSkills
// entries by count. Equal counts keep their previous relative order.
func RankSkills(current []models.SkillCount, skill string) []models.SkillCount {
	ranked := make([]models.SkillCount, 0, len(current)+1)
	found := false
	for _, sc := range current {
		if sc.Skill == skill {
			sc.Count++
			found = true
		}
		ranked = append(ranked, sc)
	}
	if !found {
		ranked = append(ranked, models.SkillCount{Skill: skill, Count: 1})
	}
	return topSkills(ranked)
}

func topSkills(skills []models.SkillCount) []models.SkillCount {
	sort.SliceStable(skills, func(i, j int) bool {
		return skills[i].Count > skills[j].Count
	})
	if len(skills) > MaxTopSkills {
		skills = skills[:MaxTopSkills]
	}
	return skills
}

// GetUserStats returns the user's stats with top skills resolved: skills from
// the user's profile replace the derived ranking entirely, otherwise the
// ranking is rebuilt from the titles of the user's learning tasks.
func (s *StatsService) GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	var skills []models.SkillCount
	if len(user.Skills) > 0 {
		skills = make([]models.SkillCount, 0, len(user.Skills))
		for _, skill := range user.Skills {
			skills = append(skills, models.SkillCount{Skill: skill, Count: 1})
		}
		if len(skills) > MaxTopSkills {
			skills = skills[:MaxTopSkills]
		}
	} else {
		var titles []string
		if err := s.db.WithContext(ctx).Model(&models.LearningTask{}).
			Where("user_id = ?", userID).
			Order("id ASC").
			Pluck("task_title", &titles).Error; err != nil {
			return nil, fmt.Errorf("list task titles: %w", err)
		}
		skills = countSkills(titles)
	}

	return s.mutate(ctx, userID, func(st *models.UserStats) bool {
		st.TopSkills = skills
		return true
	})
}

func countSkills(titles []string) []models.SkillCount {
	index := make(map[string]int, len(titles))
	counts := make([]models.SkillCount, 0, len(titles))
	for _, title := range titles {
		if i, ok := index[title]; ok {
			counts[i].Count++
			continue
		}
		index[title] = len(counts)
		counts = append(counts, models.SkillCount{Skill: title, Count: 1})
	}
	return topSkills(counts)
}
