package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"learnhub/backend/models"
)

const defaultSuggestionLimit = 5

// UserSummary is the public view of another user.
type UserSummary struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	LastActive     time.Time `json:"lastActive"`
}

func summarize(u models.User) UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		LastActive:     u.LastActive,
	}
}

// Network is a user's followers and the users they follow.
type Network struct {
	Followers []UserSummary `json:"followers"`
	Following []UserSummary `json:"following"`
}

type Connection struct {
	UserSummary
	IsFollower  bool `json:"isFollower"`
	IsFollowing bool `json:"isFollowing"`
}

type SuggestOptions struct {
	Limit                 int
	ConsiderSkills        bool
	ConsiderLearningGoals bool
}

type Suggestion struct {
	UserSummary
	CommonInterests       int      `json:"commonInterests"`
	MatchingSkills        []string `json:"matchingSkills"`
	MatchingLearningGoals []string `json:"matchingLearningGoals"`
	Reasons               []string `json:"reasons"`
}

// FollowService keeps the follow graph between users.
type FollowService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewFollowService(db *gorm.DB, notifications *NotificationService) *FollowService {
	return &FollowService{db: db, notifications: notifications}
}

// Follow makes followerID follow targetID and tells the target about it.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return invalidField("id", "cannot follow yourself")
	}

	var follower models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.First(&target, targetID).Error; err != nil {
			return lookupErr("user", err)
		}
		if err := tx.First(&follower, followerID).Error; err != nil {
			return lookupErr("user", err)
		}

		following, err := isFollowing(tx, followerID, targetID)
		if err != nil {
			return err
		}
		if following {
			return invalidField("id", "is already followed")
		}
		if err := tx.Create(&models.Follow{FollowerID: followerID, FolloweeID: targetID}).Error; err != nil {
			return fmt.Errorf("create follow: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.notifications.Create(ctx, &models.Notification{
		UserID:        targetID,
		Type:          models.NotificationNewFollower,
		Message:       fmt.Sprintf("%s started following you", follower.Username),
		RelatedUserID: &follower.ID,
	})
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	db := s.db.WithContext(ctx)
	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		return lookupErr("user", err)
	}
	res := db.Where("follower_id = ? AND followee_id = ?", followerID, targetID).Delete(&models.Follow{})
	if res.Error != nil {
		return fmt.Errorf("delete follow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return invalidField("id", "is not followed")
	}
	return nil
}

func isFollowing(db *gorm.DB, followerID, targetID uint) (bool, error) {
	var edge models.Follow
	err := db.Where("follower_id = ? AND followee_id = ?", followerID, targetID).First(&edge).Error
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	}
	return false, fmt.Errorf("find follow: %w", err)
}

// Followers lists the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]UserSummary, error) {
	return s.related(ctx, userID, "follows.followee_id", "follows.follower_id")
}

// Following lists the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]UserSummary, error) {
	return s.related(ctx, userID, "follows.follower_id", "follows.followee_id")
}

func (s *FollowService) related(ctx context.Context, userID uint, matchColumn, userColumn string) ([]UserSummary, error) {
	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	var users []models.User
	if err := db.Joins("JOIN follows ON "+userColumn+" = users.id").
		Where(matchColumn+" = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u))
	}
	return out, nil
}

func (s *FollowService) Network(ctx context.Context, userID uint) (*Network, error) {
	followers, err := s.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.Following(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Network{Followers: followers, Following: following}, nil
}

// Connections merges followers and followed users, most recently active first.
func (s *FollowService) Connections(ctx context.Context, userID uint) ([]Connection, error) {
	network, err := s.Network(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := map[uint]*Connection{}
	for _, u := range network.Followers {
		byID[u.ID] = &Connection{UserSummary: u, IsFollower: true}
	}
	for _, u := range network.Following {
		if c, ok := byID[u.ID]; ok {
			c.IsFollowing = true
			continue
		}
		byID[u.ID] = &Connection{UserSummary: u, IsFollowing: true}
	}

	connections := make([]Connection, 0, len(byID))
	for _, c := range byID {
		connections = append(connections, *c)
	}
	sort.Slice(connections, func(i, j int) bool {
		a, b := connections[i], connections[j]
		if !a.LastActive.Equal(b.LastActive) {
			return a.LastActive.After(b.LastActive)
		}
		return a.ID < b.ID
	})
	return connections, nil
}

// Suggest ranks users the caller does not follow yet by the skills and
// learning goals they share, then by recent activity.
func (s *FollowService) Suggest(ctx context.Context, userID uint, opts SuggestOptions) ([]Suggestion, error) {
	if opts.Limit < 1 {
		opts.Limit = defaultSuggestionLimit
	}

	db := s.db.WithContext(ctx)
	var me models.User
	if err := db.First(&me, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	followees := db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", userID)
	var candidates []models.User
	if err := db.Where("id <> ? AND id NOT IN (?)", userID, followees).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, u := range candidates {
		sg := Suggestion{UserSummary: summarize(u), MatchingSkills: []string{}, MatchingLearningGoals: []string{}}
		if opts.ConsiderSkills {
			sg.MatchingSkills = intersect(me.Skills, u.Skills)
		}
		if opts.ConsiderLearningGoals {
			sg.MatchingLearningGoals = intersect(me.LearningGoals, u.LearningGoals)
		}
		sg.CommonInterests = len(sg.MatchingSkills) + len(sg.MatchingLearningGoals)
		sg.Reasons = suggestionReasons(sg)
		suggestions = append(suggestions, sg)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.CommonInterests != b.CommonInterests {
			return a.CommonInterests > b.CommonInterests
		}
		if !a.LastActive.Equal(b.LastActive) {
			return a.LastActive.After(b.LastActive)
		}
		return a.ID < b.ID
	})
	if len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}
	return suggestions, nil
}

func suggestionReasons(sg Suggestion) []string {
	var reasons []string
	if n := len(sg.MatchingSkills); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Shares %d skills: %s", n, strings.Join(sg.MatchingSkills, ", ")))
	}
	if n := len(sg.MatchingLearningGoals); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Has %d common learning goals: %s", n, strings.Join(sg.MatchingLearningGoals, ", ")))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Suggested based on recent activity")
	}
	return reasons
}

// intersect returns the items of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, v := range b {
		in[v] = struct{}{}
	}
	out := []string{}
	seen := map[string]struct{}{}
	for _, v := range a {
		if _, ok := in[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
