package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"learnhub/backend/models"
)

const (
	defaultPostPageSize = 10
	maxPostPageSize     = 50
)

type PostInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image"`
	Category string   `json:"category"`
}

// PostQuery filters the feed. FollowingOnly keeps posts whose author the
// viewer follows.
type PostQuery struct {
	Category      string
	Tag           string
	FollowingOnly bool
	Page          int
	Limit         int
}

type PostPage struct {
	Posts       []models.Post `json:"posts"`
	Total       int64         `json:"total"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

// PostService is the community feed: posts by users and comments on them.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// withAuthor preloads the author's public fields only.
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("Author", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "profile_picture")
	})
}

func (in PostInput) validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(in.Content) == "" {
		fields["content"] = "is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "is required"
	}
	if len(fields) > 0 {
		return invalid("Title, content, and category are required", fields)
	}
	return nil
}

func (in PostInput) apply(post *models.Post) {
	post.Title = strings.TrimSpace(in.Title)
	post.Content = in.Content
	post.Tags = cleanTags(in.Tags)
	post.Image = strings.TrimSpace(in.Image)
	post.Category = strings.TrimSpace(in.Category)
}

func cleanTags(tags []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	post := models.Post{AuthorID: authorID}
	in.apply(&post)
	if err := db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return s.Get(ctx, post.ID)
}

func (s *PostService) Update(ctx context.Context, authorID, postID uint, in PostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var post models.Post
	if err := db.Where("id = ? AND author_id = ?", postID, authorID).First(&post).Error; err != nil {
		return nil, lookupErr("post", err)
	}
	in.apply(&post)
	if err := db.Omit("Author", "Comments").Save(&post).Error; err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return s.Get(ctx, post.ID)
}

// Delete removes the author's post together with its comments.
func (s *PostService) Delete(ctx context.Context, authorID, postID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND author_id = ?", postID, authorID).First(&post).Error; err != nil {
			return lookupErr("post", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostComment{}).Error; err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// Get returns any user's post with its author and comments.
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	if err := withAuthor(s.db.WithContext(ctx)).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&post, postID).Error; err != nil {
		return nil, lookupErr("post", err)
	}
	return &post, nil
}

// List returns one page of the feed, newest first.
func (s *PostService) List(ctx context.Context, viewerID uint, q PostQuery) (*PostPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPostPageSize
	}
	if q.Limit > maxPostPageSize {
		q.Limit = maxPostPageSize
	}

	db := s.db.WithContext(ctx)
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.Category != "" {
			tx = tx.Where("category = ?", q.Category)
		}
		if q.Tag != "" {
			tx = tx.Where(datatypes.JSONArrayQuery("tags").Contains(q.Tag))
		}
		if q.FollowingOnly {
			followees := db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID)
			tx = tx.Where("author_id IN (?)", followees)
		}
		return tx
	}

	var total int64
	if err := db.Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	posts := []models.Post{}
	if err := withAuthor(db).Scopes(filter).
		Order("created_at DESC, id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return &PostPage{
		Posts:       posts,
		Total:       total,
		TotalPages:  int((total + int64(q.Limit) - 1) / int64(q.Limit)),
		CurrentPage: q.Page,
	}, nil
}

func (s *PostService) AddComment(ctx context.Context, postID, userID uint, text string) (*models.PostComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Missing required fields", map[string]string{"text": "is required"})
	}

	db := s.db.WithContext(ctx)
	var post models.Post
	if err := db.Select("id").First(&post, postID).Error; err != nil {
		return nil, lookupErr("post", err)
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, lookupErr("user", err)
	}

	comment := models.PostComment{
		PostID:   post.ID,
		UserID:   user.ID,
		UserName: user.Username,
		Text:     text,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

func (s *PostService) Comments(ctx context.Context, postID uint) ([]models.PostComment, error) {
	db := s.db.WithContext(ctx)
	var post models.Post
	if err := db.Select("id").First(&post, postID).Error; err != nil {
		return nil, lookupErr("post", err)
	}
	comments := []models.PostComment{}
	if err := db.Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
