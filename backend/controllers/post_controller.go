package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

type PostController struct {
	Posts  *services.PostService
	Logger *log.Logger
}

func NewPostController(posts *services.PostService, logger *log.Logger) *PostController {
	return &PostController{Posts: posts, Logger: logger}
}

// AddCommentRequest defines the request body for adding a comment
type AddCommentRequest struct {
	Text string `json:"text" example:"Great write-up, thanks!"`
}

// CreatePost godoc
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param input body services.PostInput true "Post data"
// @Success 201 {object} models.Post
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts [post]
func (pc *PostController) CreatePost(c *fiber.Ctx) error {
	var input services.PostInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	post, err := pc.Posts.Create(c.UserContext(), utils.CurrentUserID(c), input)
	if err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Created(c, post)
}

// UpdatePost godoc
// @Summary Update post
// @Description Only the author can update a post
// @Tags posts
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Param input body services.PostInput true "Post data"
// @Success 200 {object} models.Post
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{postId} [put]
func (pc *PostController) UpdatePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	var input services.PostInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	post, err := pc.Posts.Update(c.UserContext(), utils.CurrentUserID(c), postID, input)
	if err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Success(c, fiber.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete post
// @Tags posts
// @Param postId path int true "Post ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{postId} [delete]
func (pc *PostController) DeletePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	if err := pc.Posts.Delete(c.UserContext(), utils.CurrentUserID(c), postID); err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Message(c, "Post deleted successfully")
}

// GetPosts godoc
// @Summary List posts
// @Description Newest first, paginated
// @Tags posts
// @Produce json
// @Param category query string false "Category"
// @Param tag query string false "Tag"
// @Param followingOnly query bool false "Only posts by followed users"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} services.PostPage
// @Security ApiKeyAuth
// @Router /posts [get]
func (pc *PostController) GetPosts(c *fiber.Ctx) error {
	return pc.listPosts(c, c.QueryBool("followingOnly", false))
}

// GetFollowingPosts godoc
// @Summary List posts by followed users
// @Tags posts
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} services.PostPage
// @Security ApiKeyAuth
// @Router /posts/following [get]
func (pc *PostController) GetFollowingPosts(c *fiber.Ctx) error {
	return pc.listPosts(c, true)
}

func (pc *PostController) listPosts(c *fiber.Ctx, followingOnly bool) error {
	page, err := pc.Posts.List(c.UserContext(), utils.CurrentUserID(c), services.PostQuery{
		Category:      c.Query("category"),
		Tag:           c.Query("tag"),
		FollowingOnly: followingOnly,
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 10),
	})
	if err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Success(c, fiber.StatusOK, page)
}

// GetPost godoc
// @Summary Get post
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{postId} [get]
func (pc *PostController) GetPost(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	post, err := pc.Posts.Get(c.UserContext(), postID)
	if err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Success(c, fiber.StatusOK, post)
}

// AddPostComment godoc
// @Summary Add comment to post
// @Tags posts
// @Accept json
// @Produce json
// @Param postId path int true "Post ID"
// @Param input body AddCommentRequest true "Comment data"
// @Success 201 {object} models.PostComment
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{postId}/comments [post]
func (pc *PostController) AddPostComment(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	var input AddCommentRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	comment, err := pc.Posts.AddComment(c.UserContext(), postID, utils.CurrentUserID(c), input.Text)
	if err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Created(c, comment)
}

// GetPostComments godoc
// @Summary Get post comments
// @Description Returns all comments for a post, oldest first
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {array} models.PostComment
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /posts/{postId}/comments [get]
func (pc *PostController) GetPostComments(c *fiber.Ctx) error {
	postID, err := paramID(c, "postId")
	if err != nil {
		return utils.BadRequest(c, "Invalid post ID")
	}

	comments, err := pc.Posts.Comments(c.UserContext(), postID)
	if err != nil {
		return handleError(c, pc.Logger, err, "Post not found")
	}
	return utils.Success(c, fiber.StatusOK, comments)
}
