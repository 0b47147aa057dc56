package server

import (
	"promptfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Prompt       string   `json:"prompt"`
	Caption      string   `json:"caption,omitempty"`
	AuthorID     string   `json:"authorId"`
	Tags         []string `json:"tags,omitempty"`
	SystemPrompt string   `json:"systemPrompt,omitempty"`
}

type toggleLikeRequest struct {
	UserID string `json:"userId"`
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest first. userId returns that user's posts and ignores limit.
// @Tags posts
// @Produce json
// @Param limit query int false "Maximum number of posts"
// @Param userId query string false "Only posts by this author"
// @Success 200 {object} object{success=bool,posts=[]models.Post,count=int}
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Limit:  parseLimit(c),
		UserID: c.Query("userId"),
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"posts":   posts,
		"count":   len(posts),
	})
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Generates an image from the prompt and shares it to the feed
// @Tags posts
// @Accept json
// @Produce json
// @Param request body createPostRequest true "Post request"
// @Success 201 {object} object{success=bool,post=models.Post,generationMetadata=generation.Metadata}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Prompt:       req.Prompt,
		Caption:      req.Caption,
		AuthorID:     req.AuthorID,
		Tags:         req.Tags,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishFeedEvent(c.UserContext(), EventPostCreated, map[string]interface{}{
		"post": result.Post,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":            true,
		"post":               result.Post,
		"generationMetadata": result.Metadata,
	})
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} object{success=bool,post=models.Post}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"post":    post,
	})
}

// ToggleLike handles POST /api/posts/:id/like
// @Summary Like or unlike a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body toggleLikeRequest true "Liking user"
// @Success 200 {object} object{success=bool,liked=bool,likesCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req toggleLikeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	postID := c.Params("id")
	result, err := s.postService.ToggleLike(c.UserContext(), postID, req.UserID)
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishFeedEvent(c.UserContext(), EventPostReactionUpdated, map[string]interface{}{
		"postId":     postID,
		"userId":     req.UserID,
		"liked":      result.Liked,
		"likesCount": result.LikesCount,
	})

	return c.JSON(fiber.Map{
		"success":    true,
		"liked":      result.Liked,
		"likesCount": result.LikesCount,
	})
}
