package server

import (
	"promptfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}

// GetComments handles GET /api/posts/:id/comments
// @Summary List comments
// @Description Oldest first. An unknown post has no comments.
// @Tags comments
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} object{success=bool,comments=[]models.Comment,count=int}
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"comments": comments,
		"count":    len(comments),
	})
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body createCommentRequest true "Comment request"
// @Success 201 {object} object{success=bool,comment=models.Comment}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:   c.Params("id"),
		AuthorID: req.AuthorID,
		Content:  req.Content,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	s.publishFeedEvent(c.UserContext(), EventCommentCreated, map[string]interface{}{
		"postId":  comment.PostID,
		"comment": comment,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"comment": comment,
	})
}
