package server

import (
	"promptfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
// @Summary List or look up users
// @Description With id or username, returns that user. Otherwise returns every user.
// @Tags users
// @Produce json
// @Param id query string false "User ID"
// @Param username query string false "Username"
// @Success 200 {object} object{success=bool,users=[]models.User,count=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if id, username := c.Query("id"), c.Query("username"); id != "" || username != "" {
		var (
			user *models.User
			err  error
		)
		if id != "" {
			user, err = s.userService.GetUser(ctx, id)
		} else {
			user, err = s.userService.GetUserByUsername(ctx, username)
		}
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"user":    user,
		})
	}

	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}
