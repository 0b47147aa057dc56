package server

import (
	"promptfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type generateImageRequest struct {
	Prompt       string `json:"prompt"`
	Model        string `json:"model,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// GenerateImage handles POST /api/generate-image
// @Summary Generate an image
// @Description Generates an image without creating a post
// @Tags generation
// @Accept json
// @Produce json
// @Param request body generateImageRequest true "Generation request"
// @Success 200 {object} object{success=bool,imageUrl=string,metadata=generation.Metadata}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /generate-image [post]
func (s *Server) GenerateImage(c *fiber.Ctx) error {
	var req generateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := s.generationService.GenerateImage(c.UserContext(), service.GenerateImageInput{
		Prompt:       req.Prompt,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"imageUrl": result.ImageURL,
		"metadata": result.Metadata,
	})
}

// GetGenerationInfo handles GET /api/generate-image
// @Summary Describe the generation endpoint
// @Tags generation
// @Produce json
// @Success 200 {object} object{success=bool,availableModels=[]generation.Model,defaultSystemPrompt=string,endpoint=string,methods=[]string}
// @Router /generate-image [get]
func (s *Server) GetGenerationInfo(c *fiber.Ctx) error {
	info := s.generationService.Info()
	return c.JSON(fiber.Map{
		"success":             true,
		"availableModels":     info.AvailableModels,
		"defaultSystemPrompt": info.DefaultSystemPrompt,
		"endpoint":            "/api/generate-image",
		"methods":             []string{fiber.MethodPost},
	})
}
