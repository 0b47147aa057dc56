package service

import (
	"context"

	"promptfeed/internal/generation"
	"promptfeed/internal/models"
)

type GenerationService struct {
	generator generation.Generator
	validator *generation.Validator
	model     string
}

type GenerateImageInput struct {
	Prompt       string
	Model        string
	SystemPrompt string
}

// GenerationInfo describes what the generation endpoint accepts.
type GenerationInfo struct {
	AvailableModels     []generation.Model
	DefaultSystemPrompt string
}

func NewGenerationService(generator generation.Generator, validator *generation.Validator, model string) *GenerationService {
	if validator == nil {
		validator = generation.NewValidator()
	}
	return &GenerationService{generator: generator, validator: validator, model: model}
}

// GenerateImage validates the prompt and makes a single generation call.
// A request without a model uses the configured one.
func (s *GenerationService) GenerateImage(ctx context.Context, in GenerateImageInput) (*generation.Result, error) {
	if in.Prompt == "" {
		return nil, models.NewValidationError("Prompt is required")
	}
	if err := s.validator.Validate(in.Prompt); err != nil {
		return nil, err
	}

	model := in.Model
	if model == "" {
		model = s.model
	}
	return s.generator.Generate(ctx, generation.Request{
		Prompt:       in.Prompt,
		Model:        model,
		SystemPrompt: in.SystemPrompt,
	})
}

func (s *GenerationService) Info() GenerationInfo {
	return GenerationInfo{
		AvailableModels:     generation.AvailableModels(),
		DefaultSystemPrompt: generation.DefaultSystemPrompt,
	}
}
