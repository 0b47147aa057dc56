package server

import (
	"net/http"
	"strings"
	"testing"

	"promptfeed/internal/generation"
	"promptfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateImage(t *testing.T) {
	env := newTestEnv(t)
	env.generator.On("Generate", mock.Anything, generation.Request{
		Prompt: "city skyline at night",
		Model:  "black-forest-labs/flux-schnell",
	}).Return(okResult("city skyline at night"), nil).Once()

	resp, err := env.app.Test(jsonRequest(t, http.MethodPost, "/api/generate-image", map[string]string{
		"prompt": "city skyline at night",
		"model":  "black-forest-labs/flux-schnell",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "https://img.example/gen.png", body["imageUrl"])
	assert.Equal(t, "city skyline at night", body["metadata"].(map[string]interface{})["prompt"])
	env.generator.AssertExpectations(t)
}

func TestGenerateImage_DefaultsToConfiguredModel(t *testing.T) {
	env := newTestEnv(t)
	env.generator.On("Generate", mock.Anything, mock.MatchedBy(func(r generation.Request) bool {
		return r.Model == "test/model"
	})).Return(okResult("x"), nil).Once()

	resp, err := env.app.Test(jsonRequest(t, http.MethodPost, "/api/generate-image", map[string]string{
		"prompt": "city skyline at night",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
	env.generator.AssertExpectations(t)
}

func TestGenerateImage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		genErr     error
		wantStatus int
		wantError  string
	}{
		{"missing prompt", map[string]string{}, nil, http.StatusBadRequest, "Prompt is required"},
		{"bad body", []int{1, 2}, nil, http.StatusBadRequest, "Invalid request body"},
		{"too long", map[string]string{"prompt": strings.Repeat("a", 1001)}, nil, http.StatusBadRequest, generation.MsgPromptTooLong},
		{"upstream failure", map[string]string{"prompt": "city skyline"}, generation.ErrUpstream, http.StatusInternalServerError, "Image generation failed"},
		{"no image", map[string]string{"prompt": "city skyline"}, generation.ErrNoImageFound, http.StatusInternalServerError, "No image URL found in response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.genErr != nil {
				env.generator.On("Generate", mock.Anything, mock.Anything).Return(&generation.Result{}, tt.genErr)
			}

			resp, err := env.app.Test(jsonRequest(t, http.MethodPost, "/api/generate-image", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, tt.wantError, body["error"])
			if tt.genErr != nil {
				assert.Equal(t, models.CodeUpstream, body["code"])
			} else {
				env.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGetGenerationInfo(t *testing.T) {
	env := newTestEnv(t)
	resp, err := env.app.Test(jsonRequest(t, http.MethodGet, "/api/generate-image", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "/api/generate-image", body["endpoint"])
	assert.Equal(t, []interface{}{"POST"}, body["methods"])
	assert.Equal(t, generation.DefaultSystemPrompt, body["defaultSystemPrompt"])
	assert.Len(t, body["availableModels"], len(generation.AvailableModels()))
}
