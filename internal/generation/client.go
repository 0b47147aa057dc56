// Package generation turns text prompts into image URLs using a
// chat-completion endpoint that replies with free-form text.
package generation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"promptfeed/internal/middleware"
	"promptfeed/internal/models"
	"promptfeed/internal/observability"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBaseURL = "https://oi-server.onrender.com"
	DefaultModel   = "replicate/black-forest-labs/flux-1.1-pro"
	// TestPrompt is sent by TestConnection.
	TestPrompt = "A simple test image of a blue circle"
)

// DefaultSystemPrompt is used when a request carries no system prompt.
const DefaultSystemPrompt = `You are an AI image generator. Create high-quality, visually appealing images based on the user's prompt. Focus on:
- Artistic composition and visual appeal
- Rich colors and lighting
- Creative interpretation of the prompt
- Professional quality output
- Safe for work content only

Generate a single image that best represents the user's request.`

var (
	// ErrNoImageFound means the model replied without any usable URL.
	ErrNoImageFound = &models.AppError{Code: models.CodeUpstream, Message: "No image URL found in response"}
	// ErrUpstream means the endpoint could not be reached or answered with a non-2xx status.
	ErrUpstream = &models.AppError{Code: models.CodeUpstream, Message: "Image generation failed"}
)

var (
	imageURLPattern = regexp.MustCompile(`(?i)https?://[^\s)]+\.(jpg|jpeg|png|gif|webp)`)
	anyURLPattern   = regexp.MustCompile(`(?i)https?://[^\s)]+`)
)

// Model describes a selectable generation model.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AvailableModels lists the models the endpoint is known to serve.
func AvailableModels() []Model {
	return []Model{{
		ID:          DefaultModel,
		Name:        "FLUX 1.1 Pro",
		Description: "High-quality image generation with excellent detail",
	}}
}

// Request is a single generation call. Empty Model and SystemPrompt fall back to defaults.
type Request struct {
	Prompt       string
	Model        string
	SystemPrompt string
}

// Metadata describes a generation attempt. GenerationTime is in milliseconds.
type Metadata struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	GenerationTime int64  `json:"generationTime"`
}

// Result is the outcome of Generate.
type Result struct {
	ImageURL string   `json:"imageUrl"`
	Metadata Metadata `json:"metadata"`
}

// Generator produces an image URL for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	CustomerID string
	Model      string
	// HTTPClient carries the request timeout; a nil value uses http.DefaultClient's transport with no timeout.
	HTTPClient *http.Client
}

// Client calls the chat-completion endpoint through go-openai.
type Client struct {
	api          *openai.Client
	defaultModel string
	now          func() time.Time
}

var _ Generator = (*Client)(nil)

// customerTransport adds the customerId header the endpoint expects.
type customerTransport struct {
	customerID string
	next       http.RoundTripper
}

func (t *customerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("customerId", t.customerID)
	return t.next.RoundTrip(r)
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	if cfg.CustomerID != "" {
		next := httpClient.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		httpClient.Transport = &customerTransport{customerID: cfg.CustomerID, next: next}
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimRight(base, "/")
	oc.HTTPClient = httpClient

	return &Client{
		api:          openai.NewClientWithConfig(oc),
		defaultModel: model,
		now:          time.Now,
	}
}

// DefaultModel returns the model used when a request names none.
func (c *Client) DefaultModel() string { return c.defaultModel }

// Generate makes exactly one call to the endpoint. The returned Result always
// carries Metadata, also when err is non-nil.
func (c *Client) Generate(ctx context.Context, req Request) (res *Result, err error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	ctx, span := observability.StartSpan(ctx, "generation.generate", attribute.String("generation.model", model))
	start := c.now()
	res = &Result{Metadata: Metadata{Model: model, Prompt: req.Prompt}}
	defer func() {
		elapsed := c.now().Sub(start)
		res.Metadata.GenerationTime = elapsed.Milliseconds()
		outcome := "success"
		if err != nil {
			outcome = "error"
			if errors.Is(err, ErrNoImageFound) {
				outcome = "no_image"
			}
			middleware.Logger.ErrorContext(ctx, "Image generation failed",
				slog.String("model", model),
				slog.String("error", err.Error()),
			)
		}
		observability.ObserveGeneration(model, outcome, elapsed)
		observability.EndSpan(span, err)
	}()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return res, models.NewUpstreamError(ErrUpstream.Message, err)
	}
	if len(resp.Choices) == 0 {
		return res, ErrNoImageFound
	}

	url, ok := ExtractImageURL(resp.Choices[0].Message.Content)
	if !ok {
		return res, ErrNoImageFound
	}
	res.ImageURL = url
	return res, nil
}

// TestConnection reports whether a generation for TestPrompt succeeds.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.Generate(ctx, Request{Prompt: TestPrompt})
	return err == nil
}

// ExtractImageURL finds the first URL ending in a known image extension. If
// there is none but the text mentions http, the first URL of any kind is used.
func ExtractImageURL(content string) (string, bool) {
	if m := imageURLPattern.FindString(content); m != "" {
		return m, true
	}
	if strings.Contains(content, "http") {
		if m := anyURLPattern.FindString(content); m != "" {
			return m, true
		}
	}
	return "", false
}
