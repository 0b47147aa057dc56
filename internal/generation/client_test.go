package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"promptfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Path       string
	Auth       string
	CustomerID string
	Body       struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
}

func completionServer(t *testing.T, status int, content *string, captured *capturedRequest) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if captured != nil {
			captured.Path = r.URL.Path
			captured.Auth = r.Header.Get("Authorization")
			captured.CustomerID = r.Header.Get("customerId")
			_ = json.NewDecoder(r.Body).Decode(&captured.Body)
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}

		choices := []map[string]interface{}{}
		if content != nil {
			choices = append(choices, map[string]interface{}{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": *content},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "m",
			"choices": choices,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func strPtr(s string) *string { return &s }

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:    baseURL,
		APIKey:     "xxx",
		CustomerID: "cus_test",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	})
}

func TestGenerate_Success(t *testing.T) {
	var captured capturedRequest
	srv, calls := completionServer(t, http.StatusOK, strPtr("Here you go: https://cdn.example.com/out/abc.PNG (enjoy)"), &captured)

	res, err := newTestClient(srv.URL).Generate(context.Background(), Request{Prompt: "a blue whale"})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/out/abc.PNG", res.ImageURL)
	assert.Equal(t, DefaultModel, res.Metadata.Model)
	assert.Equal(t, "a blue whale", res.Metadata.Prompt)
	assert.GreaterOrEqual(t, res.Metadata.GenerationTime, int64(0))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	assert.Equal(t, "/chat/completions", captured.Path)
	assert.Equal(t, "Bearer xxx", captured.Auth)
	assert.Equal(t, "cus_test", captured.CustomerID)
	assert.Equal(t, DefaultModel, captured.Body.Model)
	require.Len(t, captured.Body.Messages, 2)
	assert.Equal(t, "system", captured.Body.Messages[0].Role)
	assert.Equal(t, DefaultSystemPrompt, captured.Body.Messages[0].Content)
	assert.Equal(t, "user", captured.Body.Messages[1].Role)
	assert.Equal(t, "a blue whale", captured.Body.Messages[1].Content)
}

func TestGenerate_OverridesModelAndSystemPrompt(t *testing.T) {
	var captured capturedRequest
	srv, _ := completionServer(t, http.StatusOK, strPtr("https://x.example/i.webp"), &captured)

	res, err := newTestClient(srv.URL).Generate(context.Background(), Request{
		Prompt: "tiny robot", Model: "other/model", SystemPrompt: "be terse",
	})
	require.NoError(t, err)
	assert.Equal(t, "other/model", res.Metadata.Model)
	assert.Equal(t, "other/model", captured.Body.Model)
	assert.Equal(t, "be terse", captured.Body.Messages[0].Content)
}

func TestGenerate_FallbackURL(t *testing.T) {
	srv, _ := completionServer(t, http.StatusOK, strPtr("Image ready at https://images.example/render/123 thanks"), nil)

	res, err := newTestClient(srv.URL).Generate(context.Background(), Request{Prompt: "fallback"})
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/render/123", res.ImageURL)
}

func TestGenerate_NoImage(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"no url in text", strPtr("I cannot draw that today.")},
		{"empty choices", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := completionServer(t, http.StatusOK, tt.content, nil)

			res, err := newTestClient(srv.URL).Generate(context.Background(), Request{Prompt: "nothing"})
			assert.ErrorIs(t, err, ErrNoImageFound)
			require.NotNil(t, res)
			assert.Empty(t, res.ImageURL)
			assert.Equal(t, "nothing", res.Metadata.Prompt)
			assert.Equal(t, DefaultModel, res.Metadata.Model)
		})
	}
}

func TestGenerate_UpstreamStatusIsNotRetried(t *testing.T) {
	srv, calls := completionServer(t, http.StatusInternalServerError, nil, nil)

	res, err := newTestClient(srv.URL).Generate(context.Background(), Request{Prompt: "will fail"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, models.CodeUpstream, models.CodeOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	require.NotNil(t, res)
	assert.Equal(t, "will fail", res.Metadata.Prompt)
}

func TestGenerate_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Generate(context.Background(), Request{Prompt: "offline"})
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	srv, _ := completionServer(t, http.StatusOK, strPtr("https://x.example/a.png"), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).Generate(ctx, Request{Prompt: "cancelled"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestTestConnection(t *testing.T) {
	var captured capturedRequest
	ok, _ := completionServer(t, http.StatusOK, strPtr("https://x.example/circle.png"), &captured)
	assert.True(t, newTestClient(ok.URL).TestConnection(context.Background()))
	assert.Equal(t, TestPrompt, captured.Body.Messages[1].Content)

	bad, _ := completionServer(t, http.StatusBadGateway, nil, nil)
	assert.False(t, newTestClient(bad.URL).TestConnection(context.Background()))
}

func TestExtractImageURL(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{"jpg", "see https://a.example/x.jpg", "https://a.example/x.jpg", true},
		{"uppercase ext", "HTTPS://A.EXAMPLE/X.JPEG", "HTTPS://A.EXAMPLE/X.JPEG", true},
		{"image preferred over earlier plain url", "docs http://docs.example/page then https://c.example/y.gif", "https://c.example/y.gif", true},
		{"stops at paren", "![img](https://c.example/z.png)", "https://c.example/z.png", true},
		{"query after ext", "https://c.example/z.webp?sig=1", "https://c.example/z.webp", true},
		{"plain fallback", "result: http://host.example/abc def", "http://host.example/abc", true},
		{"none", "no links here", "", false},
		{"http word without url", "http is a protocol", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractImageURL(tt.content)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableModels(t *testing.T) {
	m := AvailableModels()
	require.Len(t, m, 1)
	assert.Equal(t, DefaultModel, m[0].ID)
	assert.Equal(t, "FLUX 1.1 Pro", m[0].Name)
}
