package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
)

func newGenerator(baseURL, model string) *OpenAICompatGenerator {
	return NewOpenAICompatGenerator(&config.Config{AI: config.AIConfig{
		BaseURL: baseURL + "/",
		APIKey:  "sk-test",
		Model:   model,
		Timeout: time.Second,
	}})
}

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req oaiChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  9-12 \n"}}]}`))
	}))
	defer srv.Close()

	text, err := newGenerator(srv.URL, "test-model").GenerateText(context.Background(), "classify", "Harry Potter")
	require.NoError(t, err)
	assert.Equal(t, "9-12", text)
}

func TestGenerateText_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	_, err := newGenerator(srv.URL, "test-model").GenerateText(context.Background(), "", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	_, err = newGenerator(srv.URL, "").GenerateText(context.Background(), "", "x")
	assert.Error(t, err)
}

func TestGenerateText_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newGenerator(srv.URL, "m").GenerateText(context.Background(), "", "x")
	assert.Error(t, err)
}
