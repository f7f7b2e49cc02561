package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exam_marking_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferenceComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			Choices: []struct {
				Message ChatMessage `json:"message"`
			}{{Message: ChatMessage{Role: "assistant", Content: "0.85"}}},
		})
	}))
	defer server.Close()

	svc := NewInferenceService(config.InferenceConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5 * time.Second,
	})

	content, err := svc.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "0.85", content)
}

func TestInferenceCompleteErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		svc := NewInferenceService(config.InferenceConfig{BaseURL: server.URL, TimeoutSeconds: 5 * time.Second})
		_, err := svc.Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ChatCompletionResponse{})
		}))
		defer server.Close()

		svc := NewInferenceService(config.InferenceConfig{BaseURL: server.URL, TimeoutSeconds: 5 * time.Second})
		_, err := svc.Complete(context.Background(), "s", "u")
		assert.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		svc := NewInferenceService(config.InferenceConfig{BaseURL: server.URL, TimeoutSeconds: 5 * time.Second})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := svc.Complete(ctx, "s", "u")
		assert.Error(t, err)
	})
}
