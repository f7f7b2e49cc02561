package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"exam_marking_backend/internal/config"
	"exam_marking_backend/pkg/monitoring"
)

// InferenceService 调用 OpenAI 兼容接口做语义判分
// 实现 grading.Scorer
type InferenceService struct {
	config config.InferenceConfig
	client *http.Client
}

func NewInferenceService(cfg config.InferenceConfig) *InferenceService {
	return &InferenceService{
		config: cfg,
		client: &http.Client{Timeout: cfg.TimeoutSeconds},
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete 单轮非流式补全，返回模型原始文本
func (s *InferenceService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	reqBody := ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.SemanticCheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		monitoring.SemanticCheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		monitoring.SemanticCheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", err
	}

	if result.Error != nil {
		monitoring.SemanticCheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("inference API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		monitoring.SemanticCheckDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return "", fmt.Errorf("inference API returned no choices")
	}

	monitoring.SemanticCheckDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	return result.Choices[0].Message.Content, nil
}
