package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubScorer 返回固定响应的确定性桩
type stubScorer struct {
	response string
	err      error
	calls    int
}

func (s *stubScorer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractConfidence(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"bare decimal", "0.85", 0.85},
		{"decimal in prose", "The confidence score is 0.9 overall.", 0.9},
		{"zero", "0", 0},
		{"one", "1", 1},
		{"out of range number falls through to keywords", "confidence: 85, so true", 1.0},
		{"true keyword", "True, they are equivalent", 1.0},
		{"false keyword", "False", 0.0},
		{"no signal", "cannot determine", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractConfidence(tt.response))
		})
	}
}

func TestCheckMeaning(t *testing.T) {
	t.Run("above threshold", func(t *testing.T) {
		scorer := &stubScorer{response: "0.9"}
		outcome, err := CheckMeaning(context.Background(), scorer, "the capital of France", "Paris is the capital", "What is the capital of France?", 0.7)
		require.NoError(t, err)
		assert.True(t, outcome.IsCorrect)
		assert.InDelta(t, 90, outcome.ScorePercentage, 0.01)
	})

	t.Run("below threshold", func(t *testing.T) {
		scorer := &stubScorer{response: "0.5"}
		outcome, err := CheckMeaning(context.Background(), scorer, "a", "b", "", 0.7)
		require.NoError(t, err)
		assert.False(t, outcome.IsCorrect)
	})

	t.Run("exactly at threshold", func(t *testing.T) {
		scorer := &stubScorer{response: "0.7"}
		outcome, err := CheckMeaning(context.Background(), scorer, "a", "b", "", 0.7)
		require.NoError(t, err)
		assert.True(t, outcome.IsCorrect)
	})

	t.Run("service failure yields zero confidence outcome", func(t *testing.T) {
		scorer := &stubScorer{err: errors.New("connection refused")}
		outcome, err := CheckMeaning(context.Background(), scorer, "a", "b", "", 0.7)
		assert.Error(t, err)
		assert.False(t, outcome.IsCorrect)
		assert.Equal(t, float64(0), outcome.ScorePercentage)
		assert.NotEmpty(t, outcome.Explanation)
	})

	t.Run("question text goes into the prompt", func(t *testing.T) {
		prompt := buildSemanticPrompt("a", "b", "What colour is the sky?")
		assert.Contains(t, prompt, "What colour is the sky?")
		assert.Contains(t, prompt, "Student Answer: a")
		assert.Contains(t, prompt, "Correct Answer: b")
	})
}
