package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{"42.0", 42, false},
		{"-3.5", -3.5, false},
		{"1,234.5", 1234.5, false},
		{" 42 ", 42, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchNumericExact(t *testing.T) {
	tests := []struct {
		name    string
		student string
		correct string
		want    bool
	}{
		{"identical integers", "42", "42", true},
		{"decimal representation", "42.0", "42", true},
		{"different values", "41", "42", false},
		{"thousands separator", "1,000", "1000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := MatchNumeric(tt.student, tt.correct, false, nil)
			assert.Equal(t, tt.want, outcome.IsCorrect)
		})
	}
}

func TestMatchNumericInvalidInput(t *testing.T) {
	outcome := MatchNumeric("not a number", "42", false, nil)
	assert.False(t, outcome.IsCorrect)
	assert.Contains(t, outcome.Explanation, "invalid numeric format")
}

func TestMatchNumericRange(t *testing.T) {
	r := &NumericRange{Min: 40, Max: 50}

	t.Run("range governs over correct value", func(t *testing.T) {
		// 区间模式下标准答案 45 不参与比较
		outcome := MatchNumeric("42", "45", true, r)
		assert.True(t, outcome.IsCorrect)
	})

	t.Run("boundary values included", func(t *testing.T) {
		assert.True(t, MatchNumeric("40", "45", true, r).IsCorrect)
		assert.True(t, MatchNumeric("50", "45", true, r).IsCorrect)
	})

	t.Run("outside range without tolerance", func(t *testing.T) {
		outcome := MatchNumeric("35", "45", true, r)
		assert.False(t, outcome.IsCorrect)
	})
}

func TestMatchNumericTolerance(t *testing.T) {
	r := &NumericRange{Min: 40, Max: 50, TolerancePercent: 10}

	t.Run("within lower bound tolerance", func(t *testing.T) {
		// 下界 40 外扩 10% 到 36
		outcome := MatchNumeric("38", "45", true, r)
		assert.True(t, outcome.IsCorrect)
	})

	t.Run("below lower bound tolerance", func(t *testing.T) {
		outcome := MatchNumeric("35", "45", true, r)
		assert.False(t, outcome.IsCorrect)
	})

	t.Run("within upper bound tolerance", func(t *testing.T) {
		// 上界 50 外扩 10% 到 55
		outcome := MatchNumeric("54", "45", true, r)
		assert.True(t, outcome.IsCorrect)
	})

	t.Run("above upper bound tolerance", func(t *testing.T) {
		outcome := MatchNumeric("56", "45", true, r)
		assert.False(t, outcome.IsCorrect)
	})
}
