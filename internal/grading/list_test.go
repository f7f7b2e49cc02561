package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongestCommonSubsequence(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want int
	}{
		{"identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 3},
		{"one mismatch", []string{"a", "b", "c"}, []string{"a", "x", "c"}, 2},
		{"disjoint", []string{"a", "b", "c"}, []string{"x", "y", "z"}, 0},
		{"prefix of longer", []string{"a", "b", "c"}, []string{"a", "b", "c", "d"}, 3},
		{"empty left", nil, []string{"a"}, 0},
		{"empty right", []string{"a"}, nil, 0},
		{"out of order", []string{"b", "a"}, []string{"a", "b"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestCommonSubsequence(tt.a, tt.b))
		})
	}
}

func TestMatchListExact(t *testing.T) {
	t.Run("order insensitive exact match", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("blue, red, green"),
			TokenizeList("red, green, blue"),
			false, false,
		)
		assert.True(t, outcome.IsCorrect)
		assert.Equal(t, float64(100), outcome.ScorePercentage)
	})

	t.Run("order sensitive rejects permutation", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("blue, red, green"),
			TokenizeList("red, green, blue"),
			true, false,
		)
		assert.False(t, outcome.IsCorrect)
	})

	t.Run("order sensitive exact match", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("red, green, blue"),
			TokenizeList("red, green, blue"),
			true, false,
		)
		assert.True(t, outcome.IsCorrect)
	})
}

func TestMatchListPartial(t *testing.T) {
	t.Run("order insensitive partial credit", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("red, green"),
			TokenizeList("red, green, blue"),
			false, true,
		)
		assert.False(t, outcome.IsCorrect)
		assert.InDelta(t, 66.7, outcome.ScorePercentage, 0.1)
	})

	t.Run("order sensitive partial uses lcs", func(t *testing.T) {
		outcome := MatchList(
			[]string{"a", "x", "c"},
			[]string{"a", "b", "c"},
			true, true,
		)
		assert.False(t, outcome.IsCorrect)
		assert.InDelta(t, 66.7, outcome.ScorePercentage, 0.1)
	})

	t.Run("extra items do not add credit", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("red, green, blue, yellow"),
			TokenizeList("red, green, blue"),
			false, true,
		)
		assert.True(t, outcome.IsCorrect)
		assert.Equal(t, float64(100), outcome.ScorePercentage)
	})

	t.Run("no overlap scores zero", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("cyan, magenta"),
			TokenizeList("red, green, blue"),
			false, true,
		)
		assert.False(t, outcome.IsCorrect)
		assert.Equal(t, float64(0), outcome.ScorePercentage)
	})

	t.Run("partial disabled is all or nothing", func(t *testing.T) {
		outcome := MatchList(
			TokenizeList("red, green"),
			TokenizeList("red, green, blue"),
			false, false,
		)
		assert.False(t, outcome.IsCorrect)
		assert.Equal(t, float64(0), outcome.ScorePercentage)
	})
}

func TestMatchListEmptyCorrect(t *testing.T) {
	outcome := MatchList([]string{"a"}, nil, false, true)
	assert.False(t, outcome.IsCorrect)
	assert.Equal(t, float64(0), outcome.ScorePercentage)
	assert.NotEmpty(t, outcome.Explanation)
}
