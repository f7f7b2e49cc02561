package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeScalar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  Paris  ", "Paris"},
		{"collapses inner spaces", "New    York", "New York"},
		{"collapses newlines and tabs", "a\n\tb", "a b"},
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeScalar(tt.input))
		})
	}
}

func TestNormalizeScalarIdempotent(t *testing.T) {
	inputs := []string{"  a  b  ", "x\ny\nz", "already normal", ""}
	for _, input := range inputs {
		once := NormalizeScalar(input)
		assert.Equal(t, once, NormalizeScalar(once))
	}
}

func TestTokenizeList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated", "apple, banana, orange", []string{"apple", "banana", "orange"}},
		{"semicolon separated", "apple; banana", []string{"apple", "banana"}},
		{"bulleted lines", "- apple\n- banana", []string{"apple", "banana"}},
		{"numbered lines", "1. apple\n2. banana", []string{"apple", "banana"}},
		{"numbered with parens", "1) apple\n2) banana", []string{"apple", "banana"}},
		{"plain newlines", "apple\nbanana", []string{"apple", "banana"}},
		{"drops empty entries", "apple,,banana,", []string{"apple", "banana"}},
		{"single item", "apple", []string{"apple"}},
		{"empty input", "", []string{}},
		{"preserves order", "c, a, b", []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeList(tt.input))
		})
	}
}

func TestTokenizeListDoesNotFoldCase(t *testing.T) {
	assert.Equal(t, []string{"Apple", "Banana"}, TokenizeList("Apple, Banana"))
}
