package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "national format gets country code",
			input:    "0551234567",
			expected: "233551234567",
		},
		{
			name:     "plus prefix is dropped",
			input:    "+233551234567",
			expected: "233551234567",
		},
		{
			name:     "already international is unchanged",
			input:    "233551234567",
			expected: "233551234567",
		},
		{
			name:     "whitespace is stripped",
			input:    " 055 123 4567 ",
			expected: "233551234567",
		},
		{
			name:     "plus with spaces",
			input:    "+233 55 123 4567",
			expected: "233551234567",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "malformed input passes through",
			input:    "not-a-number",
			expected: "not-a-number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"0551234567",
		"+233551234567",
		"233551234567",
		" 024 000 0000",
		"",
		"garbage",
		"+0551234567",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize must be idempotent for %q", in)
	}
}

func TestLikelyValid(t *testing.T) {
	assert.True(t, LikelyValid("233551234567"))
	assert.False(t, LikelyValid("not-a-number"))
	assert.False(t, LikelyValid("233"))
}

func TestIsGhanaMobile(t *testing.T) {
	assert.True(t, IsGhanaMobile("233551234567"))
	// US number, valid but not Ghanaian
	assert.False(t, IsGhanaMobile("12025550123"))
	assert.False(t, IsGhanaMobile("garbage"))
}
