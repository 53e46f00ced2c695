package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Tech Conference 2026", "tech-conference-2026"},
		{"  Leading & Trailing  ", "leading-trailing"},
		{"Rock'n'Roll Night!", "rocknroll-night"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER CASE", "upper-case"},
		{"múltiple   spaces", "mltiple-spaces"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GenerateSlug(tt.input), "input %q", tt.input)
	}
}

func TestRandomSlugSuffix(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		suffix, err := randomSlugSuffix(6)
		require.NoError(t, err)
		assert.Len(t, suffix, 6)
		assert.Regexp(t, `^[a-z0-9]+$`, suffix)
		seen[suffix] = true
	}
	// Collisions across 50 draws of 36^6 would be astonishing
	assert.Greater(t, len(seen), 45)
}
