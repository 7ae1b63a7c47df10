package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanaru-io/kanagram/pkg/anagram"
)

func TestQuizWindowPresets(t *testing.T) {
	tests := []struct {
		difficulty string
		min, max   int
	}{
		{"easy", 3, 5},
		{"normal", 5, 8},
		{"hard", 7, 12},
	}
	for _, tc := range tests {
		t.Run(tc.difficulty, func(t *testing.T) {
			minLen, maxLen, err := quizWindow(tc.difficulty, &anagram.MemorySettings{})
			require.NoError(t, err)
			assert.Equal(t, tc.min, minLen)
			assert.Equal(t, tc.max, maxLen)
		})
	}
}

func TestQuizWindowUnknownDifficulty(t *testing.T) {
	_, _, err := quizWindow("impossible", &anagram.MemorySettings{})
	assert.Error(t, err)
}

func TestQuizWindowUsesSavedSettings(t *testing.T) {
	settings := &anagram.FileSettings{Path: filepath.Join(t.TempDir(), "settings.json")}
	require.NoError(t, settings.Save(anagram.SearchSettings{MinLength: 4, MaxLength: 6}))

	minLen, maxLen, err := quizWindow("", settings)
	require.NoError(t, err)
	assert.Equal(t, 4, minLen)
	assert.Equal(t, 6, maxLen)
}

func TestQuizWindowDefaultsWithoutSavedSettings(t *testing.T) {
	minLen, maxLen, err := quizWindow("", &anagram.MemorySettings{})
	require.NoError(t, err)
	assert.Equal(t, anagram.DefaultMinLength, minLen)
	assert.Equal(t, anagram.DefaultMaxLength, maxLen)
}
