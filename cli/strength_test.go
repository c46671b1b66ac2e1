package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		score    int
		label    string
	}{
		{"", 0, "Weak"},
		{"abc", 1, "Weak"},
		{"password", 2, "Weak"},
		{"Password", 3, "Medium"},
		{"Password1", 4, "Medium"},
		{"Password1!", 5, "Strong"},
		{"Tr0ub4dor&3", 5, "Strong"},
		{"Pa1!", 4, "Medium"}, // short but varied
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			score, label := PasswordStrength(tt.password)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(16)
	require.NoError(t, err)
	assert.Len(t, pw, 16)

	// Generated passwords should not repeat.
	other, err := GeneratePassword(16)
	require.NoError(t, err)
	assert.NotEqual(t, pw, other)

	_, label := PasswordStrength(pw)
	assert.NotEmpty(t, label)
}

func TestGeneratePassword_ZeroLength(t *testing.T) {
	pw, err := GeneratePassword(0)
	require.NoError(t, err)
	assert.Empty(t, pw)
}
