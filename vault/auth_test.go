package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_SetupAndVerify(t *testing.T) {
	dir := t.TempDir()
	auth := NewAuthenticator(dir)

	assert.False(t, auth.Exists())

	setupKeys, err := auth.Setup([]byte("Tr0ub4dor&3"), testKDFParams(nil))
	require.NoError(t, err)
	assert.True(t, auth.Exists())

	// Correct password verifies and yields the same encryption key.
	keys, err := auth.Verify([]byte("Tr0ub4dor&3"))
	require.NoError(t, err)
	assert.Equal(t, setupKeys.Encryption, keys.Encryption)

	// Any other password fails.
	_, err = auth.Verify([]byte("Tr0ub4dor&4"))
	assert.ErrorIs(t, err, ErrAuthFailed)
	_, err = auth.Verify([]byte(""))
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestAuthenticator_SetupTwice(t *testing.T) {
	dir := t.TempDir()
	auth := NewAuthenticator(dir)

	_, err := auth.Setup([]byte("first"), testKDFParams(nil))
	require.NoError(t, err)

	_, err = auth.Setup([]byte("second"), testKDFParams(nil))
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// The original password still verifies.
	_, err = auth.Verify([]byte("first"))
	assert.NoError(t, err)
}

func TestAuthenticator_EmptyPassword(t *testing.T) {
	auth := NewAuthenticator(t.TempDir())

	_, err := auth.Setup(nil, testKDFParams(nil))
	assert.ErrorIs(t, err, ErrEmptyPassword)
	assert.False(t, auth.Exists())
}

func TestAuthenticator_VerifyWithoutSetup(t *testing.T) {
	auth := NewAuthenticator(t.TempDir())

	_, err := auth.Verify([]byte("anything"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestAuthenticator_CorruptVerifierFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "not a verifier"},
		{"wrong scheme", "scrypt$v1$t=1,m=64,p=1$00$00"},
		{"bad salt hex", "argon2id$v1$t=1,m=64,p=1$zz$00"},
		{"short digest", "argon2id$v1$t=1,m=64,p=1$0011223344556677$aabb"},
		{"missing fields", "argon2id$v1$t=1,m=64,p=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, VerifierFileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := NewAuthenticator(dir).Verify([]byte("anything"))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestAuthenticator_VerifierFileHasNoSecrets(t *testing.T) {
	dir := t.TempDir()
	auth := NewAuthenticator(dir)

	keys, err := auth.Setup([]byte("Tr0ub4dor&3"), testKDFParams(nil))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, VerifierFileName))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "Tr0ub4dor&3")
	assert.NotContains(t, string(raw), string(keys.Encryption))
}
