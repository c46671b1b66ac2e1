package vault

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(b byte) []byte {
	key := make([]byte, KeyLen)
	for i := range key {
		key[i] = b
	}
	return key
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	key := testKey(0x42)

	records := Records{
		"github.com": {Username: "alice", Password: "hunter2"},
		"bank":       {Username: "alice@example.com", Password: "s3cret!", Notes: "2FA via app"},
		"ünïcode":    {Username: "böb", Password: "påss"},
	}
	require.NoError(t, store.Save(records, key))

	loaded, err := store.Load(key)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())

	records, err := store.Load(testKey(0x42))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_WrongKey(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(Records{"a": {Username: "u", Password: "p"}}, testKey(0x42)))

	_, err := store.Load(testKey(0x43))
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestStore_TamperDetection(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	key := testKey(0x42)
	require.NoError(t, store.Save(Records{"github.com": {Username: "alice", Password: "hunter2"}}, key))

	original, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// Flipping any single byte must surface an error, never an empty or
	// corrupted mapping.
	for i := range original {
		tampered := make([]byte, len(original))
		copy(tampered, original)
		tampered[i] ^= 0xff
		require.NoError(t, os.WriteFile(store.Path(), tampered, 0600))

		records, err := store.Load(key)
		require.Errorf(t, err, "flipped byte %d went undetected", i)
		assert.True(t, errors.Is(err, ErrDecryption) || errors.Is(err, ErrCorrupt),
			"flipped byte %d: unexpected error %v", i, err)
		assert.Nil(t, records)
	}

	// Truncation is detected too.
	require.NoError(t, os.WriteFile(store.Path(), original[:5], 0600))
	_, err = store.Load(key)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStore_CiphertextNotDeterministic(t *testing.T) {
	store := NewStore(t.TempDir())
	key := testKey(0x42)
	records := Records{"a": {Username: "u", Password: "p"}}

	require.NoError(t, store.Save(records, key))
	first, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	require.NoError(t, store.Save(records, key))
	second, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// Fresh nonce per save: identical content, different bytes on disk.
	assert.NotEqual(t, first, second)

	loaded, err := store.Load(key)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestStore_SaveNilRecords(t *testing.T) {
	store := NewStore(t.TempDir())
	key := testKey(0x42)

	require.NoError(t, store.Save(nil, key))

	loaded, err := store.Load(key)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestStore_FilePermissions(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(Records{"a": {Username: "u", Password: "p"}}, testKey(0x42)))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
