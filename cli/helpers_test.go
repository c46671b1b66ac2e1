package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeStdin swaps os.Stdin for the read end of a pipe carrying input, which
// is never a terminal, and restores it when the test ends.
func pipeStdin(t *testing.T, input string) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = orig
		r.Close()
	})

	_, err = w.WriteString(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestReadPasswordMasked_PipedStdin(t *testing.T) {
	pipeStdin(t, "hunter2\n")

	pw := ReadPasswordMasked("Password: ")
	assert.Equal(t, []byte("hunter2"), pw)
}

func TestReadPasswordMasked_ClosedBeforeNewline(t *testing.T) {
	pipeStdin(t, "partial")

	pw := ReadPasswordMasked("Password: ")
	assert.Equal(t, []byte("partial"), pw)
}

func TestReadPasswordMasked_CRLF(t *testing.T) {
	pipeStdin(t, "hunter2\r\n")

	pw := ReadPasswordMasked("Password: ")
	assert.Equal(t, []byte("hunter2"), pw)
}

func TestReadNewPassword_PipedStdin(t *testing.T) {
	// Two prompts on one pipe must each get their own line.
	pipeStdin(t, "Tr0ub4dor&3\nTr0ub4dor&3\n")

	pw, err := ReadNewPassword("Set master password: ")
	require.NoError(t, err)
	assert.Equal(t, []byte("Tr0ub4dor&3"), pw)
}

func TestReadNewPassword_Mismatch(t *testing.T) {
	pipeStdin(t, "first\nsecond\n")

	_, err := ReadNewPassword("Set master password: ")
	assert.Error(t, err)
}
