package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/fahmaliyi/ciphervault/vault"
	"golang.org/x/term"
)

// GetDataDir resolves (and creates) the per-user data directory holding the
// verifier, the vault blob and settings.json.
func GetDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".ciphervault")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}

	return dir, nil
}

func ReadPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()

	return pw, err
}

// ReadPasswordMasked reads a password echoing a '*' per typed rune. When
// stdin is not a terminal (piped or scripted input) it degrades to a plain
// unmasked line read instead of failing.
func ReadPasswordMasked(prompt string) []byte {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return readLine(os.Stdin)
	}
	defer term.Restore(fd, state)

	var input []rune
	for {
		var buf [1]byte
		n, err := os.Stdin.Read(buf[:])
		if n == 0 {
			// stdin closed before Enter: hand back what was typed
			fmt.Println()
			return []byte(string(input))
		}
		c := buf[0]

		switch c {
		case 13, 10: // Enter
			fmt.Println()
			return []byte(string(input))
		case 127, 8: // Backspace
			if len(input) > 0 {
				input = input[:len(input)-1]
				fmt.Print("\b \b")
			}
		default:
			r, _ := utf8.DecodeRune(buf[:])
			input = append(input, r)
			fmt.Print("*")
		}
		if err != nil {
			fmt.Println()
			return []byte(string(input))
		}
	}
}

// readLine consumes bytes up to a newline one at a time, so consecutive
// prompts on the same pipe each get their own line. Returns what was read so
// far on EOF.
func readLine(r io.Reader) []byte {
	var line []byte
	var buf [1]byte
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line = append(line, buf[0])
		}
		if err != nil {
			break
		}
	}
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line
}

// ReadNewPassword prompts twice and ensures both reads match.
func ReadNewPassword(prompt string) ([]byte, error) {
	first := ReadPasswordMasked(prompt)
	second := ReadPasswordMasked("Confirm password: ")
	defer vault.Zero(second)
	if string(first) != string(second) {
		vault.Zero(first)
		return nil, fmt.Errorf("passwords do not match")
	}
	return first, nil
}
