package cli

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordStrength scores a password 0-5 (length >= 8, upper, lower, digit,
// special) and maps the score to Weak / Medium / Strong.
func PasswordStrength(password string) (int, string) {
	score := 0
	if len(password) >= 8 {
		score++
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return score, "Weak"
	case score <= 4:
		return score, "Medium"
	default:
		return score, "Strong"
	}
}

// GeneratePassword returns a random password of length n drawn from letters,
// digits and punctuation, using crypto/rand.
func GeneratePassword(n int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789" +
		"!@#$%^&*()-_=+.?"

	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b.WriteByte(charset[idx.Int64()])
	}
	return b.String(), nil
}
