package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/fahmaliyi/ciphervault/vault"
	"github.com/google/uuid"
)

const settingsFileName = "settings.json"

// Settings is the presentation-layer configuration persisted next to the
// vault. It holds no secrets. VaultID identifies the installation, not the
// user.
type Settings struct {
	VaultID        string `json:"vault_id"`
	Theme          string `json:"theme"`
	MinLength      int    `json:"min_length"`
	RequireNumber  bool   `json:"require_number"`
	RequireUpper   bool   `json:"require_upper"`
	RequireSpecial bool   `json:"require_special"`
}

func DefaultSettings() Settings {
	return Settings{
		VaultID:        uuid.NewString(),
		Theme:          "darkly",
		MinLength:      8,
		RequireNumber:  true,
		RequireUpper:   true,
		RequireSpecial: true,
	}
}

// LoadSettings reads settings.json from dir, falling back to defaults when
// the file is missing or unreadable. A missing file is created so the vault
// ID stays stable across runs.
func LoadSettings(dir string) Settings {
	path := filepath.Join(dir, settingsFileName)

	raw, err := os.ReadFile(path)
	if err != nil {
		s := DefaultSettings()
		_ = SaveSettings(dir, s)
		return s
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultSettings()
	}
	if s.VaultID == "" {
		s.VaultID = uuid.NewString()
		_ = SaveSettings(dir, s)
	}
	if s.MinLength <= 0 {
		s.MinLength = 8
	}
	return s
}

// SaveSettings rewrites settings.json atomically so a crash mid-write cannot
// truncate the file and lose the vault ID.
func SaveSettings(dir string, s Settings) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return vault.AtomicWriteFile(filepath.Join(dir, settingsFileName), raw, 0600)
}

// MeetsPolicy checks a candidate entry password against the configured
// requirements. This is advisory only; the core never rejects weak entry
// passwords.
func (s Settings) MeetsPolicy(password string) bool {
	if len(password) < s.MinLength {
		return false
	}
	if s.RequireNumber && !strings.ContainsFunc(password, unicode.IsDigit) {
		return false
	}
	if s.RequireUpper && !strings.ContainsFunc(password, unicode.IsUpper) {
		return false
	}
	if s.RequireSpecial && !strings.ContainsAny(password, specialChars) {
		return false
	}
	return true
}
