package vault

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Authenticator owns the verifier file: a single line carrying the Argon2id
// cost parameters, the per-vault salt and the hex-encoded verifier digest.
// It never stores the master password or the encryption key.
//
//	argon2id$v1$t=3,m=262144,p=1$<hex salt>$<hex verifier>
type Authenticator struct {
	path string
}

func NewAuthenticator(dir string) *Authenticator {
	return &Authenticator{path: filepath.Join(dir, VerifierFileName)}
}

// Exists reports whether a verifier has been set up, which is what
// distinguishes the first-run setup flow from the login flow.
func (a *Authenticator) Exists() bool {
	_, err := os.Stat(a.path)
	return err == nil
}

// Setup derives keys from password under fresh KDF params, persists the
// verifier and returns the keys. Refuses to clobber an existing verifier;
// changing the master password goes through reset after re-authentication.
func (a *Authenticator) Setup(password []byte, p *KDFParams) (*Keys, error) {
	if a.Exists() {
		return nil, ErrAlreadyInitialized
	}
	return a.reset(password, p)
}

// reset writes a new verifier unconditionally, generating a fresh salt when
// the params carry none.
func (a *Authenticator) reset(password []byte, p *KDFParams) (*Keys, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if p == nil {
		p = DefaultKDFParams()
	}
	if len(p.Salt) == 0 {
		salt, err := randBytes(SaltLen)
		if err != nil {
			return nil, err
		}
		p.Salt = salt
	}

	keys, err := DeriveKeys(password, p)
	if err != nil {
		return nil, err
	}

	line := fmt.Sprintf("argon2id$v1$t=%d,m=%d,p=%d$%s$%s\n",
		p.Time, p.Memory, p.Threads,
		hex.EncodeToString(p.Salt), hex.EncodeToString(keys.Verifier))

	if err := os.MkdirAll(filepath.Dir(a.path), 0700); err != nil {
		keys.Zero()
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := AtomicWriteFile(a.path, []byte(line), 0600); err != nil {
		keys.Zero()
		return nil, fmt.Errorf("write verifier: %w", err)
	}
	return keys, nil
}

// remove deletes the verifier file. Used to roll back a setup whose initial
// blob write failed, so a retry does not hit ErrAlreadyInitialized.
func (a *Authenticator) remove() error {
	return os.Remove(a.path)
}

// Verify checks password against the stored verifier and, on success, hands
// back the derived keys so the expensive Argon2 pass runs once per login.
// Returns ErrNotInitialized when no verifier exists and ErrAuthFailed on
// mismatch. The comparison is constant-time.
func (a *Authenticator) Verify(password []byte) (*Keys, error) {
	p, stored, err := a.readVerifier()
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrAuthFailed
	}

	keys, err := DeriveKeys(password, p)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare(keys.Verifier, stored) != 1 {
		keys.Zero()
		return nil, ErrAuthFailed
	}
	return keys, nil
}

// Params returns the persisted KDF params, or nil when not set up.
func (a *Authenticator) Params() (*KDFParams, error) {
	p, _, err := a.readVerifier()
	return p, err
}

func (a *Authenticator) readVerifier() (*KDFParams, []byte, error) {
	raw, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return nil, nil, ErrNotInitialized
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read verifier: %w", err)
	}

	fields := strings.Split(strings.TrimSpace(string(raw)), "$")
	if len(fields) != 5 || fields[0] != "argon2id" || fields[1] != "v1" {
		return nil, nil, ErrCorrupt
	}

	p := &KDFParams{}
	if _, err := fmt.Sscanf(fields[2], "t=%d,m=%d,p=%d", &p.Time, &p.Memory, &p.Threads); err != nil {
		return nil, nil, ErrCorrupt
	}
	p.Salt, err = hex.DecodeString(fields[3])
	if err != nil || len(p.Salt) == 0 {
		return nil, nil, ErrCorrupt
	}
	stored, err := hex.DecodeString(fields[4])
	if err != nil || len(stored) != KeyLen {
		return nil, nil, ErrCorrupt
	}
	return p, stored, nil
}
