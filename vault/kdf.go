package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// HKDF info labels. The verifier digest and the encryption key both come from
// one Argon2id pass but are expanded under distinct labels, so knowing one
// reveals nothing about the other.
const (
	verifierInfo = "ciphervault verifier v1"
	encKeyInfo   = "ciphervault key v1"
)

type KDFParams struct {
	Time, Memory uint32
	Threads      uint8
	Salt         []byte
}

func DefaultKDFParams() *KDFParams { return &KDFParams{Time: 3, Memory: 256 * 1024, Threads: 1} }

// Keys holds the two outputs derived from a master password: the verifier
// digest the Authenticator persists and compares, and the symmetric key the
// store encrypts under. Never persisted as-is; Zero after use.
type Keys struct {
	Verifier   []byte
	Encryption []byte
}

func (k *Keys) Zero() {
	zero(k.Verifier)
	zero(k.Encryption)
}

// DeriveKeys stretches password with Argon2id over p.Salt and expands the
// result into the verifier digest and the encryption key. Deterministic for
// the same password and params; the intermediate master key is wiped before
// returning.
func DeriveKeys(password []byte, p *KDFParams) (*Keys, error) {
	master := argon2.IDKey(password, p.Salt, p.Time, p.Memory, p.Threads, MasterKeyLen)
	defer zero(master)

	verifier, err := expand(master, verifierInfo)
	if err != nil {
		return nil, err
	}
	enc, err := expand(master, encKeyInfo)
	if err != nil {
		zero(verifier)
		return nil, err
	}
	return &Keys{Verifier: verifier, Encryption: enc}, nil
}

func expand(master []byte, info string) ([]byte, error) {
	h := hkdf.New(sha256.New, master, nil, []byte(info))
	out := make([]byte, KeyLen)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, err
	}
	return out, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Zero securely wipes a byte slice from memory.
func Zero(b []byte) {
	zero(b)
}
