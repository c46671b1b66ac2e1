package vault

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
)

// aeadSeal encrypts plaintext under key with XChaCha20-Poly1305. The caller
// supplies a fresh random nonce per save, so repeated saves of the same
// content never produce identical ciphertext. aad is authenticated but not
// encrypted.
func aeadSeal(key, nonce, plaintext, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

func aeadOpen(key, nonce, aad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, aad)
}

// The vault file starts with a small binary header: magic, version, flags and
// the per-save nonce. The header bytes double as the AEAD associated data, so
// tampering with the header fails decryption just like tampering with the
// ciphertext.

func encodeHeader(h fileHeader) ([]byte, error) {
	buf := &bytes.Buffer{}

	if _, err := buf.WriteString(Magic); err != nil {
		return nil, err
	}
	if err := buf.WriteByte(Version); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, h.Flags); err != nil {
		return nil, err
	}

	if len(h.Nonce) > 255 {
		return nil, errors.New("nonce too long")
	}
	if err := buf.WriteByte(uint8(len(h.Nonce))); err != nil {
		return nil, err
	}
	if _, err := buf.Write(h.Nonce); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeHeader splits raw into the parsed header, the exact header bytes
// (needed to replay the AAD) and the trailing ciphertext.
func decodeHeader(raw []byte) (fileHeader, []byte, []byte, error) {
	var h fileHeader
	const minLen = 4 + 1 + 2 + 1
	if len(raw) < minLen {
		return h, nil, nil, ErrCorrupt
	}

	if string(raw[:4]) != Magic {
		return h, nil, nil, ErrCorrupt
	}
	if raw[4] != Version {
		return h, nil, nil, ErrCorrupt
	}
	h.Flags = binary.BigEndian.Uint16(raw[5:7])

	nonceLen := int(raw[7])
	if len(raw) < minLen+nonceLen {
		return h, nil, nil, ErrCorrupt
	}
	h.Nonce = raw[minLen : minLen+nonceLen]

	hdr := raw[:minLen+nonceLen]
	ct := raw[minLen+nonceLen:]
	return h, hdr, ct, nil
}

// AtomicWriteFile writes data to a temp file in the same directory, syncs it
// and renames it over path, so the file on disk is always either the previous
// complete content or the new complete content.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "cvlt-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if err := tmpFile.Chmod(perm); err != nil {
		return err
	}
	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
