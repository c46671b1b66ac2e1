package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the whole record collection as one authenticated blob. There
// is no partial or append format: every Save rewrites the file, so mutation
// cost scales with vault size. Fine for the expected tens to low hundreds of
// entries.
type Store struct {
	path string
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, VaultFileName)}
}

func (s *Store) Path() string { return s.path }

// Save serializes records to JSON, seals them under key and atomically
// replaces the vault file.
func (s *Store) Save(records Records, key []byte) error {
	if records == nil {
		records = Records{}
	}
	pt, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("serialize records: %w", err)
	}
	defer zero(pt)

	nonce, err := randBytes(NonceLen)
	if err != nil {
		return err
	}
	hdr, err := encodeHeader(fileHeader{Flags: 0, Nonce: nonce})
	if err != nil {
		return err
	}
	ct, err := aeadSeal(key, nonce, pt, hdr)
	if err != nil {
		return err
	}

	raw := append(hdr, ct...)
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := AtomicWriteFile(s.path, raw, 0600); err != nil {
		return fmt.Errorf("write vault: %w", err)
	}
	return nil
}

// Load reads and opens the vault file under key. A missing file is the
// legitimate first-run case and yields an empty collection; an unparseable
// file yields ErrCorrupt and a failed AEAD check yields ErrDecryption.
// Neither failure is ever collapsed into "empty vault".
func (s *Store) Load(key []byte) (Records, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Records{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read vault: %w", err)
	}

	h, hdr, ct, err := decodeHeader(raw)
	if err != nil {
		return nil, err
	}
	if len(h.Nonce) != NonceLen {
		return nil, ErrCorrupt
	}

	pt, err := aeadOpen(key, h.Nonce, hdr, ct)
	if err != nil {
		return nil, ErrDecryption
	}
	defer zero(pt)

	var records Records
	if err := json.Unmarshal(pt, &records); err != nil {
		return nil, ErrCorrupt
	}
	if records == nil {
		records = Records{}
	}
	return records, nil
}
