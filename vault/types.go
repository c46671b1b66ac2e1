package vault

import "errors"

const (
	MasterKeyLen = 32
	KeyLen       = 32
	SaltLen      = 16
	NonceLen     = 24
	Magic        = "CVLT"
	Version      = 0x01

	VerifierFileName = "master.keys"
	VaultFileName    = "vault.dat"
)

var (
	ErrLocked             = errors.New("vault: locked")
	ErrCorrupt            = errors.New("vault: corrupt file")
	ErrDecryption         = errors.New("vault: cannot decrypt (wrong key or tampered file)")
	ErrAuthFailed         = errors.New("vault: wrong master password")
	ErrNotFound           = errors.New("vault: entry not found")
	ErrNotInitialized     = errors.New("vault: not initialized")
	ErrAlreadyInitialized = errors.New("vault: already initialized")
	ErrEmptyPassword      = errors.New("vault: empty master password")
	ErrEmptyName          = errors.New("vault: empty entry name")
)

// Entry is one stored credential. Name is the unique key within a vault;
// renaming an entry is modeled as delete-old/insert-new.
type Entry struct {
	Name     string
	Username string
	Password string
	Notes    string
}

// Records is the in-memory record collection, keyed by entry name. The
// on-disk plaintext shape is the JSON object {name: {username, password,
// notes}}, so the key is not repeated inside the value.
type Records map[string]Record

// Record is the value part of an Entry as serialized inside the vault blob.
type Record struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes,omitempty"`
}

// Entry converts a keyed record back to the flat Entry form used by callers.
func (r Record) Entry(name string) Entry {
	return Entry{Name: name, Username: r.Username, Password: r.Password, Notes: r.Notes}
}

// Record strips the name off an Entry for storage.
func (e Entry) Record() Record {
	return Record{Username: e.Username, Password: e.Password, Notes: e.Notes}
}

type fileHeader struct {
	Flags uint16
	Nonce []byte
}
