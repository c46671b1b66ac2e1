package vault

import "sort"

// Session ties a successfully authenticated master password to its derived
// key and the in-memory record collection. All mutations go through it and
// each one re-encrypts and rewrites the whole collection.
//
// One active session per vault directory; a Session is not safe for
// concurrent use.
type Session struct {
	auth    *Authenticator
	store   *Store
	key     []byte
	records Records
	locked  bool
}

// Exists reports whether dir already holds an initialized vault, which is
// what the presentation layer uses to pick setup vs login.
func Exists(dir string) bool {
	return NewAuthenticator(dir).Exists()
}

// Setup initializes a new vault in dir: persists the verifier, derives the
// encryption key and writes the initial empty blob. Fails with
// ErrAlreadyInitialized when a verifier is already present. A nil params uses
// DefaultKDFParams.
func Setup(dir string, password []byte, params *KDFParams) (*Session, error) {
	auth := NewAuthenticator(dir)
	keys, err := auth.Setup(password, params)
	if err != nil {
		return nil, err
	}
	zero(keys.Verifier)

	s := &Session{auth: auth, store: NewStore(dir), key: keys.Encryption, records: Records{}}
	if err := s.store.Save(s.records, s.key); err != nil {
		// roll back the verifier so a retry is not ErrAlreadyInitialized
		_ = auth.remove()
		s.Lock()
		return nil, err
	}
	return s, nil
}

// Login verifies password against the stored verifier and, on success, loads
// the record collection. ErrNotInitialized when no vault exists, ErrAuthFailed
// on a wrong password, ErrDecryption/ErrCorrupt when the blob cannot be
// opened despite a correct password.
func Login(dir string, password []byte) (*Session, error) {
	auth := NewAuthenticator(dir)
	keys, err := auth.Verify(password)
	if err != nil {
		return nil, err
	}
	zero(keys.Verifier)

	s := &Session{auth: auth, store: NewStore(dir), key: keys.Encryption}
	records, err := s.store.Load(s.key)
	if err != nil {
		s.Lock()
		return nil, err
	}
	s.records = records
	return s, nil
}

// Unlocked reports whether the session still holds the key and records.
func (s *Session) Unlocked() bool { return !s.locked }

// Lock discards the derived key and the in-memory records. Every operation
// after Lock returns ErrLocked. Idempotent.
func (s *Session) Lock() {
	if s.locked {
		return
	}
	zero(s.key)
	s.key = nil
	s.records = nil
	s.locked = true
}

// List returns all entries sorted by name.
func (s *Session) List() []Entry {
	if s.locked {
		return nil
	}
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, s.records[name].Entry(name))
	}
	return entries
}

func (s *Session) Get(name string) (Entry, bool) {
	if s.locked {
		return Entry{}, false
	}
	r, ok := s.records[name]
	if !ok {
		return Entry{}, false
	}
	return r.Entry(name), true
}

func (s *Session) Len() int { return len(s.records) }

// Find returns the entries matching pred, sorted by name.
func (s *Session) Find(pred func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range s.List() {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Add inserts or overwrites the entry under e.Name (last write wins) and
// saves the vault.
func (s *Session) Add(e Entry) error {
	if s.locked {
		return ErrLocked
	}
	if e.Name == "" {
		return ErrEmptyName
	}
	s.records[e.Name] = e.Record()
	return s.save()
}

// Update replaces the entry stored under oldName with e. When e.Name differs
// from oldName the entry is renamed: the old key is removed and the new one
// inserted, overwriting any entry already under e.Name.
func (s *Session) Update(oldName string, e Entry) error {
	if s.locked {
		return ErrLocked
	}
	if e.Name == "" {
		return ErrEmptyName
	}
	if _, ok := s.records[oldName]; !ok {
		return ErrNotFound
	}
	delete(s.records, oldName)
	s.records[e.Name] = e.Record()
	return s.save()
}

// Delete removes the named entry and saves the vault.
func (s *Session) Delete(name string) error {
	if s.locked {
		return ErrLocked
	}
	if _, ok := s.records[name]; !ok {
		return ErrNotFound
	}
	delete(s.records, name)
	return s.save()
}

// ChangeMasterPassword re-keys the vault: a fresh salt and verifier are
// written for newPassword and the record collection is re-encrypted under the
// new key. The verifier and the blob are two files, so a crash between the
// two writes leaves a vault whose halves disagree; both failure modes surface
// as ErrDecryption on the next login rather than data loss.
func (s *Session) ChangeMasterPassword(newPassword []byte, params *KDFParams) error {
	if s.locked {
		return ErrLocked
	}
	keys, err := s.auth.reset(newPassword, params)
	if err != nil {
		return err
	}
	zero(keys.Verifier)
	zero(s.key)
	s.key = keys.Encryption
	return s.save()
}

func (s *Session) save() error {
	return s.store.Save(s.records, s.key)
}
