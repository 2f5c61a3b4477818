// Package store persists an address book as a single JSON document.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

// DefaultPath is the contacts file used when no path is configured.
const DefaultPath = "contacts.json"

// Operations reported in a persistence error's Op.
const (
	OpLoad = "load"
	OpSave = "save"
)

// entry is the persisted shape of one record.
type entry struct {
	Phones []string `json:"phones"`
	Emails []string `json:"emails"`
}

// FileStore reads and writes the book at a fixed path.
type FileStore struct {
	path string
	log  *zap.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger that receives skipped-entry warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string { return s.path }

// Save overwrites the file with the full book. Contacts appear in book order
// and each phone and email list in index order.
func (s *FileStore) Save(b *book.Book) error {
	data, err := Marshal(b)
	if err != nil {
		return s.fail(OpSave, fmt.Errorf("marshaling: %w", err))
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return s.fail(OpSave, fmt.Errorf("creating directory: %w", err))
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return s.fail(OpSave, err)
	}
	s.log.Debug("store.saved", zap.String("path", s.path), zap.Int("contacts", b.Len()))
	return nil
}

// Load reads the book from the file. A missing or empty file yields an empty
// book. Entries that fail validation are skipped and logged.
func (s *FileStore) Load() (*book.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.Info("store.missing", zap.String("path", s.path))
			return book.New(), nil
		}
		return nil, s.fail(OpLoad, err)
	}

	b, err := s.unmarshal(data)
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}
	s.log.Debug("store.loaded", zap.String("path", s.path), zap.Int("contacts", b.Len()))
	return b, nil
}

// Save writes b to path.
func Save(b *book.Book, path string) error {
	return NewFileStore(path).Save(b)
}

// Load reads the book at path.
func Load(path string) (*book.Book, error) {
	return NewFileStore(path).Load()
}

// Marshal renders b in the persisted format with four-space indentation and
// a trailing newline.
func Marshal(b *book.Book) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range b.Records() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name().String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(toEntry(r))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func toEntry(r *contact.Record) entry {
	e := entry{Phones: []string{}, Emails: []string{}}
	for _, p := range r.Phones() {
		e.Phones = append(e.Phones, p.String())
	}
	for _, m := range r.Emails() {
		e.Emails = append(e.Emails, m.String())
	}
	return e
}

// unmarshal decodes the top-level object token by token so contacts keep
// their file order.
func (s *FileStore) unmarshal(data []byte) (*book.Book, error) {
	b := book.New()
	if len(bytes.TrimSpace(data)) == 0 {
		return b, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parsing: top level must be an object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing: %w", err)
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", name, err)
		}
		s.loadEntry(b, name, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parsing: trailing data after top-level object")
	}
	return b, nil
}

// loadEntry adds one persisted contact through the validated record
// operations, skipping whatever does not validate. Each field is decoded on
// its own, so a malformed list drops only that list. A name repeated in the
// file replaces the earlier entry.
func (s *FileStore) loadEntry(b *book.Book, name string, raw json.RawMessage) {
	log := s.log.With(zap.String("path", s.path), zap.String("contact", name))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		log.Warn("store.skip_contact", zap.String("reason", "malformed entry"), zap.Error(err))
		return
	}

	r, err := contact.NewRecord(name)
	if err != nil {
		log.Warn("store.skip_contact", zap.Error(err))
		return
	}

	s.loadValues(log.With(zap.String("field", "phones")), "store.skip_phone", fields["phones"], r.AddPhone)
	s.loadValues(log.With(zap.String("field", "emails")), "store.skip_email", fields["emails"], r.AddEmail)

	if b.Put(r) {
		log.Warn("store.replace_contact", zap.String("reason", "duplicate name"))
	}
}

// loadValues decodes a JSON array of strings and feeds each one to add.
// An absent or null field is empty.
func (s *FileStore) loadValues(log *zap.Logger, msg string, raw json.RawMessage, add func(string) error) {
	if len(raw) == 0 {
		return
	}
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		log.Warn(msg, zap.String("reason", "malformed field"), zap.ByteString("value", raw), zap.Error(err))
		return
	}
	for _, v := range values {
		var str string
		if err := json.Unmarshal(v, &str); err != nil {
			log.Warn(msg, zap.ByteString("value", v), zap.Error(err))
			continue
		}
		if err := add(str); err != nil {
			log.Warn(msg, zap.Error(err))
		}
	}
}

func (s *FileStore) fail(op string, err error) error {
	s.log.Error("store.failed", zap.String("op", op), zap.String("path", s.path), zap.Error(err))
	return &contact.Error{Kind: contact.KindPersistence, Op: op, Path: s.path, Err: err}
}
