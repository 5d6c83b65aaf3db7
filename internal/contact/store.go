package contact

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// ErrCorrupt is wrapped by a Persister whose backing data exists but
// cannot be decoded.
var ErrCorrupt = errors.New("contact: stored data is corrupt")

// WarnCorruptStore is reported by Load when the stored data was unreadable
// and the store started empty instead.
const WarnCorruptStore Warning = "Stored contacts could not be read; starting with an empty phone book"

// Persister reads and writes the complete name-to-record mapping.
// Load must return an empty mapping and nil when nothing has been saved yet.
type Persister interface {
	Load() (map[string]Record, error)
	Save(map[string]Record) error
}

// Backuper is implemented by a Persister that can copy unreadable data
// aside. Backup returns where the copy went, or "" when there was nothing
// to copy.
type Backuper interface {
	Backup() (string, error)
}

// Store owns the in-memory mapping of contact name to record and writes
// the whole mapping through its Persister after every mutation.
type Store struct {
	contacts map[string]Record
	persist  Persister
	log      *zap.Logger
	fold     cases.Caser

	// unreadable is set when Load found corrupt data that has not been
	// backed up yet.
	unreadable bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates an empty Store backed by p. Call Load to populate it.
func NewStore(p Persister, opts ...StoreOption) *Store {
	s := &Store{
		contacts: make(map[string]Record),
		persist:  p,
		log:      zap.NewNop(),
		fold:     cases.Fold(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory mapping with the persisted one.
// Corrupt data is not fatal: the store starts empty and a warning is returned.
// When the Persister is a Backuper, the corrupt data is copied aside before
// the first save overwrites it.
func (s *Store) Load() (Warning, error) {
	loaded, err := s.persist.Load()
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			s.log.Warn("ignoring unreadable contacts file", zap.Error(err))
			s.contacts = make(map[string]Record)
			s.unreadable = true
			return WarnCorruptStore, nil
		}
		return "", fmt.Errorf("contact: loading: %w", err)
	}
	s.unreadable = false
	if loaded == nil {
		loaded = make(map[string]Record)
	}
	s.contacts = loaded
	s.log.Debug("contacts loaded", zap.Int("count", len(loaded)))
	return "", nil
}

// Upsert stores r under name, replacing any existing record.
// Overwrite confirmation is the caller's concern.
func (s *Store) Upsert(name string, r Record) error {
	next := maps.Clone(s.contacts)
	next[name] = r
	return s.commit(next)
}

// Remove deletes name and reports whether it was present.
// Nothing is written when the name was absent.
func (s *Store) Remove(name string) (bool, error) {
	if _, ok := s.contacts[name]; !ok {
		return false, nil
	}
	next := maps.Clone(s.contacts)
	delete(next, name)
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// MergeImported upserts every imported record and saves once.
// It returns the number of records merged.
func (s *Store) MergeImported(imported map[string]Record) (int, error) {
	if len(imported) == 0 {
		return 0, nil
	}
	next := maps.Clone(s.contacts)
	maps.Copy(next, imported)
	if err := s.commit(next); err != nil {
		return 0, err
	}
	return len(imported), nil
}

// commit persists next and only then makes it the live mapping, so a failed
// save leaves the store as it was.
func (s *Store) commit(next map[string]Record) error {
	if err := s.preserve(); err != nil {
		return err
	}
	if err := s.persist.Save(next); err != nil {
		s.log.Error("saving contacts failed", zap.Error(err))
		return fmt.Errorf("contact: saving: %w", err)
	}
	s.contacts = next
	return nil
}

// preserve backs up unreadable data once, before anything overwrites it.
func (s *Store) preserve() error {
	if !s.unreadable {
		return nil
	}
	if b, ok := s.persist.(Backuper); ok {
		dst, err := b.Backup()
		if err != nil {
			s.log.Error("backing up unreadable contacts failed", zap.Error(err))
			return fmt.Errorf("contact: preserving unreadable data: %w", err)
		}
		if dst != "" {
			s.log.Warn("unreadable contacts copied aside", zap.String("backup", dst))
		}
	}
	s.unreadable = false
	return nil
}

// Get returns the record stored under name.
func (s *Store) Get(name string) (Record, bool) {
	r, ok := s.contacts[name]
	return r, ok
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	return len(s.contacts)
}

// Find returns every contact whose name contains term, ignoring case.
func (s *Store) Find(term string) map[string]Record {
	needle := s.fold.String(term)
	found := make(map[string]Record)
	for name, r := range s.contacts {
		if strings.Contains(s.fold.String(name), needle) {
			found[name] = r
		}
	}
	return found
}

// List returns every contact sorted by name.
func (s *Store) List() []Entry {
	return SortedEntries(s.contacts)
}

// Names returns every contact name in sorted order.
func (s *Store) Names() []string {
	return slices.Sorted(maps.Keys(s.contacts))
}

// SortedEntries flattens m into entries ordered by name.
func SortedEntries(m map[string]Record) []Entry {
	entries := make([]Entry, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		entries = append(entries, Entry{Name: name, Record: m[name]})
	}
	return entries
}
