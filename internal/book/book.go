// Package book implements the phone book's menu actions on top of the
// contact store and the vCard parser. It decides what each action does and
// what the user is told; the console and dashboard packages only render it.
package book

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/vcard"
)

// Level classifies a Notice for display.
type Level int

const (
	Success Level = iota
	Failure
)

// ErrNotFound reports an action on a name that is not stored.
var ErrNotFound = errors.New("book: no such contact")

// Notice is a short status message shown after an action. Err is set when
// the action was rejected or failed, so one-shot callers can map it to an
// exit status.
type Notice struct {
	Level Level
	Text  string
	Err   error
}

// String renders the notice with a ✓ or ✗ mark.
func (n Notice) String() string {
	if n.Level == Failure {
		return "✗ " + n.Text
	}
	return "✓ " + n.Text
}

func success(format string, args ...any) Notice {
	return Notice{Level: Success, Text: fmt.Sprintf(format, args...)}
}

func failure(format string, args ...any) Notice {
	return Notice{Level: Failure, Text: fmt.Sprintf(format, args...)}
}

func failed(err error, format string, args ...any) Notice {
	n := failure(format, args...)
	n.Err = err
	return n
}

func ref(n Notice) *Notice {
	return &n
}

// Menu notices shared by every front end.
var (
	NoticeGoodbye       = success("Goodbye!")
	NoticeInvalidChoice = failure("Invalid choice!")
	NoticeNoContacts    = failure("No contacts found!")
	NoticeNothingToDel  = failure("No contacts to delete!")
	NoticeSearchCancel  = failure("Search cancelled")
	NoticeDeleteCancel  = failure("Deletion cancelled")
	NoticeImportCancel  = failure("Import cancelled")
	NoticeNoneImported  = failure("No valid contacts found")
	NoticeNameRequired  = failed(contact.ErrNameRequired, "Name is required!")
	NoticePhoneRequired = failed(contact.ErrPhoneRequired, "Phone number is required!")
)

// Book runs menu actions against a loaded contact store.
type Book struct {
	store *contact.Store
	log   *zap.Logger
}

// New creates a Book over store. A nil logger discards output.
func New(store *contact.Store, log *zap.Logger) *Book {
	if log == nil {
		log = zap.NewNop()
	}
	return &Book{store: store, log: log}
}

// Store returns the underlying contact store.
func (b *Book) Store() *contact.Store {
	return b.store
}

// Draft is a validated contact waiting to be saved.
type Draft struct {
	Name     string
	Record   contact.Record
	Exists   bool     // An entry with this name is already stored
	Warnings []Notice // Fields dropped during validation
}

// Prepare validates raw entry. A nil draft means the entry was rejected and
// the returned notice says why. Overwrite confirmation is left to the caller
// via Draft.Exists.
func (b *Book) Prepare(in contact.Input) (*Draft, []Notice) {
	name, rec, warnings, err := contact.NewRecord(in)
	switch {
	case errors.Is(err, contact.ErrNameRequired):
		return nil, []Notice{NoticeNameRequired}
	case errors.Is(err, contact.ErrPhoneRequired):
		return nil, []Notice{NoticePhoneRequired}
	case err != nil:
		return nil, []Notice{failed(err, "%v", err)}
	}

	d := &Draft{Name: name, Record: rec}
	_, d.Exists = b.store.Get(name)
	for _, w := range warnings {
		d.Warnings = append(d.Warnings, failure("%s", w))
	}
	return d, d.Warnings
}

// Save stores a prepared draft, overwriting any existing entry.
func (b *Book) Save(d *Draft) Notice {
	if err := b.store.Upsert(d.Name, d.Record); err != nil {
		return failed(err, "Save failed: %v", err)
	}
	b.log.Info("contact saved", zap.String("name", d.Name), zap.Bool("overwrite", d.Exists))
	return success("%s saved!", d.Name)
}

// All returns every contact sorted by name, or a notice when there are none.
func (b *Book) All() ([]contact.Entry, *Notice) {
	if b.store.Len() == 0 {
		return nil, ref(NoticeNoContacts)
	}
	return b.store.List(), nil
}

// Lookup finds contacts whose names contain term, sorted by name.
// A notice is returned instead when the book is empty, the term is blank,
// or nothing matched.
func (b *Book) Lookup(term string) ([]contact.Entry, *Notice) {
	if b.store.Len() == 0 {
		return nil, ref(NoticeNoContacts)
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ref(NoticeSearchCancel)
	}
	found := b.store.Find(term)
	if len(found) == 0 {
		return nil, ref(failure("No matches for %q", strings.ToLower(term)))
	}
	return contact.SortedEntries(found), nil
}

// Deletable returns the sorted names offered by the delete picker, or a
// notice when there is nothing to delete.
func (b *Book) Deletable() ([]string, *Notice) {
	if b.store.Len() == 0 {
		return nil, ref(NoticeNothingToDel)
	}
	return b.store.Names(), nil
}

// Delete removes name once the user has confirmed.
func (b *Book) Delete(name string, confirmed bool) Notice {
	if !confirmed {
		return NoticeDeleteCancel
	}
	removed, err := b.store.Remove(name)
	if err != nil {
		return failed(err, "Delete failed: %v", err)
	}
	if !removed {
		return failed(ErrNotFound, "No contact named %q", name)
	}
	b.log.Info("contact deleted", zap.String("name", name))
	return success("%s deleted!", name)
}

// Import parses the vCard file at path and merges its contacts.
func (b *Book) Import(path string) Notice {
	path = strings.TrimSpace(path)
	if path == "" {
		return NoticeImportCancel
	}

	res, err := vcard.ParseFile(path)
	if err != nil {
		b.log.Warn("vcard import failed", zap.String("path", path), zap.Error(err))
		return failed(err, "Import failed: %v", err)
	}
	return b.merge(path, res)
}

// ImportFrom parses vCard text from r and merges its contacts. source
// names the input in logs and messages.
func (b *Book) ImportFrom(source string, r io.Reader) Notice {
	res, err := vcard.Parse(r)
	if err != nil {
		b.log.Warn("vcard import failed", zap.String("source", source), zap.Error(err))
		return failed(err, "Import failed: %s: %v", source, err)
	}
	return b.merge(source, res)
}

func (b *Book) merge(source string, res vcard.Result) Notice {
	if res.Count() == 0 {
		return NoticeNoneImported
	}

	n, err := b.store.MergeImported(res.Contacts)
	if err != nil {
		return failed(err, "Import failed: %v", err)
	}
	b.log.Info("vcard imported", zap.String("source", source), zap.Int("count", n))
	return success("Imported %d contacts!", n)
}
