package book

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileynet/phonebook/internal/contact"
	"github.com/smileynet/phonebook/internal/state"
)

func newBook(t *testing.T, seed map[string]contact.Record) (*Book, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.json")
	fs := state.NewFileStore(path)
	if seed != nil {
		require.NoError(t, fs.Save(seed))
	}
	s := contact.NewStore(fs)
	_, err := s.Load()
	require.NoError(t, err)
	return New(s, nil), path
}

func writeVCF(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPrepare_Rejections(t *testing.T) {
	b, _ := newBook(t, nil)

	d, notices := b.Prepare(contact.Input{Name: "  ", Phone: "5551234567"})
	assert.Nil(t, d)
	assert.Equal(t, []Notice{NoticeNameRequired}, notices)

	d, notices = b.Prepare(contact.Input{Name: "Jane", Phone: ""})
	assert.Nil(t, d)
	assert.Equal(t, []Notice{NoticePhoneRequired}, notices)
}

func TestPrepareAndSave(t *testing.T) {
	// Given an empty book
	b, _ := newBook(t, nil)

	// When a contact with a bad email is entered
	d, notices := b.Prepare(contact.Input{Name: "Jane Doe", Phone: "(555) 123-4567", Email: "nope", Birthday: "1990-01-15"})

	// Then it is accepted minus the email, with a warning
	require.NotNil(t, d)
	assert.False(t, d.Exists)
	assert.Equal(t, []Notice{{Level: Failure, Text: "Invalid email format"}}, notices)

	n := b.Save(d)
	assert.Equal(t, Notice{Level: Success, Text: "Jane Doe saved!"}, n)
	got, ok := b.Store().Get("Jane Doe")
	require.True(t, ok)
	assert.Equal(t, contact.Record{Phone: "555-123-4567", Birthday: "1990-01-15"}, got)
}

func TestPrepare_FlagsExisting(t *testing.T) {
	b, _ := newBook(t, map[string]contact.Record{"Jane Doe": {Phone: "555-123-4567"}})

	d, _ := b.Prepare(contact.Input{Name: "Jane Doe", Phone: "5550000000"})
	require.NotNil(t, d)
	assert.True(t, d.Exists)
}

func TestAll(t *testing.T) {
	b, _ := newBook(t, nil)
	entries, n := b.All()
	assert.Nil(t, entries)
	require.NotNil(t, n)
	assert.Equal(t, NoticeNoContacts, *n)

	b, _ = newBook(t, map[string]contact.Record{"b": {}, "a": {}})
	entries, n = b.All()
	assert.Nil(t, n)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
}

func TestLookup(t *testing.T) {
	b, _ := newBook(t, map[string]contact.Record{
		"Jane Doe":   {Phone: "555-123-4567"},
		"John Smith": {Phone: "555-987-6543"},
	})

	entries, n := b.Lookup("jan")
	assert.Nil(t, n)
	require.Len(t, entries, 1)
	assert.Equal(t, "Jane Doe", entries[0].Name)

	_, n = b.Lookup("   ")
	require.NotNil(t, n)
	assert.Equal(t, NoticeSearchCancel, *n)

	_, n = b.Lookup("Zed")
	require.NotNil(t, n)
	assert.Equal(t, `No matches for "zed"`, n.Text)
}

func TestLookup_EmptyBook(t *testing.T) {
	b, _ := newBook(t, nil)
	_, n := b.Lookup("jan")
	require.NotNil(t, n)
	assert.Equal(t, NoticeNoContacts, *n)
}

func TestDelete(t *testing.T) {
	b, _ := newBook(t, map[string]contact.Record{"Jane Doe": {}, "John Smith": {}})

	names, n := b.Deletable()
	assert.Nil(t, n)
	assert.Equal(t, []string{"Jane Doe", "John Smith"}, names)

	assert.Equal(t, NoticeDeleteCancel, b.Delete("Jane Doe", false))
	assert.Equal(t, 2, b.Store().Len())

	assert.Equal(t, Notice{Level: Success, Text: "Jane Doe deleted!"}, b.Delete("Jane Doe", true))
	assert.Equal(t, 1, b.Store().Len())

	n2 := b.Delete("Nobody", true)
	assert.Equal(t, Failure, n2.Level)
	assert.ErrorIs(t, n2.Err, ErrNotFound)
	assert.Equal(t, 1, b.Store().Len())
}

func TestDeletable_Empty(t *testing.T) {
	b, _ := newBook(t, nil)
	_, n := b.Deletable()
	require.NotNil(t, n)
	assert.Equal(t, NoticeNothingToDel, *n)
}

func TestImport(t *testing.T) {
	// Given a book with one contact and a vCard file with two
	b, storePath := newBook(t, map[string]contact.Record{"Old": {Phone: "555-000-0000"}})
	vcf := writeVCF(t, "BEGIN:VCARD\nFN:Jane Doe\nTEL;TYPE=CELL:555-123-4567\nBDAY:19900115\nEND:VCARD\n"+
		"BEGIN:VCARD\nFN:John Smith\nEMAIL:john@example.com\nEND:VCARD\n")

	// When the file is imported
	n := b.Import(vcf)

	// Then both contacts are merged and persisted
	assert.Equal(t, Notice{Level: Success, Text: "Imported 2 contacts!"}, n)
	assert.Equal(t, 3, b.Store().Len())

	reloaded, err := state.NewFileStore(storePath).Load()
	require.NoError(t, err)
	assert.Equal(t, contact.Record{Phone: "555-123-4567", Birthday: "1990-01-15"}, reloaded["Jane Doe"])
}

func TestImport_Outcomes(t *testing.T) {
	b, _ := newBook(t, nil)

	assert.Equal(t, NoticeImportCancel, b.Import("  "))

	noName := writeVCF(t, "BEGIN:VCARD\nTEL:5551234567\nEND:VCARD\n")
	assert.Equal(t, NoticeNoneImported, b.Import(noName))

	n := b.Import(filepath.Join(t.TempDir(), "missing.vcf"))
	assert.Equal(t, Failure, n.Level)
	assert.Contains(t, n.Text, "Import failed:")
	assert.ErrorIs(t, n.Err, os.ErrNotExist)
	assert.Equal(t, 0, b.Store().Len())
}

func TestImportFrom(t *testing.T) {
	b, _ := newBook(t, nil)

	n := b.ImportFrom("stdin", strings.NewReader("BEGIN:VCARD\nFN:Jane Doe\nTEL:5551234567\nEND:VCARD\n"))
	assert.Equal(t, Notice{Level: Success, Text: "Imported 1 contacts!"}, n)
	assert.Equal(t, contact.Record{Phone: "555-123-4567"}, b.Store().List()[0].Record)

	assert.Equal(t, NoticeNoneImported, b.ImportFrom("stdin", strings.NewReader("")))

	bad := b.ImportFrom("stdin", iotest.ErrReader(errors.New("boom")))
	assert.Equal(t, Failure, bad.Level)
	assert.EqualError(t, bad.Err, "vcard: reading: boom")
}

func TestRejectionsCarryCause(t *testing.T) {
	assert.ErrorIs(t, NoticeNameRequired.Err, contact.ErrNameRequired)
	assert.ErrorIs(t, NoticePhoneRequired.Err, contact.ErrPhoneRequired)
	assert.NoError(t, NoticeGoodbye.Err)
}

func TestNoticeString(t *testing.T) {
	assert.Equal(t, "✓ Goodbye!", NoticeGoodbye.String())
	assert.Equal(t, "✗ Invalid choice!", NoticeInvalidChoice.String())
}
