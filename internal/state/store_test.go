package state

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smileynet/phonebook/internal/contact"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	// Given a mapping to persist
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "contacts.json"))

	contacts := map[string]contact.Record{
		"Jane Doe":   {Phone: "555-123-4567", Birthday: "1990-01-15"},
		"John Smith": {Phone: "555-987-6543", Email: "john@example.com"},
		"No Phone":   {Email: "np@example.org"},
	}

	// When Save is called
	if err := store.Save(contacts); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Then Load returns the same mapping field for field
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != len(contacts) {
		t.Fatalf("Load() len = %d, want %d", len(loaded), len(contacts))
	}
	for name, want := range contacts {
		if got := loaded[name]; got != want {
			t.Errorf("loaded[%q] = %+v, want %+v", name, got, want)
		}
	}
}

func TestFileStore_SaveOmitsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	store := NewFileStore(path)

	if err := store.Save(map[string]contact.Record{"Jane": {Phone: "555-123-4567"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "email") || strings.Contains(string(data), "birthday") {
		t.Errorf("unset fields should be absent, got:\n%s", data)
	}
	if !strings.Contains(string(data), `"phone": "555-123-4567"`) {
		t.Errorf("phone should be persisted, got:\n%s", data)
	}
}

func TestFileStore_LoadNotFound(t *testing.T) {
	// Given no file on disk
	store := NewFileStore(filepath.Join(t.TempDir(), "contacts.json"))

	// When Load is called
	loaded, err := store.Load()

	// Then an empty mapping is returned without error
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() len = %d, want 0", len(loaded))
	}
}

func TestFileStore_LoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load() len = %d, want 0", len(loaded))
	}
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{{not json"},
		{name: "wrong shape", content: `["Jane", "John"]`},
		{name: "non-string field", content: `{"Jane": {"phone": 5551234567}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "contacts.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := NewFileStore(path).Load()
			if !errors.Is(err, contact.ErrCorrupt) {
				t.Errorf("Load() error = %v, want contact.ErrCorrupt", err)
			}
		})
	}
}

func TestFileStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "contacts.json")
	store := NewFileStore(path)

	if err := store.Save(map[string]contact.Record{"Jane": {}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file should exist after Save: %v", err)
	}
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "contacts.json"))

	for i := 0; i < 3; i++ {
		if err := store.Save(map[string]contact.Record{"Jane": {Phone: "555-123-4567"}}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want only contacts.json", names)
	}
}

func TestFileStore_SaveOverwritesPrevious(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "contacts.json"))

	if err := store.Save(map[string]contact.Record{"Jane": {}, "John": {}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(map[string]contact.Record{"John": {}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded["Jane"]; ok {
		t.Error("Jane should be gone after full overwrite")
	}
	if len(loaded) != 1 {
		t.Errorf("Load() len = %d, want 1", len(loaded))
	}
}

func TestFileStore_DefaultPath(t *testing.T) {
	if got := NewFileStore("").Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
}

func TestFileStore_WithContactStore(t *testing.T) {
	// Given a contact store backed by a file
	path := filepath.Join(t.TempDir(), "contacts.json")
	s := contact.NewStore(NewFileStore(path))
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	// When a contact is added
	if err := s.Upsert("Jane Doe", contact.Record{Phone: "555-123-4567"}); err != nil {
		t.Fatal(err)
	}

	// Then a fresh store on the same file sees it
	reopened := contact.NewStore(NewFileStore(path))
	if _, err := reopened.Load(); err != nil {
		t.Fatal(err)
	}
	if got, ok := reopened.Get("Jane Doe"); !ok || got.Phone != "555-123-4567" {
		t.Errorf("reopened Get = %+v, %v; want phone 555-123-4567", got, ok)
	}
}

func TestFileStore_CorruptFileThroughContactStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := contact.NewStore(NewFileStore(path))
	warn, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if warn != contact.WarnCorruptStore {
		t.Errorf("Load() warning = %q, want %q", warn, contact.WarnCorruptStore)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestFileStore_CorruptFileKeptAsideOnFirstSave(t *testing.T) {
	// Given an unreadable contacts file
	path := filepath.Join(t.TempDir(), "contacts.json")
	original := []byte(`{"Jane Doe": {"phone": "555-123-4567"`)
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}
	s := contact.NewStore(NewFileStore(path))
	if _, err := s.Load(); err != nil {
		t.Fatal(err)
	}

	// When a contact is added
	if err := s.Upsert("John Smith", contact.Record{Phone: "555-987-6543"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Then the original bytes survive next to the new file
	kept, err := os.ReadFile(path + ".corrupt")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(kept) != string(original) {
		t.Errorf("backup = %q, want %q", kept, original)
	}
	loaded, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("Load() len = %d, want 1", len(loaded))
	}
}

func TestFileStore_Backup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.json")
	store := NewFileStore(path)

	// Missing file: nothing to copy
	dst, err := store.Backup()
	if err != nil || dst != "" {
		t.Fatalf("Backup() = %q, %v; want empty, nil", dst, err)
	}

	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dst, err = store.Backup(); err != nil || dst != path+".corrupt" {
		t.Fatalf("Backup() = %q, %v; want %q", dst, err, path+".corrupt")
	}

	// An existing backup is never overwritten
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dst, err = store.Backup(); err != nil || dst != path+".corrupt.1" {
		t.Fatalf("Backup() = %q, %v; want %q", dst, err, path+".corrupt.1")
	}
	for name, want := range map[string]string{".corrupt": "first", ".corrupt.1": "second"} {
		got, err := os.ReadFile(path + name)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}
