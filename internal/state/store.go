// Package state persists the contact mapping as a single JSON file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smileynet/phonebook/internal/contact"
)

// DefaultPath is the conventional storage file name.
const DefaultPath = "contacts.json"

// Compile-time checks: FileStore satisfies contact.Persister and contact.Backuper.
var (
	_ contact.Persister = (*FileStore)(nil)
	_ contact.Backuper  = (*FileStore)(nil)
)

// FileStore persists the whole name-to-record mapping as one JSON object.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore that reads and writes path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Path returns the storage file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the mapping. A missing or empty file yields an empty mapping.
// Undecodable content is reported as contact.ErrCorrupt.
func (s *FileStore) Load() (map[string]contact.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]contact.Record{}, nil
		}
		return nil, fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return map[string]contact.Record{}, nil
	}

	var contacts map[string]contact.Record
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("state: parsing %s: %w: %w", s.path, contact.ErrCorrupt, err)
	}
	if contacts == nil {
		contacts = map[string]contact.Record{}
	}
	return contacts, nil
}

// Save overwrites the file with the full mapping. The data goes to a
// temporary file in the same directory first and is renamed into place.
func (s *FileStore) Save(contacts map[string]contact.Record) error {
	if contacts == nil {
		contacts = map[string]contact.Record{}
	}

	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("state: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("state: writing %s: %w", s.path, err)
	}
	return nil
}

// Backup copies the current file to path.corrupt, or path.corrupt.N when
// earlier copies exist. A missing file is not an error and yields "".
func (s *FileStore) Backup() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	for i := 0; ; i++ {
		dst := s.path + ".corrupt"
		if i > 0 {
			dst = fmt.Sprintf("%s.%d", dst, i)
		}
		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("state: creating %s: %w", dst, err)
		}
		_, werr := f.Write(data)
		if err := errors.Join(werr, f.Close()); err != nil {
			return "", fmt.Errorf("state: writing %s: %w", dst, err)
		}
		return dst, nil
	}
}
