package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// FileName is the file holding the cached session identifier.
const FileName = "session"

// Store caches the session identifier across restarts.
// Layout: <dir>/session containing the bare id.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path() string {
	return filepath.Join(s.dir, FileName)
}

// Load returns the cached id, or "" when none is cached.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read session cache")
	}
	return strings.TrimSpace(string(b)), nil
}

// Save replaces the cached id.
func (s *Store) Save(id string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create session cache dir")
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, []byte(id+"\n"), 0o600); err != nil {
		return errors.Wrap(err, "write session cache")
	}
	return errors.Wrap(os.Rename(tmp, s.path()), "replace session cache")
}

// Clear removes the cached id. A missing cache is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session cache")
	}
	return nil
}
