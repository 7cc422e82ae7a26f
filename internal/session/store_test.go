package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	id, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestStore_SaveLoadClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s := NewStore(dir)

	require.NoError(t, s.Save("abc-123"))
	id, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)

	require.NoError(t, s.Save("def-456"))
	id, _ = s.Load()
	assert.Equal(t, "def-456", id)

	require.NoError(t, s.Clear())
	id, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, id)

	// Clearing twice is fine.
	assert.NoError(t, s.Clear())
}

func TestStore_LoadTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("  xyz \n"), 0o600))

	id, err := NewStore(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "xyz", id)
}
