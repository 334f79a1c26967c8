package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	path, err := store.Save("schedule_jane_monday.csv", []byte("Time,Type,Activity\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "schedule_jane_monday.csv"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Time,Type,Activity\n", string(body))
}

func TestLocalStorageRejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"../outside.csv", "/etc/passwd", ".."} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)
	}
}
