package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "soundboard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDB_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "soundboard.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	require.NoError(t, err, "database file should exist")
	require.Equal(t, path, db.Path())
}

func TestNewDB_BacksUpExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundboard.db")

	first, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, first.KVRepository().Set("k", "v"))
	require.NoError(t, first.Close())

	second, err := NewDB(path)
	require.NoError(t, err)
	defer second.Close()

	_, err = os.Stat(path + ".bak")
	require.NoError(t, err, "reopening should leave a backup")

	value, ok, err := second.KVRepository().Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", value)
}

func TestNewDB_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := NewDB(filepath.Join(blocker, "soundboard.db"))
	require.Error(t, err)
}

func TestDB_CloseTwiceIsSafe(t *testing.T) {
	db, err := NewDB(filepath.Join(t.TempDir(), "soundboard.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NotPanics(t, func() { _ = db.Close() })
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o600))

	require.NoError(t, copyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
}

func TestBackup_SkipsMissingAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.db")
	require.NoError(t, backup(missing))
	_, err := os.Stat(missing + ".bak")
	require.True(t, os.IsNotExist(err))

	empty := filepath.Join(dir, "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	require.NoError(t, backup(empty))
	_, err = os.Stat(empty + ".bak")
	require.True(t, os.IsNotExist(err))
}

func TestBackup_ReplacesPreviousBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soundboard.db")
	require.NoError(t, os.WriteFile(path+".bak", []byte("old"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("new"), 0o600))

	require.NoError(t, backup(path))

	got, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
	_, err = os.Stat(path + ".bak.tmp")
	require.True(t, os.IsNotExist(err), "temp file is renamed away")
}
