package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestWatcher(t *testing.T, debounce time.Duration) (string, *atomic.Int32) {
	t.Helper()
	dir := t.TempDir()
	db := filepath.Join(dir, "soundboard.db")
	require.NoError(t, os.WriteFile(db, nil, 0o600))

	var calls atomic.Int32
	w, err := New(db, debounce, func() { calls.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, w.Close()) })
	return db, &calls
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	db, calls := newTestWatcher(t, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(db, []byte{byte(i)}, 0o600))
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.EqualValues(t, 1, calls.Load(), "one burst fires once")
}

func TestWatcher_WALCompanionCounts(t *testing.T) {
	db, calls := newTestWatcher(t, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(db+"-wal", []byte("x"), 0o600))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	db, calls := newTestWatcher(t, 10*time.Millisecond)

	other := filepath.Join(filepath.Dir(db), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, calls.Load())
}

func TestWatcher_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "soundboard.db"), time.Millisecond, func() {})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "soundboard.db"), time.Millisecond, func() {})
	require.Error(t, err)
}
