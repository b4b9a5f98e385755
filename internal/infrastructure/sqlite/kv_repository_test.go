package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKVRepository_GetMissing(t *testing.T) {
	repo := newTestDB(t).KVRepository()

	value, ok, err := repo.Get("customSounds")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, value)
}

func TestKVRepository_SetOverwrites(t *testing.T) {
	repo := newTestDB(t).KVRepository()

	tests := []struct {
		name  string
		value string
	}{
		{name: "initial", value: `[{"id":"a"}]`},
		{name: "overwrite", value: `[{"id":"a"},{"id":"b"}]`},
		{name: "empty array", value: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, repo.Set("customSounds", tt.value))

			got, ok, err := repo.Get("customSounds")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tt.value, got)
		})
	}
}

func TestKVRepository_Delete(t *testing.T) {
	repo := newTestDB(t).KVRepository()

	require.NoError(t, repo.Set("k", "v"))
	require.NoError(t, repo.Delete("k"))
	require.NoError(t, repo.Delete("k"), "deleting an absent key is not an error")

	_, ok, err := repo.Get("k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVRepository_UpdatedAt(t *testing.T) {
	repo := newTestDB(t).KVRepository()
	fixed := time.Unix(1_700_000_000, 0)
	repo.now = func() time.Time { return fixed }

	_, ok, err := repo.UpdatedAt("k")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set("k", "v"))
	at, ok, err := repo.UpdatedAt("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, fixed.Equal(at))
}

func TestKVRepository_SetAfterCloseFails(t *testing.T) {
	db := newTestDB(t)
	repo := db.KVRepository()
	require.NoError(t, db.Close())

	require.Error(t, repo.Set("k", "v"))
	_, _, err := repo.Get("k")
	require.Error(t, err)
}
