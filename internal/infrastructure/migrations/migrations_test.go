package migrations

import (
	"database/sql"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/require"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:")
	require.NoError(t, err, "ncruces driver should open :memory: database")
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRunMigrations_FreshDB(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, RunMigrations(db))

	var tableName string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&tableName)
	require.NoError(t, err, "kv table should exist")
	require.Equal(t, "kv", tableName)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := openMemory(t)

	require.NoError(t, RunMigrations(db), "first migration run should succeed")
	require.NoError(t, RunMigrations(db), "second migration run should not error")
}

func TestMigrations_Schema(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	rows, err := db.Query(`PRAGMA table_info(kv)`)
	require.NoError(t, err)
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid         int
			name, typ   string
			notnull, pk int
			dflt        any
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk))
		columns[name] = true
	}
	require.NoError(t, rows.Err())

	for _, col := range []string{"key", "value", "updated_at"} {
		require.True(t, columns[col], "expected column %s", col)
	}
}

func TestMigrationsFS_ContainsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(MigrationsFS(), ".")
	require.NoError(t, err)

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}
	require.True(t, names["000001_create_kv.up.sql"])
	require.True(t, names["000001_create_kv.down.sql"])
}

func TestDriver_VersionRoundTrip(t *testing.T) {
	db := openMemory(t)
	drv, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	version, dirty, err := drv.Version()
	require.NoError(t, err)
	require.Equal(t, database.NilVersion, version)
	require.False(t, dirty)

	require.NoError(t, drv.SetVersion(3, true))
	version, dirty, err = drv.Version()
	require.NoError(t, err)
	require.Equal(t, 3, version)
	require.True(t, dirty)
}

func TestDriver_LockIsExclusive(t *testing.T) {
	db := openMemory(t)
	drv, err := WithInstance(db, &Config{})
	require.NoError(t, err)

	require.NoError(t, drv.Lock())
	require.ErrorIs(t, drv.Lock(), database.ErrLocked)
	require.NoError(t, drv.Unlock())
	require.ErrorIs(t, drv.Unlock(), database.ErrNotLocked)
}

func TestWithInstance_NilConfig(t *testing.T) {
	db := openMemory(t)
	_, err := WithInstance(db, nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestDriver_Drop(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	drv, err := WithInstance(db, &Config{})
	require.NoError(t, err)
	require.NoError(t, drv.Drop())

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table'`).Scan(&count))
	require.Zero(t, count)
}

func TestVersion(t *testing.T) {
	db := openMemory(t)

	_, ok, err := Version(db)
	require.NoError(t, err)
	require.False(t, ok, "nothing applied yet")

	require.NoError(t, RunMigrations(db))

	version, ok, err := Version(db)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint(1), version)
}
