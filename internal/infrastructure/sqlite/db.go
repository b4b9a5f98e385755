// Package sqlite persists the soundboard's user-added sounds in a single
// SQLite file shared by every soundboard process on the machine.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zjrosen/soundboard/internal/infrastructure/migrations"
	"github.com/zjrosen/soundboard/internal/log"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// pragmas are applied to every connection before migrating. A board and a
// CLI command may hold the file at the same time, so writers wait on each
// other instead of failing with SQLITE_BUSY.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
}

// DB is an open sound database.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens the database at path, creating it and its directory when
// missing. An existing non-empty file is copied to path+".bak" before
// migrations run, so a bad upgrade never loses the user's sounds.
func NewDB(path string) (*DB, error) {
	log.Debug(log.CatDB, "Opening database", "path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.ErrorErr(log.CatDB, "Failed to create database directory", err, "path", path)
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	if err := backup(path); err != nil {
		log.ErrorErr(log.CatDB, "Failed to back up database", err, "path", path)
		return nil, fmt.Errorf("backing up database: %w", err)
	}

	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := prepare(conn); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Failed to prepare database", err, "path", path)
		return nil, err
	}

	version, _, err := migrations.Version(conn)
	if err != nil {
		log.Warn(log.CatDB, "Could not read schema version", "error", err)
	}
	log.Info(log.CatDB, "Database ready", "path", path, "schema", version)
	return &DB{conn: conn, path: path}, nil
}

func prepare(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if err := migrations.RunMigrations(conn); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// Close releases the connection. Closing twice is safe.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	log.Debug(log.CatDB, "Closing database", "path", db.path)
	err := db.conn.Close()
	db.conn = nil
	return err
}

// KVRepository returns the key-value table the sound store persists into.
func (db *DB) KVRepository() *KVRepository {
	return newKVRepository(db.conn)
}

// Path is the database file. The watcher observes its directory.
func (db *DB) Path() string {
	return db.path
}

// backup copies path to path+".bak" through a temp file and rename, so an
// interrupted copy never replaces a good backup. Missing or empty files are
// skipped.
func backup(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		return nil
	}
	if err != nil {
		return err
	}

	tmp := path + ".bak.tmp"
	if err := copyFile(path, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path+".bak"); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	log.Debug(log.CatDB, "Backed up database", "backup", path+".bak", "bytes", info.Size())
	return nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // src is the configured database path
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // dst derives from the database path
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
