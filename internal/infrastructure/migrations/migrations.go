// Package migrations applies the soundboard schema to a SQLite database.
//
// golang-migrate's own sqlite3 driver imports mattn/go-sqlite3, which
// registers under the same "sqlite3" name as the CGO-free ncruces driver.
// driver.go implements database.Driver directly on a *sql.DB instead.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var schema embed.FS

// MigrationsFS returns the embedded migration files.
func MigrationsFS() fs.FS {
	return schema
}

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(schema, ".")
	if err != nil {
		return nil, fmt.Errorf("loading embedded migrations: %w", err)
	}
	driver, err := WithInstance(db, &Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", source, "sqlite3", driver)
}

// RunMigrations brings db up to the latest schema. An up-to-date database
// is not an error.
func RunMigrations(db *sql.DB) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version reports the applied schema version. ok is false for a database
// no migration has touched.
func Version(db *sql.DB) (version uint, ok bool, err error) {
	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if dirty {
		return version, true, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, true, nil
}
