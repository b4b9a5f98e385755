package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang-migrate/migrate/v4/database"
)

// DefaultMigrationsTable records the applied schema version.
const DefaultMigrationsTable = "schema_migrations"

var (
	// ErrNilConfig is returned by WithInstance when config is nil.
	ErrNilConfig = errors.New("no config")

	errOpenUnsupported = errors.New("open by URL is not supported; use WithInstance")
)

// Config configures the migration driver.
type Config struct {
	MigrationsTable string
	// NoTxWrap runs each migration outside a transaction.
	NoTxWrap bool
}

// Driver is a golang-migrate database.Driver over an already-open *sql.DB.
// Locking is in-process only; the database is single-user.
type Driver struct {
	db     *sql.DB
	cfg    Config
	locked atomic.Bool
}

var _ database.Driver = (*Driver)(nil)

// WithInstance wraps db and ensures the version table exists.
func WithInstance(db *sql.DB, config *Config) (database.Driver, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	d := &Driver{db: db, cfg: *config}
	if d.cfg.MigrationsTable == "" {
		d.cfg.MigrationsTable = DefaultMigrationsTable
	}
	if err := d.ensureVersionTable(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) ensureVersionTable() (err error) {
	if err := d.Lock(); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, d.Unlock())
	}()

	//nolint:gosec // table name comes from Config, not user input
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (version uint64, dirty bool);
CREATE UNIQUE INDEX IF NOT EXISTS version_unique ON %[1]s (version);`, d.cfg.MigrationsTable)
	_, err = d.db.Exec(stmt)
	return err
}

// Open is part of database.Driver but unused: connections come from WithInstance.
func (d *Driver) Open(string) (database.Driver, error) {
	return nil, errOpenUnsupported
}

// Close closes the wrapped connection.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Lock takes the in-process migration lock.
func (d *Driver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return database.ErrLocked
	}
	return nil
}

// Unlock releases the in-process migration lock.
func (d *Driver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return database.ErrNotLocked
	}
	return nil
}

// Run executes one migration file.
func (d *Driver) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	stmt := string(body)

	if d.cfg.NoTxWrap {
		if _, err := d.db.Exec(stmt); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	}
	return d.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(stmt); err != nil {
			return &database.Error{OrigErr: err, Query: body}
		}
		return nil
	})
}

// SetVersion replaces the recorded version.
func (d *Driver) SetVersion(version int, dirty bool) error {
	return d.inTx(func(tx *sql.Tx) error {
		del := "DELETE FROM " + d.cfg.MigrationsTable //nolint:gosec // trusted table name
		if _, err := tx.Exec(del); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(del)}
		}
		// A dirty NilVersion is still recorded so a failed first down
		// migration is visible (golang-migrate issue #330).
		if version < 0 && !(version == database.NilVersion && dirty) {
			return nil
		}
		ins := "INSERT INTO " + d.cfg.MigrationsTable + " (version, dirty) VALUES (?, ?)" //nolint:gosec // trusted table name
		if _, err := tx.Exec(ins, version, dirty); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(ins)}
		}
		return nil
	})
}

// Version returns the recorded version, or NilVersion when none is recorded.
func (d *Driver) Version() (int, bool, error) {
	var (
		version int
		dirty   bool
	)
	q := "SELECT version, dirty FROM " + d.cfg.MigrationsTable + " LIMIT 1" //nolint:gosec // trusted table name
	if err := d.db.QueryRow(q).Scan(&version, &dirty); err != nil {
		return database.NilVersion, false, nil
	}
	return version, dirty, nil
}

// Drop removes every table.
func (d *Driver) Drop() error {
	names, err := d.tableNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		stmt := "DROP TABLE " + name
		if err := d.inTx(func(tx *sql.Tx) error {
			_, err := tx.Exec(stmt)
			return err
		}); err != nil {
			return &database.Error{OrigErr: err, Query: []byte(stmt)}
		}
	}
	if len(names) > 0 {
		if _, err := d.db.Exec("VACUUM"); err != nil {
			return &database.Error{OrigErr: err, Query: []byte("VACUUM")}
		}
	}
	return nil
}

func (d *Driver) tableNames() (names []string, err error) {
	const q = `SELECT name FROM sqlite_master WHERE type = 'table'`
	rows, err := d.db.Query(q)
	if err != nil {
		return nil, &database.Error{OrigErr: err, Query: []byte(q)}
	}
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, rows.Err()
}

func (d *Driver) inTx(fn func(*sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &database.Error{OrigErr: err, Err: "transaction start failed"}
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := tx.Commit(); err != nil {
		return &database.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}
