package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/soundboard/internal/log"
)

// KVRepository is a string key-value store over the kv table.
type KVRepository struct {
	db  *sql.DB
	now func() time.Time
}

func newKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db, now: time.Now}
}

// Get returns the value stored under key. ok is false when the key is absent.
func (r *KVRepository) Get(key string) (string, bool, error) {
	m, err := r.find(key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *KVRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, r.now().Unix(),
	)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to write key", err, "key", key)
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	log.Debug(log.CatDB, "Wrote key", "key", key, "bytes", len(value))
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *KVRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (r *KVRepository) UpdatedAt(key string) (time.Time, bool, error) {
	m, err := r.find(key)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return m.UpdatedTime(), true, nil
}

func (r *KVRepository) find(key string) (KVModel, error) {
	var m KVModel
	err := r.db.QueryRow(`SELECT key, value, updated_at FROM kv WHERE key = ?`, key).
		Scan(&m.Key, &m.Value, &m.UpdatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return m, err
}
