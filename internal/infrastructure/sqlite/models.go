package sqlite

import "time"

// KVModel represents a row of the kv table.
type KVModel struct {
	Key       string
	Value     string
	UpdatedAt int64 // Unix timestamp
}

// UpdatedTime returns UpdatedAt as a time.Time.
func (m KVModel) UpdatedTime() time.Time {
	return time.Unix(m.UpdatedAt, 0)
}
