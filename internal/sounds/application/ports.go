// Package application implements the soundboard store: the single owner of
// the sound collection and of its persisted user-added subset.
package application

// KVStore is the key-value persistence the store writes through.
// Both calls are synchronous; failures are non-fatal to the store.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// BlobReleaser frees session blobs referenced by removed sounds.
type BlobReleaser interface {
	Release(ref string)
}
