// Package blobs holds in-memory audio blobs for the lifetime of the process.
// A blob is addressed by a "blob:<uuid>" reference that can be stored as a
// sound's src.
package blobs

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// ErrNotFound is returned by Get for an unknown or released reference.
var ErrNotFound = errors.New("blob not found")

// Blob is stored audio data and its MIME type.
type Blob struct {
	Data []byte
	MIME string
}

// Store is a session blob store. Entries never expire; they live until
// Release or process exit.
type Store struct {
	c *cache.Cache
}

// New creates an empty store.
func New() *Store {
	return &Store{c: cache.New(cache.NoExpiration, 0)}
}

// Put stores data and returns its reference.
func (s *Store) Put(data []byte, mime string) string {
	ref := domain.SchemeBlob + uuid.NewString()
	s.c.Set(key(ref), Blob{Data: data, MIME: mime}, cache.NoExpiration)
	log.Debug(log.CatAudio, "Stored blob", "ref", ref, "bytes", len(data), "mime", mime)
	return ref
}

// Get returns the blob for ref.
func (s *Store) Get(ref string) (Blob, error) {
	v, ok := s.c.Get(key(ref))
	if !ok {
		return Blob{}, ErrNotFound
	}
	return v.(Blob), nil
}

// Release frees the blob for ref. Releasing an unknown ref is a no-op.
func (s *Store) Release(ref string) {
	if _, ok := s.c.Get(key(ref)); !ok {
		return
	}
	s.c.Delete(key(ref))
	log.Debug(log.CatAudio, "Released blob", "ref", ref)
}

// Len returns the number of live blobs.
func (s *Store) Len() int {
	return s.c.ItemCount()
}

func key(ref string) string {
	return strings.TrimPrefix(ref, domain.SchemeBlob)
}
