package application

import (
	"context"
	"encoding/json"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// StorageKey is the key under which the user-added sounds are persisted.
const StorageKey = "customSounds"

var tracer = otel.Tracer("github.com/zjrosen/soundboard/internal/sounds/application")

// Store owns the working collection (builtins followed by user sounds).
// Every mutation is a read-modify-write of the whole user subset under one
// lock, so concurrent Add/Remove calls never lose an update.
type Store struct {
	mu       sync.Mutex
	kv       KVStore
	blobs    BlobReleaser
	builtins []domain.Sound
	builtin  map[string]bool
	sounds   []domain.Sound
	newID    func() string
	// loaded is set by the first successful read of storage.
	loaded bool
}

// Option configures a Store.
type Option func(*Store)

// WithBlobReleaser releases blob: sources when their sound is removed.
func WithBlobReleaser(b BlobReleaser) Option {
	return func(s *Store) { s.blobs = b }
}

// WithIDGenerator overrides domain.NewID. Used by tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// NewStore creates a store over kv with the given builtin set.
// The collection holds only the builtins until Load is called.
func NewStore(kv KVStore, builtins []domain.Sound, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		builtins: append([]domain.Sound(nil), builtins...),
		builtin:  make(map[string]bool, len(builtins)),
		newID:    domain.NewID,
	}
	for _, b := range builtins {
		s.builtin[b.ID] = true
	}
	s.sounds = append([]domain.Sound(nil), s.builtins...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted subset and rebuilds the collection as builtins
// followed by persisted sounds. Absent or malformed data counts as empty.
// A storage read failure leaves the current collection untouched (builtins
// only before the first successful read) and returns it together with a
// StorageUnavailableError.
func (s *Store) Load() ([]domain.Sound, error) {
	_, span := tracer.Start(context.Background(), "store.load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	persisted, err := s.readPersisted()
	if err != nil {
		recordErr(span, err)
		return s.snapshot(), err
	}
	s.sounds = s.merge(persisted)
	s.loaded = true
	span.SetAttributes(attribute.Int("sounds.persisted", len(persisted)))
	return s.snapshot(), nil
}

// Reload is Load for callers that only care about errors, such as the
// auto-refresh watcher.
func (s *Store) Reload() error {
	_, err := s.Load()
	return err
}

// Add validates c, assigns a fresh id, appends it and persists the user
// subset. If the write fails the sound is kept in memory and returned along
// with a StorageUnavailableError.
func (s *Store) Add(c domain.Candidate) (domain.Sound, error) {
	_, span := tracer.Start(context.Background(), "store.add")
	defer span.End()

	if err := c.Validate(); err != nil {
		recordErr(span, err)
		return domain.Sound{}, err
	}
	c = c.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for s.hasID(id) {
		id = s.newID()
	}
	sound := domain.Sound{ID: id, Name: c.Name, Src: c.Src, Category: c.Category}
	s.sounds = append(s.sounds, sound)
	span.SetAttributes(attribute.String("sound.id", id), attribute.String("sound.category", sound.Category))

	log.Info(log.CatStore, "Sound added", "id", id, "name", sound.Name, "kind", domain.KindOf(sound.Src).String())

	if err := s.writePersisted(); err != nil {
		recordErr(span, err)
		return sound, err
	}
	return sound, nil
}

// Remove deletes the user sound with the given id. Builtins and unknown ids
// are left alone without touching storage, reported by a false result.
func (s *Store) Remove(id string) (bool, error) {
	_, span := tracer.Start(context.Background(), "store.remove",
		trace.WithAttributes(attribute.String("sound.id", id)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.builtin[id] {
		log.Debug(log.CatStore, "Refusing to remove builtin", "id", id)
		return false, nil
	}

	idx := -1
	for i, snd := range s.sounds {
		if snd.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	removed := s.sounds[idx]
	s.sounds = append(s.sounds[:idx:idx], s.sounds[idx+1:]...)

	if s.blobs != nil && domain.KindOf(removed.Src) == domain.SourceBlob {
		s.blobs.Release(removed.Src)
	}

	log.Info(log.CatStore, "Sound removed", "id", id, "name", removed.Name)

	if err := s.writePersisted(); err != nil {
		recordErr(span, err)
		return true, err
	}
	return true, nil
}

// Sounds returns a copy of the working collection.
func (s *Store) Sounds() []domain.Sound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Persisted returns a copy of the user-added subset, in collection order.
func (s *Store) Persisted() []domain.Sound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userSounds()
}

// Get looks up a sound by id.
func (s *Store) Get(id string) (domain.Sound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snd := range s.sounds {
		if snd.ID == id {
			return snd, true
		}
	}
	return domain.Sound{}, false
}

// IsBuiltIn reports whether id belongs to the builtin set.
func (s *Store) IsBuiltIn(id string) bool {
	return s.builtin[id]
}

func (s *Store) readPersisted() ([]domain.Sound, error) {
	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to read persisted sounds", err)
		return nil, &domain.StorageUnavailableError{Op: "read", Err: err}
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var persisted []domain.Sound
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		log.Warn(log.CatStore, "Ignoring malformed persisted sounds", "error", err)
		return nil, nil
	}
	return persisted, nil
}

// merge builds builtins ++ persisted, dropping persisted entries that are
// incomplete or whose id collides with one already present.
func (s *Store) merge(persisted []domain.Sound) []domain.Sound {
	merged := make([]domain.Sound, 0, len(s.builtins)+len(persisted))
	merged = append(merged, s.builtins...)
	seen := make(map[string]bool, cap(merged))
	for id := range s.builtin {
		seen[id] = true
	}
	for _, p := range persisted {
		if p.ID == "" || p.Name == "" || p.Src == "" || seen[p.ID] {
			log.Warn(log.CatStore, "Skipping invalid persisted sound", "id", p.ID, "name", p.Name)
			continue
		}
		seen[p.ID] = true
		merged = append(merged, p)
	}
	return merged
}

// reconcile folds the stored subset into the collection while no read has
// succeeded yet, so the first write never replaces sounds it has not seen.
func (s *Store) reconcile() error {
	if s.loaded {
		return nil
	}
	persisted, err := s.readPersisted()
	if err != nil {
		return err
	}

	stored := make(map[string]bool, len(persisted))
	for _, p := range persisted {
		stored[p.ID] = true
	}
	combined := persisted
	for _, u := range s.userSounds() {
		if !stored[u.ID] {
			combined = append(combined, u)
		}
	}
	s.sounds = s.merge(combined)
	s.loaded = true
	log.Debug(log.CatStore, "Reconciled with stored sounds", "stored", len(persisted))
	return nil
}

// writePersisted stores the user subset. Until storage has been read once
// the write is skipped and the change stays session-only.
func (s *Store) writePersisted() error {
	if err := s.reconcile(); err != nil {
		log.Warn(log.CatStore, "Storage not readable, keeping change in memory only")
		return err
	}
	data, err := json.Marshal(s.userSounds())
	if err != nil {
		return &domain.StorageUnavailableError{Op: "write", Err: err}
	}
	if err := s.kv.Set(StorageKey, string(data)); err != nil {
		log.ErrorErr(log.CatStore, "Failed to persist sounds, continuing in memory", err)
		return &domain.StorageUnavailableError{Op: "write", Err: err}
	}
	return nil
}

func (s *Store) userSounds() []domain.Sound {
	user := make([]domain.Sound, 0, len(s.sounds))
	for _, snd := range s.sounds {
		if !s.builtin[snd.ID] {
			user = append(user, snd)
		}
	}
	return user
}

func (s *Store) hasID(id string) bool {
	for _, snd := range s.sounds {
		if snd.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) snapshot() []domain.Sound {
	return append([]domain.Sound(nil), s.sounds...)
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
