package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjrosen/soundboard/internal/blobs"
	"github.com/zjrosen/soundboard/internal/config"
	"github.com/zjrosen/soundboard/internal/infrastructure/sqlite"
	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/paths"
	"github.com/zjrosen/soundboard/internal/playback"
	"github.com/zjrosen/soundboard/internal/recorder"
	"github.com/zjrosen/soundboard/internal/sound"
	"github.com/zjrosen/soundboard/internal/sounds/application"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// ErrSoundNotFound is returned when an id or name matches no sound.
var ErrSoundNotFound = errors.New("sound not found")

// app holds what every command needs: the store over the sound database
// and the session blob store.
type app struct {
	cfg   config.Config
	db    *sqlite.DB // nil when the database could not be opened
	blobs *blobs.Store
	store *application.Store

	// loadErr is the StorageUnavailableError from the initial load, if any.
	loadErr error
}

// openApp opens the database and loads the collection. A database that
// can't be opened leaves the store session-only rather than failing.
func openApp(c config.Config) *app {
	a := &app{cfg: c, blobs: blobs.New()}

	var kv application.KVStore
	db, err := sqlite.NewDB(paths.DBPath(c.DBPath))
	if err != nil {
		log.ErrorErr(log.CatDB, "Database unavailable, sounds will not be saved", err)
		kv = unavailableKV{err: err}
	} else {
		a.db = db
		kv = db.KVRepository()
	}

	a.store = application.NewStore(kv, sound.MustBuiltins(), application.WithBlobReleaser(a.blobs))
	_, a.loadErr = a.store.Load()
	return a
}

func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *app) resolver() *playback.Resolver {
	return playback.NewResolver(a.blobs, playback.ResolverConfig{
		FetchTimeout:  a.cfg.Audio.FetchTimeout,
		MaxFetchBytes: a.cfg.Audio.MaxFetchBytes,
	})
}

// backend returns the speaker backend, or a silent one when no output
// device is available. The returned func releases it.
func (a *app) backend() (playback.Backend, func()) {
	r := a.resolver()
	b, err := playback.NewBeepBackend(r, playback.BeepConfig{
		SampleRate: a.cfg.Audio.SampleRate,
		Buffer:     a.cfg.Audio.Buffer,
	})
	if err != nil {
		log.Warn(log.CatAudio, "No audio output, pads will play silently", "error", err)
		return playback.NewSilentBackend(r), func() {}
	}
	return b, b.Close
}

func (a *app) device() *recorder.MalgoDevice {
	return recorder.NewMalgoDevice(recorder.MalgoConfig{
		DeviceName: a.cfg.Recorder.Device,
		SampleRate: a.cfg.Recorder.SampleRate,
		Channels:   a.cfg.Recorder.Channels,
	})
}

// find looks a sound up by id, then by case-insensitive name.
func (a *app) find(ref string) (domain.Sound, error) {
	if s, ok := a.store.Get(ref); ok {
		return s, nil
	}
	for _, s := range a.store.Sounds() {
		if strings.EqualFold(s.Name, ref) {
			return s, nil
		}
	}
	return domain.Sound{}, fmt.Errorf("%w: %q", ErrSoundNotFound, ref)
}

// unavailableKV fails every call with the error that kept the database
// from opening.
type unavailableKV struct {
	err error
}

func (k unavailableKV) Get(string) (string, bool, error) { return "", false, k.err }

func (k unavailableKV) Set(string, string) error { return k.err }
