// Package watch reports changes to the sound database made by other
// processes, such as "soundboard add" in a second terminal.
package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/soundboard/internal/log"
)

// Watcher calls onChange once per burst of writes to the database file or
// its WAL/SHM companions.
type Watcher struct {
	fs       *fsnotify.Watcher
	base     string
	debounce time.Duration
	onChange func()

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New watches the directory containing dbPath. onChange runs on the
// watcher goroutine.
func New(dbPath string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(dbPath)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		fs:       fw,
		base:     filepath.Base(dbPath),
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	log.SafeGo("watch.loop", func() {
		defer w.wg.Done()
		w.loop()
	})
	log.Debug(log.CatWatch, "Watching database", "dir", dir, "debounce", debounce)
	return w, nil
}

// Close stops the watcher and waits for its goroutine.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatch, "Watcher error", err)
		case <-fire:
			fire = nil
			log.Debug(log.CatWatch, "Database changed")
			w.onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	return strings.HasPrefix(filepath.Base(ev.Name), w.base)
}
