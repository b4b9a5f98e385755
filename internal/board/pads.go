package board

import (
	"sync"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/playback"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// Pads owns one playback Controller per sound on the board and the shared
// broadcast volume.
type Pads struct {
	backend  playback.Backend
	listener playback.Listener

	mu     sync.Mutex
	volume float64
	pads   map[string]*playback.Controller
}

// NewPads creates an empty registry. listener receives every controller's events.
func NewPads(backend playback.Backend, listener playback.Listener, volume float64) *Pads {
	return &Pads{
		backend:  backend,
		listener: listener,
		volume:   playback.Clamp(volume),
		pads:     make(map[string]*playback.Controller),
	}
}

// Controller returns the controller for s, creating it at the current
// broadcast volume. A sound whose src changed under the same id gets a
// fresh controller.
func (p *Pads) Controller(s domain.Sound) *playback.Controller {
	p.mu.Lock()
	old, ok := p.pads[s.ID]
	if ok && old.Sound().Src == s.Src {
		p.mu.Unlock()
		return old
	}
	c := playback.NewController(s, p.backend,
		playback.WithListener(p.listener),
		playback.WithVolume(p.volume),
	)
	p.pads[s.ID] = c
	p.mu.Unlock()

	if ok {
		closeAll(old)
	}
	return c
}

// Lookup returns the controller for id without creating one.
func (p *Pads) Lookup(id string) (*playback.Controller, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.pads[id]
	return c, ok
}

// BroadcastVolume sets the volume of every live controller and of
// controllers created later. v is clamped to [0,1].
func (p *Pads) BroadcastVolume(v float64) float64 {
	v = playback.Clamp(v)
	p.mu.Lock()
	p.volume = v
	live := p.snapshotLocked()
	p.mu.Unlock()

	for _, c := range live {
		c.SetVolume(v)
	}
	log.Debug(log.CatAudio, "Broadcast volume", "volume", v, "pads", len(live))
	return v
}

// Volume returns the broadcast volume.
func (p *Pads) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Sync tears down controllers whose sounds are no longer visible.
func (p *Pads) Sync(visible []domain.Sound) {
	keep := make(map[string]string, len(visible))
	for _, s := range visible {
		keep[s.ID] = s.Src
	}

	p.mu.Lock()
	var gone []*playback.Controller
	for id, c := range p.pads {
		if src, ok := keep[id]; !ok || src != c.Sound().Src {
			delete(p.pads, id)
			gone = append(gone, c)
		}
	}
	p.mu.Unlock()

	closeAll(gone...)
}

// Release tears down the controller for id, if any.
func (p *Pads) Release(id string) {
	p.mu.Lock()
	c, ok := p.pads[id]
	delete(p.pads, id)
	p.mu.Unlock()

	if ok {
		closeAll(c)
	}
}

// StopAll stops every playing pad.
func (p *Pads) StopAll() {
	p.mu.Lock()
	live := p.snapshotLocked()
	p.mu.Unlock()

	for _, c := range live {
		c.Stop()
	}
}

// Playing returns the ids of playing pads.
func (p *Pads) Playing() map[string]bool {
	p.mu.Lock()
	live := p.snapshotLocked()
	p.mu.Unlock()

	playing := make(map[string]bool)
	for _, c := range live {
		if c.IsPlaying() {
			playing[c.Sound().ID] = true
		}
	}
	return playing
}

// Len returns the number of live controllers.
func (p *Pads) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pads)
}

// Close tears down every controller.
func (p *Pads) Close() {
	p.mu.Lock()
	live := p.snapshotLocked()
	p.pads = make(map[string]*playback.Controller)
	p.mu.Unlock()

	closeAll(live...)
}

// closeAll closes controllers outside the registry lock: Close waits for
// in-flight loads, whose listeners may call back into Pads.
func closeAll(cs ...*playback.Controller) {
	for _, c := range cs {
		if err := c.Close(); err != nil {
			log.ErrorErr(log.CatAudio, "Failed to close pad", err, "sound", c.Sound().ID)
		}
	}
}

func (p *Pads) snapshotLocked() []*playback.Controller {
	live := make([]*playback.Controller, 0, len(p.pads))
	for _, c := range p.pads {
		live = append(live, c)
	}
	return live
}
