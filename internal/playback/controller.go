package playback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// DefaultVolume is the initial volume of a new Controller.
const DefaultVolume = 1.0

// Controller drives playback of one sound. The output handle is opened
// lazily on the first Toggle and reused for later plays.
type Controller struct {
	sound    domain.Sound
	backend  Backend
	listener Listener

	mu       sync.Mutex
	state    State
	volume   float64
	out      Output
	duration time.Duration
	loading  bool
	wantPlay bool
	cancel   context.CancelFunc
	gen      uint64
	closed   bool
	wg       sync.WaitGroup
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithListener sets the event listener.
func WithListener(l Listener) ControllerOption {
	return func(c *Controller) { c.listener = l }
}

// WithVolume sets the initial volume.
func WithVolume(v float64) ControllerOption {
	return func(c *Controller) { c.volume = Clamp(v) }
}

// NewController creates an idle controller for s.
func NewController(s domain.Sound, backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		sound:   s,
		backend: backend,
		volume:  DefaultVolume,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Sound returns the bound sound.
func (c *Controller) Sound() domain.Sound {
	return c.sound
}

// Toggle starts playback from the beginning when idle and stops it when
// playing. The first start loads the clip asynchronously; toggling again
// before the load completes cancels the queued start, so Playing is never
// reported. Once the clip is loaded a double toggle from Idle always passes
// through Playing before returning to Idle.
func (c *Controller) Toggle() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	var ev *Event
	switch {
	case c.state == Playing:
		ev = c.stopLocked()
	case c.loading:
		c.wantPlay = !c.wantPlay
		log.Debug(log.CatAudio, "Toggled queued start", "sound", c.sound.ID, "start", c.wantPlay)
	case c.out != nil:
		ev = c.startLocked()
	default:
		c.loadLocked()
	}
	c.mu.Unlock()

	c.notify(ev)
}

// Stop halts playback. It also drops a start queued behind a load.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.wantPlay = false
	var ev *Event
	if c.state == Playing && !c.closed {
		ev = c.stopLocked()
	}
	c.mu.Unlock()

	c.notify(ev)
}

// SetVolume clamps v to [0,1] and applies it to the live handle, if any.
func (c *Controller) SetVolume(v float64) {
	v = Clamp(v)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
	if c.out != nil && !c.closed {
		c.out.SetVolume(v)
	}
}

// Volume returns the current volume.
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsPlaying reports whether the controller is Playing.
func (c *Controller) IsPlaying() bool {
	return c.State() == Playing
}

// Loading reports whether a load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Duration returns the clip length, or zero before the first load.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Close tears the controller down: it cancels an in-flight load, stops and
// releases the handle, and waits for the load goroutine. Later calls and
// callbacks are ignored.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.wantPlay = false
	if c.cancel != nil {
		c.cancel()
	}
	var err error
	if c.out != nil {
		c.out.Stop()
		err = c.out.Close()
		c.out = nil
	}
	c.state = Idle
	c.gen++
	c.mu.Unlock()

	c.wg.Wait()
	return err
}

func (c *Controller) loadLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	c.loading = true
	c.wantPlay = true
	c.cancel = cancel

	c.wg.Add(1)
	log.SafeGo("playback.load", func() {
		defer c.wg.Done()
		defer cancel()
		c.load(ctx)
	})
}

func (c *Controller) load(ctx context.Context) {
	log.Debug(log.CatAudio, "Loading sound", "sound", c.sound.ID, "src", c.sound.Src)
	out, err := c.backend.Open(ctx, c.sound.Src)

	c.mu.Lock()
	c.loading = false
	c.cancel = nil
	if c.closed {
		c.mu.Unlock()
		if out != nil {
			_ = out.Close()
		}
		return
	}
	if err != nil {
		c.wantPlay = false
		c.mu.Unlock()
		log.ErrorErr(log.CatAudio, "Failed to load sound", err, "sound", c.sound.ID)
		c.notify(&Event{SoundID: c.sound.ID, State: Idle, Err: asLoadError(c.sound.Src, err)})
		return
	}

	c.out = out
	c.duration = out.Duration()
	out.SetVolume(c.volume)

	ev := &Event{SoundID: c.sound.ID, State: c.state, Duration: c.duration}
	if c.wantPlay {
		c.wantPlay = false
		ev = c.startLocked()
	}
	c.mu.Unlock()

	c.notify(ev)
}

func (c *Controller) startLocked() *Event {
	c.gen++
	g := c.gen
	c.out.SetVolume(c.volume)
	c.out.OnEnded(func() { c.ended(g) })
	if err := c.out.Play(); err != nil {
		log.ErrorErr(log.CatAudio, "Failed to start playback", err, "sound", c.sound.ID)
		return &Event{SoundID: c.sound.ID, State: Idle, Duration: c.duration, Err: asLoadError(c.sound.Src, err)}
	}
	c.state = Playing
	log.Debug(log.CatAudio, "Playing", "sound", c.sound.ID)
	return &Event{SoundID: c.sound.ID, State: Playing, Duration: c.duration}
}

func (c *Controller) stopLocked() *Event {
	c.gen++
	c.out.Stop()
	c.state = Idle
	log.Debug(log.CatAudio, "Stopped", "sound", c.sound.ID)
	return &Event{SoundID: c.sound.ID, State: Idle, Duration: c.duration}
}

// ended handles a natural end reported for play generation g.
func (c *Controller) ended(g uint64) {
	c.mu.Lock()
	if c.closed || g != c.gen || c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.state = Idle
	ev := &Event{SoundID: c.sound.ID, State: Idle, Duration: c.duration}
	c.mu.Unlock()

	log.Debug(log.CatAudio, "Playback ended", "sound", c.sound.ID)
	c.notify(ev)
}

func (c *Controller) notify(ev *Event) {
	if ev == nil || c.listener == nil {
		return
	}
	c.listener(*ev)
}

func asLoadError(src string, err error) error {
	var le *domain.PlaybackLoadError
	if errors.As(err, &le) {
		return err
	}
	return &domain.PlaybackLoadError{Src: src, Err: err}
}
