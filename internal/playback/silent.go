package playback

import (
	"context"
	"sync"
	"time"

	"github.com/zjrosen/soundboard/internal/log"
)

// SilentBackend stands in when no audio device is available. Clips are
// decoded to learn their length and "play" for that long without output.
type SilentBackend struct {
	resolver *Resolver
}

// NewSilentBackend creates a silent backend.
func NewSilentBackend(resolver *Resolver) *SilentBackend {
	log.Warn(log.CatAudio, "No audio device; playback is silent")
	return &SilentBackend{resolver: resolver}
}

// Open fetches and decodes src.
func (b *SilentBackend) Open(ctx context.Context, src string) (Output, error) {
	data, err := b.resolver.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	streamer, format, err := decode(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()
	return &silentOutput{duration: format.SampleRate.D(streamer.Len())}, nil
}

type silentOutput struct {
	duration time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	onEnded func()
	gen     uint64
	closed  bool
}

func (o *silentOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.stopLocked()
	o.gen++
	g := o.gen
	o.timer = time.AfterFunc(o.duration, func() { o.ended(g) })
	return nil
}

func (o *silentOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
}

func (o *silentOutput) stopLocked() {
	if o.timer == nil {
		return
	}
	o.gen++
	o.timer.Stop()
	o.timer = nil
}

func (o *silentOutput) SetVolume(float64) {}

func (o *silentOutput) Duration() time.Duration { return o.duration }

func (o *silentOutput) OnEnded(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onEnded = fn
}

func (o *silentOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	o.closed = true
	o.onEnded = nil
	return nil
}

func (o *silentOutput) ended(g uint64) {
	o.mu.Lock()
	if g != o.gen || o.closed {
		o.mu.Unlock()
		return
	}
	o.timer = nil
	fn := o.onEnded
	o.mu.Unlock()

	if fn != nil {
		fn()
	}
}
