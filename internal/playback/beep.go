package playback

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/zjrosen/soundboard/internal/log"
)

// Speaker defaults.
const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 100 * time.Millisecond
)

// ErrClosed is returned by Play on a closed Output.
var ErrClosed = errors.New("output closed")

// speakerOnce guards speaker.Init, which may run only once per process.
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// BeepConfig configures the speaker.
type BeepConfig struct {
	SampleRate int
	Buffer     time.Duration
}

// BeepBackend plays through the system speaker. All pads share the
// speaker's mixer, so overlapping pads play simultaneously.
type BeepBackend struct {
	resolver *Resolver
	rate     beep.SampleRate
}

// NewBeepBackend initializes the speaker. It fails when no output device is
// available; callers fall back to a SilentBackend.
func NewBeepBackend(resolver *Resolver, cfg BeepConfig) (*BeepBackend, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultBuffer
	}

	speakerOnce.Do(func() {
		speakerRate = beep.SampleRate(cfg.SampleRate)
		speakerErr = speaker.Init(speakerRate, speakerRate.N(cfg.Buffer))
		if speakerErr != nil {
			log.ErrorErr(log.CatAudio, "Failed to initialize speaker", speakerErr)
			return
		}
		log.Info(log.CatAudio, "Speaker initialized", "rate", cfg.SampleRate, "buffer", cfg.Buffer)
	})
	if speakerErr != nil {
		return nil, speakerErr
	}
	return &BeepBackend{resolver: resolver, rate: speakerRate}, nil
}

// Open fetches and decodes src into an in-memory buffer.
func (b *BeepBackend) Open(ctx context.Context, src string) (Output, error) {
	data, err := b.resolver.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := decodeBuffer(data, b.rate)
	if err != nil {
		return nil, err
	}
	return &beepOutput{buf: buf, rate: b.rate, volume: DefaultVolume}, nil
}

// Close stops all speaker output.
func (b *BeepBackend) Close() {
	speaker.Clear()
}

type beepOutput struct {
	buf  *beep.Buffer
	rate beep.SampleRate

	mu      sync.Mutex
	ctrl    *beep.Ctrl
	vol     *effects.Volume
	volume  float64
	onEnded func()
	gen     uint64
	closed  bool
}

func (o *beepOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	o.stopLocked()

	o.gen++
	g := o.gen
	vol := &effects.Volume{Streamer: o.buf.Streamer(0, o.buf.Len()), Base: 2}
	setGain(vol, o.volume)
	ctrl := &beep.Ctrl{Streamer: beep.Seq(vol, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker locked.
		log.SafeGo("playback.ended", func() { o.ended(g) })
	}))}
	o.ctrl, o.vol = ctrl, vol
	speaker.Play(ctrl)
	return nil
}

func (o *beepOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
}

func (o *beepOutput) stopLocked() {
	if o.ctrl == nil {
		return
	}
	o.gen++
	speaker.Lock()
	o.ctrl.Streamer = nil
	speaker.Unlock()
	o.ctrl, o.vol = nil, nil
}

func (o *beepOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = Clamp(v)
	if o.vol != nil {
		speaker.Lock()
		setGain(o.vol, o.volume)
		speaker.Unlock()
	}
}

func (o *beepOutput) Duration() time.Duration {
	return o.rate.D(o.buf.Len())
}

func (o *beepOutput) OnEnded(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onEnded = fn
}

func (o *beepOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopLocked()
	o.closed = true
	o.onEnded = nil
	return nil
}

func (o *beepOutput) ended(g uint64) {
	o.mu.Lock()
	if g != o.gen || o.closed {
		o.mu.Unlock()
		return
	}
	o.ctrl, o.vol = nil, nil
	fn := o.onEnded
	o.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// setGain maps linear volume in [0,1] onto effects.Volume's log2 scale.
func setGain(v *effects.Volume, linear float64) {
	if linear <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(linear)
}
