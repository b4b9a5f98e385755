package playback

import (
	"context"
	"sync"
	"time"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

type fakeOutput struct {
	mu       sync.Mutex
	plays    int
	stops    int
	volume   float64
	onEnded  func()
	closed   bool
	playErr  error
	duration time.Duration
}

func (o *fakeOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.playErr != nil {
		return o.playErr
	}
	o.plays++
	return nil
}

func (o *fakeOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stops++
}

func (o *fakeOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = v
}

func (o *fakeOutput) Duration() time.Duration { return o.duration }

func (o *fakeOutput) OnEnded(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onEnded = fn
}

func (o *fakeOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

// endedCallback returns the callback registered for the current play.
func (o *fakeOutput) endedCallback() func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.onEnded
}

func (o *fakeOutput) counts() (plays, stops int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.plays, o.stops
}

func (o *fakeOutput) gain() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

func (o *fakeOutput) isClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

type fakeBackend struct {
	mu    sync.Mutex
	opens int
	out   *fakeOutput
	err   error
	// gate, when set, blocks Open until it is closed or ctx is done.
	gate chan struct{}
}

func (b *fakeBackend) Open(ctx context.Context, _ string) (Output, error) {
	b.mu.Lock()
	b.opens++
	gate := b.gate
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	return b.out, nil
}

func (b *fakeBackend) openCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

func (b *fakeBackend) setErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listen(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) all() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func (l *eventLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
