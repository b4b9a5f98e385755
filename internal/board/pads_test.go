package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zjrosen/soundboard/internal/playback"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubOutput struct {
	mu     sync.Mutex
	volume float64
	closed bool
}

func (o *stubOutput) Play() error             { return nil }
func (o *stubOutput) Stop()                   {}
func (o *stubOutput) Duration() time.Duration { return time.Second }
func (o *stubOutput) OnEnded(func())          {}

func (o *stubOutput) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.volume = v
}

func (o *stubOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

func (o *stubOutput) gain() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.volume
}

type stubBackend struct {
	mu   sync.Mutex
	outs map[string]*stubOutput
}

func (b *stubBackend) Open(_ context.Context, src string) (playback.Output, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.outs == nil {
		b.outs = make(map[string]*stubOutput)
	}
	out := &stubOutput{}
	b.outs[src] = out
	return out, nil
}

func (b *stubBackend) output(src string) *stubOutput {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outs[src]
}

func newTestPads(t *testing.T, volume float64) (*Pads, *stubBackend) {
	t.Helper()
	b := &stubBackend{}
	p := NewPads(b, nil, volume)
	t.Cleanup(p.Close)
	return p, b
}

func TestPads_ControllerGetOrCreate(t *testing.T) {
	p, _ := newTestPads(t, 1)
	s := snd("1", "Meme")

	c1 := p.Controller(s)
	c2 := p.Controller(s)
	require.Same(t, c1, c2)
	require.Equal(t, 1, p.Len())

	lookup, ok := p.Lookup("1")
	require.True(t, ok)
	require.Same(t, c1, lookup)

	_, ok = p.Lookup("missing")
	require.False(t, ok)
}

func TestPads_ControllerReplacedWhenSrcChanges(t *testing.T) {
	p, _ := newTestPads(t, 1)
	s := snd("1", "Meme")
	c1 := p.Controller(s)

	s.Src = "builtin:other.wav"
	c2 := p.Controller(s)
	require.NotSame(t, c1, c2)
	require.Equal(t, 1, p.Len())
}

func TestPads_BroadcastVolume(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "in range", in: 0.3, want: 0.3},
		{name: "clamped high", in: 2, want: 1},
		{name: "clamped low", in: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, b := newTestPads(t, 1)
			s := snd("1", "Meme")
			c := p.Controller(s)
			c.Toggle()
			require.Eventually(t, c.IsPlaying, timeout, tick)

			got := p.BroadcastVolume(tt.in)
			require.InDelta(t, tt.want, got, 1e-9)
			require.InDelta(t, tt.want, p.Volume(), 1e-9)
			require.InDelta(t, tt.want, c.Volume(), 1e-9)
			require.InDelta(t, tt.want, b.output(s.Src).gain(), 1e-9)

			later := p.Controller(snd("2", "Meme"))
			require.InDelta(t, tt.want, later.Volume(), 1e-9, "new pads start at the broadcast volume")
		})
	}
}

func TestPads_SyncTearsDownHiddenPads(t *testing.T) {
	p, b := newTestPads(t, 1)
	a, c := snd("1", "Meme"), snd("2", "URL")

	ca := p.Controller(a)
	p.Controller(c)
	ca.Toggle()
	require.Eventually(t, ca.IsPlaying, timeout, tick)

	p.Sync([]domain.Sound{c})

	require.Equal(t, 1, p.Len())
	_, ok := p.Lookup("1")
	require.False(t, ok)
	require.Equal(t, playback.Idle, ca.State())
	require.True(t, b.output(a.Src).closed)
}

func TestPads_ReleaseAndStopAll(t *testing.T) {
	p, _ := newTestPads(t, 1)
	a, c := snd("1", "Meme"), snd("2", "Meme")
	ca, cc := p.Controller(a), p.Controller(c)

	ca.Toggle()
	cc.Toggle()
	require.Eventually(t, func() bool { return len(p.Playing()) == 2 }, timeout, tick)

	p.StopAll()
	require.Empty(t, p.Playing())

	p.Release("1")
	p.Release("1")
	require.Equal(t, 1, p.Len())
}

func TestPads_ListenerMayCallBack(t *testing.T) {
	b := &stubBackend{}
	var p *Pads
	var mu sync.Mutex
	var seen []playback.Event
	p = NewPads(b, func(ev playback.Event) {
		_ = p.Playing()
		mu.Lock()
		seen = append(seen, ev)
		mu.Unlock()
	}, 1)
	defer p.Close()

	c := p.Controller(snd("1", "Meme"))
	c.Toggle()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, timeout, tick)

	p.Release("1")
}
