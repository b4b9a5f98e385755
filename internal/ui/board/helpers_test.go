package board

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	vm "github.com/zjrosen/soundboard/internal/board"
	"github.com/zjrosen/soundboard/internal/playback"
	"github.com/zjrosen/soundboard/internal/recorder"
	"github.com/zjrosen/soundboard/internal/sound"
	"github.com/zjrosen/soundboard/internal/sounds/application"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// stubOutput plays nothing; Play succeeds and the clip never ends on its own.
type stubOutput struct{}

func (stubOutput) Play() error { return nil }
func (stubOutput) Stop() {}
func (stubOutput) SetVolume(float64) {}
func (stubOutput) Duration() time.Duration { return 600 * time.Millisecond }
func (stubOutput) OnEnded(func()) {}
func (stubOutput) Close() error { return nil }

type stubBackend struct{}

func (stubBackend) Open(context.Context, string) (playback.Output, error) {
	return stubOutput{}, nil
}

type fakeRecorder struct {
	mu        sync.Mutex
	startErr  error
	stopErr   error
	state     recorder.State
	label     string
	truncated bool
	cancelled bool
}

func (r *fakeRecorder) Start(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return &domain.ValidationError{Field: "name"}
	}
	r.state = recorder.Recording
	r.label = label
	return nil
}

func (r *fakeRecorder) Stop() (domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != recorder.Recording {
		return domain.Candidate{}, recorder.ErrNotRecording
	}
	r.state = recorder.Idle
	if r.stopErr != nil {
		return domain.Candidate{}, r.stopErr
	}
	return domain.Candidate{Name: r.label, Src: "blob:take", Category: domain.CategoryRecorded}, nil
}

func (r *fakeRecorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = recorder.Idle
	r.cancelled = true
}

func (r *fakeRecorder) State() recorder.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *fakeRecorder) Label() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.label
}

func (r *fakeRecorder) Elapsed() time.Duration { return 1500 * time.Millisecond }

func (r *fakeRecorder) Truncated() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.truncated
}

type fakeClipboard struct {
	copied []string
	err    error
}

func (c *fakeClipboard) Copy(text string) error {
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

type fixture struct {
	store *application.Store
	pads  *vm.Pads
	inbox *Inbox
	rec   *fakeRecorder
	clip  *fakeClipboard
}

// newFixture builds a store holding the builtins followed by extra user sounds.
func newFixture(t *testing.T, extra ...domain.Candidate) *fixture {
	t.Helper()
	store := application.NewStore(&memKV{data: make(map[string]string)}, sound.MustBuiltins())
	for _, c := range extra {
		if _, err := store.Add(c); err != nil {
			t.Fatalf("adding %q: %v", c.Name, err)
		}
	}

	inbox := NewInbox()
	f := &fixture{
		store: store,
		pads:  vm.NewPads(stubBackend{}, inbox.PlaybackListener(), 1),
		inbox: inbox,
		rec:   &fakeRecorder{},
		clip:  &fakeClipboard{},
	}
	t.Cleanup(func() {
		f.pads.Close()
		f.inbox.Close()
	})
	return f
}

func (f *fixture) config() Config {
	return Config{
		Store:         f.store,
		Pads:          f.pads,
		Inbox:         f.inbox,
		Recorder:      f.rec,
		Clipboard:     f.clip,
		Columns:       4,
		ShowDurations: true,
	}
}

func (f *fixture) model(t *testing.T) Model {
	t.Helper()
	m := New(f.config()).SetSize(100, 30)
	t.Cleanup(m.Close)
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = update(m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
