package board

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/soundboard/internal/playback"
)

// Inbox carries messages from background goroutines (playback controllers,
// the file watcher) into the program. Post never blocks, so a controller
// reporting an event can't stall behind a busy UI.
type Inbox struct {
	mu      sync.Mutex
	pending []tea.Msg

	signal    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// InboxMsg delivers everything posted since the last delivery, in order.
type InboxMsg struct {
	Msgs []tea.Msg
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Post queues msg for the next delivery.
func (in *Inbox) Post(msg tea.Msg) {
	in.mu.Lock()
	in.pending = append(in.pending, msg)
	in.mu.Unlock()

	select {
	case in.signal <- struct{}{}:
	default:
	}
}

// PlaybackListener posts every controller event as a PlaybackMsg.
func (in *Inbox) PlaybackListener() playback.Listener {
	return func(ev playback.Event) {
		in.Post(PlaybackMsg{Event: ev})
	}
}

// Wait returns a command that blocks until something is posted. After
// Close it returns nil.
func (in *Inbox) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-in.signal:
		case <-in.done:
			return nil
		}
		in.mu.Lock()
		msgs := in.pending
		in.pending = nil
		in.mu.Unlock()
		return InboxMsg{Msgs: msgs}
	}
}

// Close releases any pending Wait.
func (in *Inbox) Close() {
	in.closeOnce.Do(func() { close(in.done) })
}
