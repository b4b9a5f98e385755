// Package playback owns per-pad playback: a Controller state machine per
// sound, and the Backends that turn a sound's src into a live audio handle.
package playback

import (
	"context"
	"time"
)

// Output is one live audio-output handle for a decoded clip.
// Implementations must invoke the OnEnded callback on a goroutine other than
// the one calling Play or Stop.
type Output interface {
	// Play starts the clip from position zero, restarting it if already playing.
	Play() error
	// Stop halts output immediately. A stopped play never reports an end.
	Stop()
	// SetVolume sets linear gain in [0,1].
	SetVolume(v float64)
	// Duration is the clip length.
	Duration() time.Duration
	// OnEnded registers the natural-end callback for subsequent plays.
	OnEnded(fn func())
	// Close releases the handle.
	Close() error
}

// Backend opens Outputs for sources.
type Backend interface {
	Open(ctx context.Context, src string) (Output, error)
}

// State is a Controller's playback state.
type State int

// Controller states. There is no paused state.
const (
	Idle State = iota
	Playing
)

// String returns the state name.
func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Event reports a Controller state change or load result.
type Event struct {
	SoundID  string
	State    State
	Duration time.Duration // zero until the clip has been loaded
	Err      error
}

// Listener receives Controller events. It is never called with a
// Controller lock held.
type Listener func(Event)
