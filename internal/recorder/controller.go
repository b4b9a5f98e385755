package recorder

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// MIMEType is the MIME type of encoded recordings.
const MIMEType = "audio/wav"

var (
	// ErrAlreadyRecording is returned by Start while a recording is active.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording is returned by Stop when no recording is active.
	ErrNotRecording = errors.New("not recording")
)

// State is the recorder state.
type State int

// Recorder states.
const (
	Idle State = iota
	Recording
)

// String returns the state name.
func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Controller records one clip at a time.
type Controller struct {
	device      Device
	blobs       BlobSink
	maxDuration time.Duration
	now         func() time.Time

	mu        sync.Mutex
	state     State
	label     string
	capture   Capture
	format    Format
	buf       []byte
	maxBytes  int
	truncated bool
	started   time.Time
	session   uint64
	releasing chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithMaxDuration caps the length of a recording. Audio past the cap is dropped.
func WithMaxDuration(d time.Duration) Option {
	return func(c *Controller) { c.maxDuration = d }
}

// WithClock overrides time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates an idle recorder.
func NewController(device Device, blobs BlobSink, opts ...Option) *Controller {
	c := &Controller{
		device: device,
		blobs:  blobs,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens the device and begins buffering audio under label. A capture
// still being released by Stop or Cancel is waited for first.
func (c *Controller) Start(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return &domain.ValidationError{Field: "name"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.awaitRelease()
	if c.state == Recording {
		return ErrAlreadyRecording
	}

	capture, err := c.device.Open()
	if err != nil {
		log.ErrorErr(log.CatRecord, "Failed to open capture device", err)
		return asDeviceError(err)
	}

	c.session++
	session := c.session
	c.buf = c.buf[:0]
	c.truncated = false

	// Chunks may arrive before Start returns, so state is set first. They
	// wait on c.mu until the format below is known.
	c.state = Recording
	c.label = label
	c.capture = capture
	c.started = c.now()

	if err := capture.Start(func(p []byte) { c.append(session, p) }); err != nil {
		c.state = Idle
		c.label = ""
		c.capture = nil
		c.session++
		if serr := capture.Stop(); serr != nil {
			log.ErrorErr(log.CatRecord, "Failed to release capture", serr)
		}
		log.ErrorErr(log.CatRecord, "Failed to start capture", err)
		return asDeviceError(err)
	}

	// The device reports the rate it actually opened at only once started.
	c.format = capture.Format()
	c.maxBytes = 0
	if c.maxDuration > 0 {
		c.maxBytes = int(c.maxDuration.Seconds() * float64(c.format.BytesPerSecond()))
	}

	log.Info(log.CatRecord, "Recording started", "label", label, "rate", c.format.SampleRate, "channels", c.format.Channels)
	return nil
}

// Stop ends the recording, encodes it as WAV into the blob store and
// returns the candidate sound. The device is released before Stop returns.
func (c *Controller) Stop() (domain.Candidate, error) {
	c.mu.Lock()
	if c.state != Recording {
		c.mu.Unlock()
		return domain.Candidate{}, ErrNotRecording
	}
	capture, label, format := c.capture, c.label, c.format
	pcm := c.buf
	c.reset()
	done := c.beginRelease()
	c.mu.Unlock()

	c.release(capture, done)

	if len(pcm) == 0 {
		return domain.Candidate{}, &domain.ValidationError{Field: "audio"}
	}

	data, err := EncodeWAV(pcm, format)
	if err != nil {
		return domain.Candidate{}, err
	}
	ref := c.blobs.Put(data, MIMEType)
	log.Info(log.CatRecord, "Recording stopped", "label", label, "bytes", len(data), "ref", ref)

	return domain.Candidate{Name: label, Src: ref, Category: domain.CategoryRecorded}, nil
}

// Cancel ends any recording and discards the buffered audio.
func (c *Controller) Cancel() {
	c.mu.Lock()
	if c.state != Recording {
		c.mu.Unlock()
		return
	}
	capture := c.capture
	c.reset()
	done := c.beginRelease()
	c.mu.Unlock()

	c.release(capture, done)
	log.Debug(log.CatRecord, "Recording cancelled")
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Label returns the active recording's label, or "" when idle.
func (c *Controller) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Elapsed returns how long the active recording has run.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Recording {
		return 0
	}
	return c.now().Sub(c.started)
}

// Truncated reports whether the active recording hit the duration cap.
func (c *Controller) Truncated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.truncated
}

// reset returns to Idle. The buffer is handed off, not reused.
func (c *Controller) reset() {
	c.session++
	c.state = Idle
	c.label = ""
	c.capture = nil
	c.buf = nil
	c.truncated = false
}

// beginRelease marks a capture as being torn down. Must hold c.mu.
func (c *Controller) beginRelease() chan struct{} {
	done := make(chan struct{})
	c.releasing = done
	return done
}

// release stops capture outside the lock, since the device may be blocked
// delivering a chunk, then lets a waiting Start proceed.
func (c *Controller) release(capture Capture, done chan struct{}) {
	if err := capture.Stop(); err != nil {
		log.ErrorErr(log.CatRecord, "Failed to stop capture", err)
	}
	c.mu.Lock()
	if c.releasing == done {
		c.releasing = nil
	}
	c.mu.Unlock()
	close(done)
}

// awaitRelease blocks until no previous capture is still being stopped, so
// the device is never opened twice. Must hold c.mu; it is dropped while
// waiting.
func (c *Controller) awaitRelease() {
	for c.releasing != nil {
		done := c.releasing
		c.mu.Unlock()
		log.Debug(log.CatRecord, "Waiting for previous capture to be released")
		<-done
		c.mu.Lock()
	}
}

func (c *Controller) append(session uint64, p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if session != c.session || c.state != Recording {
		return
	}
	if c.maxBytes > 0 && len(c.buf)+len(p) > c.maxBytes {
		if !c.truncated {
			log.Warn(log.CatRecord, "Recording reached maximum duration", "max", c.maxDuration)
		}
		c.truncated = true
		p = p[:max(0, c.maxBytes-len(c.buf))]
	}
	c.buf = append(c.buf, p...)
}

func asDeviceError(err error) error {
	var de *domain.DeviceUnavailableError
	if errors.As(err, &de) {
		return err
	}
	return &domain.DeviceUnavailableError{Err: err}
}
