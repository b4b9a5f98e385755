// Package recorder captures microphone audio into WAV blobs that become new
// sounds. The Controller state machine is Idle -> Recording -> Idle.
package recorder

// Format describes captured PCM.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// BytesPerSecond is the PCM data rate of f.
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.Channels * f.BitDepth / 8
}

// Capture is one open capture stream.
type Capture interface {
	// Start begins delivering little-endian PCM chunks. onChunk may be
	// called on a device thread; the slice is only valid during the call.
	Start(onChunk func([]byte)) error
	// Stop halts capture and releases the device. It returns once no
	// further onChunk calls will be made.
	Stop() error
	Format() Format
}

// Device opens capture streams.
type Device interface {
	Open() (Capture, error)
}

// BlobSink stores encoded recordings and returns a src reference.
type BlobSink interface {
	Put(data []byte, mime string) string
}
