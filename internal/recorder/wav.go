package recorder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedBitDepth is returned for PCM that is not 16-bit.
var ErrUnsupportedBitDepth = errors.New("only 16-bit PCM is supported")

// EncodeWAV wraps little-endian 16-bit PCM in a WAV container.
func EncodeWAV(pcm []byte, f Format) ([]byte, error) {
	if f.BitDepth != 16 {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBitDepth, f.BitDepth)
	}

	out := &writeSeeker{}
	enc := wav.NewEncoder(out, f.SampleRate, f.BitDepth, f.Channels, 1)
	buf := &audio.IntBuffer{
		Data:           pcm16ToInts(pcm),
		Format:         &audio.Format{SampleRate: f.SampleRate, NumChannels: f.Channels},
		SourceBitDepth: f.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("writing WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalizing WAV: %w", err)
	}
	return out.buf, nil
}

func pcm16ToInts(pcm []byte) []int {
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}
	return samples
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back
// to patch chunk sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(w.pos)
	case io.SeekEnd:
		base = int64(len(w.buf))
	default:
		return 0, errors.New("invalid whence")
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(next)
	return next, nil
}
