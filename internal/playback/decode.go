package playback

import (
	"bytes"
	"errors"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is passed to beep.Resample.
const resampleQuality = 4

// ErrUnsupportedFormat is returned for data that is neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// readSeekNopCloser lets the MP3 decoder seek over in-memory data.
type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// decode sniffs data and returns a decoded stream.
func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	switch {
	case isWAV(data):
		return wav.Decode(bytes.NewReader(data))
	case isMP3(data):
		return mp3.Decode(readSeekNopCloser{bytes.NewReader(data)})
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func isMP3(data []byte) bool {
	if len(data) >= 3 && string(data[:3]) == "ID3" {
		return true
	}
	// MPEG frame sync: 11 set bits.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

// decodeBuffer decodes data fully into a buffer at the given rate.
func decodeBuffer(data []byte, rate beep.SampleRate) (*beep.Buffer, error) {
	streamer, format, err := decode(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("no audio samples")
	}
	return buf, nil
}
