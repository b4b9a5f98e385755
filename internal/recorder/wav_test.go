package recorder

import (
	"bytes"
	"io"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		pcm    []byte
		want   []int
	}{
		{
			name:   "mono",
			format: Format{SampleRate: 22050, Channels: 1, BitDepth: 16},
			pcm:    []byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x80},
			want:   []int{1, -1, -32768},
		},
		{
			name:   "stereo",
			format: Format{SampleRate: 44100, Channels: 2, BitDepth: 16},
			pcm:    []byte{0x10, 0x00, 0x20, 0x00},
			want:   []int{16, 32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeWAV(tt.pcm, tt.format)
			require.NoError(t, err)
			require.Equal(t, "RIFF", string(data[:4]))

			dec := wav.NewDecoder(bytes.NewReader(data))
			buf, err := dec.FullPCMBuffer()
			require.NoError(t, err)
			require.Equal(t, tt.want, buf.Data)
			require.Equal(t, tt.format.SampleRate, int(dec.SampleRate))
			require.Equal(t, tt.format.Channels, int(dec.NumChans))
			require.Equal(t, 16, int(dec.BitDepth))
		})
	}
}

func TestEncodeWAV_RejectsBitDepth(t *testing.T) {
	_, err := EncodeWAV([]byte{0, 0}, Format{SampleRate: 8000, Channels: 1, BitDepth: 24})
	require.ErrorIs(t, err, ErrUnsupportedBitDepth)
}

func TestWriteSeeker(t *testing.T) {
	w := &writeSeeker{}
	_, err := w.Write([]byte("hello world"))
	require.NoError(t, err)

	pos, err := w.Seek(0, io.SeekStart)
	require.NoError(t, err)
	require.Zero(t, pos)
	_, err = w.Write([]byte("HELLO"))
	require.NoError(t, err)

	pos, err = w.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	require.EqualValues(t, 11, pos)
	require.Equal(t, "HELLO world", string(w.buf))

	_, err = w.Seek(-20, io.SeekCurrent)
	require.Error(t, err)
}

func TestFormat_BytesPerSecond(t *testing.T) {
	require.Equal(t, 88200, Format{SampleRate: 44100, Channels: 1, BitDepth: 16}.BytesPerSecond())
}
