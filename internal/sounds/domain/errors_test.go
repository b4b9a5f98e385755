package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "name missing",
			err:      &ValidationError{Field: "name"},
			expected: "missing required field: name",
		},
		{
			name:     "src missing",
			err:      &ValidationError{Field: "src"},
			expected: "missing required field: src",
		},
		{
			name:     "empty field",
			err:      &ValidationError{},
			expected: "missing required field: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDeviceUnavailableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DeviceUnavailableError
		expected string
	}{
		{
			name:     "default device with cause",
			err:      &DeviceUnavailableError{Err: errors.New("permission denied")},
			expected: "device unavailable: default: permission denied",
		},
		{
			name:     "named device without cause",
			err:      &DeviceUnavailableError{Device: "USB Mic"},
			expected: "device unavailable: USB Mic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorKinds_MatchSentinels(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", &ValidationError{Field: "name"}, ErrValidation},
		{"device", &DeviceUnavailableError{Err: cause}, ErrDeviceUnavailable},
		{"storage", &StorageUnavailableError{Op: "write", Err: cause}, ErrStorageUnavailable},
		{"playback", &PlaybackLoadError{Src: "http://x/y.mp3", Err: cause}, ErrPlaybackLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestErrorKinds_Distinct(t *testing.T) {
	v := &ValidationError{Field: "name"}
	require.NotErrorIs(t, v, ErrDeviceUnavailable)
	require.NotErrorIs(t, v, ErrStorageUnavailable)
	require.NotErrorIs(t, v, ErrPlaybackLoad)
}

func TestErrorKinds_UnwrapCause(t *testing.T) {
	cause := errors.New("disk full")
	err := &StorageUnavailableError{Op: "write", Err: cause}

	require.ErrorIs(t, err, cause)
	require.Equal(t, "storage unavailable (write): disk full", err.Error())

	var sue *StorageUnavailableError
	require.ErrorAs(t, fmt.Errorf("add: %w", err), &sue)
	require.Equal(t, "write", sue.Op)
}
