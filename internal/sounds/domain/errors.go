package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind. Typed errors below match them with errors.Is.
var (
	// ErrValidation indicates a required field was missing.
	ErrValidation = errors.New("missing required field")

	// ErrDeviceUnavailable indicates the microphone could not be opened.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrStorageUnavailable indicates persistence failed; state is session-only.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrPlaybackLoad indicates a source could not be fetched or decoded.
	ErrPlaybackLoad = errors.New("playback load failure")
)

// ValidationError reports the first missing required field.
type ValidationError struct {
	Field string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DeviceUnavailableError wraps the reason a capture device could not be opened.
type DeviceUnavailableError struct {
	Device string
	Err    error
}

// Error implements the error interface.
func (e *DeviceUnavailableError) Error() string {
	name := e.Device
	if name == "" {
		name = "default"
	}
	if e.Err == nil {
		return fmt.Sprintf("device unavailable: %s", name)
	}
	return fmt.Sprintf("device unavailable: %s: %v", name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeviceUnavailableError) Unwrap() error { return e.Err }

// Is matches ErrDeviceUnavailable.
func (e *DeviceUnavailableError) Is(target error) bool {
	return target == ErrDeviceUnavailable
}

// StorageUnavailableError wraps a persistence read or write failure.
type StorageUnavailableError struct {
	Op  string // "read" or "write"
	Err error
}

// Error implements the error interface.
func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable (%s): %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageUnavailableError) Unwrap() error { return e.Err }

// Is matches ErrStorageUnavailable.
func (e *StorageUnavailableError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// PlaybackLoadError reports a source that could not be fetched or decoded.
type PlaybackLoadError struct {
	Src string
	Err error
}

// Error implements the error interface.
func (e *PlaybackLoadError) Error() string {
	return fmt.Sprintf("could not load %q: %v", e.Src, e.Err)
}

// Unwrap returns the underlying cause.
func (e *PlaybackLoadError) Unwrap() error { return e.Err }

// Is matches ErrPlaybackLoad.
func (e *PlaybackLoadError) Is(target error) bool {
	return target == ErrPlaybackLoad
}
