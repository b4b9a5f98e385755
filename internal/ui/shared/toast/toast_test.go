package toast

import (
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

func TestShow_VisibleUntilDismissed(t *testing.T) {
	m := New().WithDuration(time.Millisecond)
	require.False(t, m.Visible())
	require.Empty(t, m.View())

	m, cmd := m.Show("Sound added", KindSuccess)
	require.NotNil(t, cmd)
	require.True(t, m.Visible())
	require.Contains(t, ansi.Strip(m.View()), "✓ Sound added")

	msg := cmd()
	_, ok := msg.(DismissMsg)
	require.True(t, ok, "expected DismissMsg, got %T", msg)

	m = m.Update(msg)
	require.False(t, m.Visible())
}

func TestUpdate_StaleDismissIgnored(t *testing.T) {
	m := New().WithDuration(time.Millisecond)

	m, first := m.Show("first", KindInfo)
	m, _ = m.Show("second", KindError)

	m = m.Update(first())
	assert.True(t, m.Visible(), "dismissal for an older toast must not hide the newer one")
	assert.Equal(t, "second", m.Text())
	assert.Equal(t, KindError, m.Kind())
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing field", &domain.ValidationError{Field: "src"}, "Please fill in all fields"},
		{"empty recording", &domain.ValidationError{Field: "audio"}, "Nothing was recorded"},
		{"microphone", &domain.DeviceUnavailableError{Err: errors.New("denied")}, "Could not access microphone. Please check permissions."},
		{"storage", &domain.StorageUnavailableError{Op: "write", Err: errors.New("disk full")}, "Could not save sounds. Changes will be lost on exit."},
		{"playback", &domain.PlaybackLoadError{Src: "x", Err: errors.New("404")}, "Could not load sound"},
		{"wrapped", errors.Join(errors.New("ctx"), &domain.ValidationError{Field: "name"}), "Please fill in all fields"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ErrorText(tt.err))
		})
	}
}

func TestShowError(t *testing.T) {
	m, cmd := New().ShowError(&domain.DeviceUnavailableError{})
	require.NotNil(t, cmd)
	require.Equal(t, KindError, m.Kind())
	require.Contains(t, ansi.Strip(m.View()), "✗ Could not access microphone")
}
