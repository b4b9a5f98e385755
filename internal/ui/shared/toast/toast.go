// Package toast shows short-lived notifications at the bottom of the board.
package toast

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundboard/internal/sounds/domain"
	"github.com/zjrosen/soundboard/internal/ui/styles"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// Kind selects the toast color and icon.
type Kind int

const (
	KindSuccess Kind = iota
	KindInfo
	KindError
)

// DismissMsg hides the toast it was scheduled for. Toasts shown since are
// left alone.
type DismissMsg struct {
	id int
}

// Model holds the current toast.
type Model struct {
	message  string
	kind     Kind
	id       int
	visible  bool
	duration time.Duration
}

// New returns a hidden toast with the default duration.
func New() Model {
	return Model{duration: DefaultDuration}
}

// WithDuration returns a copy that stays visible for d.
func (m Model) WithDuration(d time.Duration) Model {
	m.duration = d
	return m
}

// Show replaces the current toast and schedules its dismissal.
func (m Model) Show(message string, kind Kind) (Model, tea.Cmd) {
	m.id++
	m.message = message
	m.kind = kind
	m.visible = true

	id := m.id
	return m, tea.Tick(m.duration, func(time.Time) tea.Msg {
		return DismissMsg{id: id}
	})
}

// ShowError shows the user-facing text for err.
func (m Model) ShowError(err error) (Model, tea.Cmd) {
	return m.Show(ErrorText(err), KindError)
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.id == m.id {
		m.visible = false
	}
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool { return m.visible }

// Text returns the current message.
func (m Model) Text() string { return m.message }

// Kind returns the current kind.
func (m Model) Kind() Kind { return m.kind }

// View renders the toast, or nothing when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	color, icon := styles.SuccessColor, "✓"
	switch m.kind {
	case KindInfo:
		color, icon = styles.InfoColor, "•"
	case KindError:
		color, icon = styles.ErrorColor, "✗"
	}

	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(icon + " " + m.message)
}

// ErrorText maps an error to the message shown to the user.
func ErrorText(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr) && verr.Field == "audio":
		return "Nothing was recorded"
	case errors.Is(err, domain.ErrValidation):
		return "Please fill in all fields"
	case errors.Is(err, domain.ErrDeviceUnavailable):
		return "Could not access microphone. Please check permissions."
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "Could not save sounds. Changes will be lost on exit."
	case errors.Is(err, domain.ErrPlaybackLoad):
		return "Could not load sound"
	default:
		return err.Error()
	}
}
