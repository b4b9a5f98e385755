package emptystate

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyState_New(t *testing.T) {
	m := New("No sounds", "Nothing here yet")

	assert.Equal(t, 0, m.width, "expected width to be 0")
	assert.Equal(t, 0, m.height, "expected height to be 0")
	assert.Nil(t, m.Init(), "expected Init to return nil")
}

func TestEmptyState_SetSize(t *testing.T) {
	m := New("No sounds", "").SetSize(120, 40)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	m2 := m.SetSize(80, 24)
	assert.Equal(t, 80, m2.width, "expected new model width to be 80")
	assert.Equal(t, 120, m.width, "expected original model width unchanged")
}

func TestEmptyState_WindowSizeMsg(t *testing.T) {
	newModel, cmd := New("t", "m").Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	updated := newModel.(Model)
	assert.Equal(t, 80, updated.width)
	assert.Equal(t, 24, updated.height)
	assert.Nil(t, cmd, "expected no command from WindowSizeMsg")
}

func TestEmptyState_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"q key", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := New("t", "m").SetSize(80, 24).Update(tt.key)
			require.NotNil(t, cmd, "expected quit command")

			_, isQuit := cmd().(tea.QuitMsg)
			assert.True(t, isQuit, "expected tea.QuitMsg")
		})
	}
}

func TestEmptyState_View(t *testing.T) {
	t.Run("zero size renders nothing", func(t *testing.T) {
		assert.Empty(t, New("t", "m").View())
	})

	t.Run("content fills the area", func(t *testing.T) {
		view := ansi.Strip(New("No sounds in Meme", "Add one with a", "Press ? for help").SetSize(60, 20).View())

		assert.Contains(t, view, "No sounds in Meme")
		assert.Contains(t, view, "Add one with a")
		assert.Contains(t, view, "Press ? for help")
		assert.Contains(t, view, "▄▀█", "art is drawn when there is room")
		assert.Len(t, strings.Split(view, "\n"), 20)
	})

	t.Run("small terminals skip the art", func(t *testing.T) {
		view := ansi.Strip(New("Terminal too small", "").SetSize(30, 6).View())
		assert.Contains(t, view, "Terminal too small")
		assert.NotContains(t, view, "▄▀█")
	})
}
