// Package emptystate renders a centered placeholder screen, used when the
// terminal is too small for the pad grid or there are no pads to show.
package emptystate

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundboard/internal/ui/styles"
)

var speakerArt = []string{
	"    ▄▀█  ",
	"▄▄▄▀  █ ▀▄",
	"█     █  █",
	"▀▀▀▄  █ ▄▀",
	"    ▀▄█  ",
}

// Model holds the placeholder content.
type Model struct {
	title   string
	message string
	hints   []string
	width   int
	height  int
}

// New creates a placeholder with a title, a message and optional hint lines.
func New(title, message string, hints ...string) Model {
	return Model{title: title, message: message, hints: hints}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages. Quit keys end the program so the view can run
// standalone.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the placeholder centered in the current size.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.TextPrimaryColor).
		MarginTop(1)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		Italic(true)

	var content strings.Builder
	// The art needs room; tiny terminals only get the text.
	if m.height >= len(speakerArt)+6 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.BorderFocusColor).Render(strings.Join(speakerArt, "\n")))
		content.WriteString("\n")
	}
	content.WriteString(titleStyle.Render(m.title))
	if m.message != "" {
		content.WriteString("\n\n")
		content.WriteString(messageStyle.Render(m.message))
	}
	if len(m.hints) > 0 {
		content.WriteString("\n")
		for _, h := range m.hints {
			content.WriteString("\n")
			content.WriteString(hintStyle.Render(h))
		}
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content.String())
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}
