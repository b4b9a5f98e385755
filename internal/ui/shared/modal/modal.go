// Package modal provides a centered input or confirmation dialog for
// bubbletea programs. With Inputs it is a form; without, a yes/no prompt.
package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/soundboard/internal/ui/styles"
)

const defaultWidth = 52

// Field identifies the focused button.
type Field int

// Buttons.
const (
	FieldSave Field = iota
	FieldCancel
)

// InputConfig describes one text input.
type InputConfig struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	MaxLength   int
	// Optional inputs may be submitted empty.
	Optional bool
}

// Config configures a modal.
type Config struct {
	Title   string
	Message string
	Inputs  []InputConfig
	// SaveLabel overrides the primary button text ("Save", or "Confirm"
	// without inputs).
	SaveLabel string
}

// SubmitMsg is sent when the form is submitted. Values are trimmed and
// keyed by InputConfig.Key; confirmation modals send an empty map.
type SubmitMsg struct {
	Values map[string]string
}

// CancelMsg is sent when the modal is dismissed.
type CancelMsg struct{}

// InvalidMsg is sent when a required input is empty on submit.
type InvalidMsg struct {
	Key   string
	Label string
}

// Model is the modal state.
type Model struct {
	title       string
	message     string
	saveLabel   string
	hasInputs   bool
	inputs      []textinput.Model
	inputKeys   []string
	inputLabels []string
	optional    []bool

	focusedInput int // -1 when a button has focus
	focusedField Field

	width  int
	height int
}

// New creates a modal. Input mode starts focused on the first input,
// confirmation mode on the primary button.
func New(cfg Config) Model {
	m := Model{
		title:        cfg.Title,
		message:      cfg.Message,
		saveLabel:    cfg.SaveLabel,
		hasInputs:    len(cfg.Inputs) > 0,
		focusedInput: -1,
		focusedField: FieldSave,
	}
	if m.saveLabel == "" {
		m.saveLabel = "Save"
		if !m.hasInputs {
			m.saveLabel = "Confirm"
		}
	}

	for _, ic := range cfg.Inputs {
		ti := textinput.New()
		ti.Placeholder = ic.Placeholder
		ti.CharLimit = ic.MaxLength
		ti.Width = defaultWidth - 8
		ti.Prompt = "› "
		ti.SetValue(ic.Value)
		m.inputs = append(m.inputs, ti)
		m.inputKeys = append(m.inputKeys, ic.Key)
		m.inputLabels = append(m.inputLabels, ic.Label)
		m.optional = append(m.optional, ic.Optional)
	}
	if m.hasInputs {
		m.focusedInput = 0
		m.inputs[0].Focus()
	}
	return m
}

// Init starts the cursor blinking in input mode.
func (m Model) Init() tea.Cmd {
	if m.hasInputs {
		return textinput.Blink
	}
	return nil
}

// SetSize sets the area the modal is centered in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	onButtons := m.focusedInput < 0

	switch msg.String() {
	case "esc":
		return m, cancel
	case "tab", "down":
		return m.move(1), nil
	case "shift+tab", "up":
		return m.move(-1), nil
	case "enter":
		if onButtons && m.focusedField == FieldCancel {
			return m, cancel
		}
		return m, m.submit()
	}

	if onButtons {
		switch msg.String() {
		case "left", "right", "h", "l":
			if m.focusedField == FieldSave {
				m.focusedField = FieldCancel
			} else {
				m.focusedField = FieldSave
			}
			return m, nil
		case "y":
			return m, m.submit()
		case "n":
			return m, cancel
		}
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	if m.focusedInput < 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focusedInput], cmd = m.inputs[m.focusedInput].Update(msg)
	return m, cmd
}

// move cycles focus through inputs, then Save, then Cancel.
func (m Model) move(delta int) Model {
	n := len(m.inputs)
	stops := n + 2
	pos := n + int(m.focusedField)
	if m.focusedInput >= 0 {
		pos = m.focusedInput
		m.inputs[m.focusedInput].Blur()
	}
	pos = ((pos+delta)%stops + stops) % stops

	if pos < n {
		m.focusedInput = pos
		m.inputs[pos].Focus()
		return m
	}
	m.focusedInput = -1
	m.focusedField = Field(pos - n)
	return m
}

func (m Model) submit() tea.Cmd {
	values := make(map[string]string, len(m.inputs))
	for i, ti := range m.inputs {
		v := strings.TrimSpace(ti.Value())
		if v == "" && !m.optional[i] {
			key, label := m.inputKeys[i], m.inputLabels[i]
			return func() tea.Msg { return InvalidMsg{Key: key, Label: label} }
		}
		values[m.inputKeys[i]] = v
	}
	return func() tea.Msg { return SubmitMsg{Values: values} }
}

func cancel() tea.Msg { return CancelMsg{} }

// Value returns the current text of the input with key.
func (m Model) Value(key string) string {
	for i, k := range m.inputKeys {
		if k == key {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// View renders the modal box.
func (m Model) View() string {
	width := defaultWidth
	if m.width > 0 {
		width = min(width, max(m.width-4, 20))
	}
	inner := width - 6

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.BorderFocusColor)
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	focusLabel := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimaryColor)

	var sections []string
	sections = append(sections, titleStyle.Render(m.title))
	if m.message != "" {
		sections = append(sections, wordwrap.String(m.message, inner))
	}
	for i, ti := range m.inputs {
		ls := labelStyle
		if i == m.focusedInput {
			ls = focusLabel
		}
		label := m.inputLabels[i]
		if m.optional[i] {
			label += " (optional)"
		}
		sections = append(sections, ls.Render(label)+"\n"+ti.View())
	}
	sections = append(sections, m.buttons())

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(1, 2).
		Width(width - 2)
	return box.Render(strings.Join(sections, "\n\n"))
}

func (m Model) buttons() string {
	base := lipgloss.NewStyle().Padding(0, 2).Foreground(styles.TextMutedColor)
	active := base.Bold(true).Foreground(styles.TextPrimaryColor).Background(styles.BorderFocusColor)

	save, cancelBtn := base, base
	if m.focusedInput < 0 {
		if m.focusedField == FieldSave {
			save = active
		} else {
			cancelBtn = active
		}
	}
	return save.Render(m.saveLabel) + "  " + cancelBtn.Render("Cancel")
}

// Overlay draws the modal centered over bg.
func (m Model) Overlay(bg string) string {
	return PlaceOverlay(bg, m.View(), m.width, m.height)
}

// PlaceOverlay draws fg centered over bg, an area of width x height cells.
// Background cells outside fg are kept.
func PlaceOverlay(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	fgWidth := lipgloss.Width(fg)

	x := max((width-fgWidth)/2, 0)
	y := max((height-len(fgLines))/2, 0)

	for len(bgLines) < y+len(fgLines) {
		bgLines = append(bgLines, "")
	}
	for i, line := range fgLines {
		row := bgLines[y+i]
		left := ansi.Truncate(row, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		if w := ansi.StringWidth(line); w < fgWidth {
			line += strings.Repeat(" ", fgWidth-w)
		}
		right := ansi.TruncateLeft(row, x+fgWidth, "")
		bgLines[y+i] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}
