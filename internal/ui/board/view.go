package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/soundboard/internal/log"
	"github.com/zjrosen/soundboard/internal/ui/emptystate"
	"github.com/zjrosen/soundboard/internal/ui/shared/modal"
	"github.com/zjrosen/soundboard/internal/ui/styles"
)

// Layout. Header, tabs and status take one line each; the toast footer three.
const (
	chromeHeight = 6
	footerHeight = 3
	padHeight    = 5
	minPadWidth  = 16
	minWidth     = 30
	minHeight    = chromeHeight + padHeight + 1
	volumeWidth  = 10
)

func (m Model) cols() int {
	if m.width <= 0 {
		return m.columns
	}
	return max(1, min(m.columns, m.width/minPadWidth))
}

func (m Model) gridRows() int {
	return max((m.height-chromeHeight)/padHeight, 1)
}

// ensureVisible scrolls the grid so the cursor row is on screen.
func (m *Model) ensureVisible() {
	row := m.cursor / m.cols()
	rows := m.gridRows()
	switch {
	case row < m.offset:
		m.offset = row
	case row >= m.offset+rows:
		m.offset = row - rows + 1
	}
}

// View renders the board.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.width < minWidth || m.height < minHeight {
		return emptystate.New(
			"Terminal too small",
			fmt.Sprintf("Resize to at least %dx%d", minWidth, minHeight),
		).SetSize(m.width, m.height).View()
	}

	view := strings.Join([]string{
		m.renderHeader(),
		m.renderTabs(),
		m.renderStatus(),
		m.renderGrid(m.height - chromeHeight),
		lipgloss.NewStyle().Height(footerHeight).Render(m.toast.View()),
	}, "\n")

	switch {
	case m.modalKind != modalNone:
		view = m.modal.Overlay(view)
	case m.showHelp:
		help := m.help
		if lines := strings.Split(help, "\n"); len(lines) > m.height {
			help = strings.Join(lines[:m.height], "\n")
		}
		view = modal.PlaceOverlay(view, help, m.width, m.height)
	}
	return m.zones.Scan(view)
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("♪ Soundboard")

	hints := make([]string, 0, len(keys.ShortHelp()))
	for _, k := range keys.ShortHelp() {
		h := k.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	hint := styles.HintStyle.Render(strings.Join(hints, " · "))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(hint)
	if gap < 2 {
		return title
	}
	return title + strings.Repeat(" ", gap) + hint
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.categories))
	for _, cat := range m.categories {
		style := styles.TabStyle
		if cat == m.category {
			style = styles.ActiveTab
		}
		tabs = append(tabs, m.zones.Mark(m.zonePrefix+"tab:"+cat, style.Render(styles.TitleCase(cat))))
	}
	return ansi.Truncate(strings.Join(tabs, " "), m.width, "…")
}

func (m Model) renderStatus() string {
	left := "Volume " + styles.VolumeBar(m.pads.Volume(), volumeWidth)

	var right string
	if m.recording() {
		right = fmt.Sprintf("● REC %s %s", m.rec.Label(), styles.FormatDuration(m.rec.Elapsed()))
		if m.rec.Truncated() {
			right += " (max length)"
		}
		right = styles.RecordingStyle.Render(right)
	} else {
		right = styles.HintStyle.Render(fmt.Sprintf("%d sounds", len(m.visible)))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left+" "+right, m.width, "")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderGrid(height int) string {
	if len(m.visible) == 0 {
		return emptystate.New(
			"No sounds here",
			"Press a to add a sound or r to record one.",
		).SetSize(m.width, height).View()
	}

	cols := m.cols()
	cellWidth := m.width / cols
	rows := make([]string, 0, m.gridRows())
	for r := m.offset; r < m.offset+m.gridRows(); r++ {
		start := r * cols
		if start >= len(m.visible) {
			break
		}
		end := min(start+cols, len(m.visible))

		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderPad(i, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(rows, "\n"))
}

func (m Model) renderPad(i, width int) string {
	s := m.visible[i]
	inner := width - 4
	selected := i == m.cursor
	playing := m.playing[s.ID]
	_, flashing := m.flash[s.ID]

	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	if selected {
		nameStyle = nameStyle.Bold(true).Underline(true)
	}
	lines := []string{nameStyle.Render(styles.TruncateString(s.Name, inner))}

	var status string
	switch {
	case playing:
		status = lipgloss.NewStyle().Foreground(styles.PlayingColor).Render("▶ playing")
	case m.loading(s.ID):
		status = styles.HintStyle.Render("loading…")
	case m.store.IsBuiltIn(s.ID):
		status = styles.HintStyle.Render("★ built-in")
	}
	if status != "" {
		lines = append(lines, status)
	}

	var duration string
	if d, ok := m.durations[s.ID]; ok && m.showDurations {
		duration = styles.FormatDuration(d)
	}

	border := lipgloss.TerminalColor(styles.BorderDefaultColor)
	switch {
	case flashing:
		border = styles.FlashColor
	case playing:
		border = styles.PlayingColor
	case selected:
		border = styles.BorderFocusColor
	}

	box := styles.RenderBox(strings.Join(lines, "\n"), s.Category, duration, width, padHeight, border, styles.CategoryColor(s.Category))
	return m.zones.Mark(m.zonePrefix+"pad:"+s.ID, box)
}

func (m Model) loading(id string) bool {
	c, ok := m.pads.Lookup(id)
	return ok && c.Loading()
}

// renderHelp renders the key reference with glamour, boxed for the overlay.
func renderHelp(width int) string {
	if width <= 0 {
		return ""
	}
	wrap := min(64, max(width-8, 20))

	var md strings.Builder
	md.WriteString("# Soundboard\n\n| Key | Action |\n| --- | --- |\n")
	for _, group := range keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			fmt.Fprintf(&md, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	md.WriteString("\nPads play independently. Press a playing pad again to stop it. ")
	md.WriteString("Pads marked ★ are built in and can't be deleted.\n")

	out := md.String()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		var rendered string
		if rendered, err = r.Render(out); err == nil {
			out = rendered
		}
	}
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render help", err)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Render(strings.Trim(out, "\n"))
}
