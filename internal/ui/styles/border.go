package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderBox renders content inside a rounded border of the given outer size,
// with leftTitle and rightTitle embedded in the top edge. Pass "" to omit a
// title. Content is centered; lines wider than the box are truncated.
func RenderBox(content, leftTitle, rightTitle string, width, height int, borderColor, titleColor lipgloss.TerminalColor) string {
	border := lipgloss.NewStyle().Foreground(borderColor)
	title := lipgloss.NewStyle().Foreground(titleColor)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	lines := strings.Split(content, "\n")
	top := (rows - len(lines)) / 2

	var b strings.Builder
	b.WriteString(topEdge(leftTitle, rightTitle, inner, border, title))
	for i := range rows {
		var line string
		if j := i - max(top, 0); j >= 0 && j < len(lines) {
			line = lipgloss.PlaceHorizontal(inner, lipgloss.Center, TruncateString(lines[j], inner))
		} else {
			line = strings.Repeat(" ", inner)
		}
		b.WriteString("\n")
		b.WriteString(border.Render(borderVertical) + line + border.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(border.Render(borderBottomLeft + strings.Repeat(borderHorizontal, inner) + borderBottomRight))
	return b.String()
}

// topEdge builds ╭─ Left ───── Right ─╮, dropping the right title first and
// then the left when the box is too narrow.
func topEdge(left, right string, inner int, border, title lipgloss.Style) string {
	lw, rw := runewidth.StringWidth(left), runewidth.StringWidth(right)
	if right != "" && 2+lw+1+1+1+rw+2 > inner {
		right, rw = "", 0
	}
	if left != "" && 2+lw+2 > inner {
		left = TruncateString(left, inner-4)
		lw = runewidth.StringWidth(left)
		if lw == 0 {
			left = ""
		}
	}

	used := 0
	var b strings.Builder
	b.WriteString(border.Render(borderTopLeft))
	if left != "" {
		b.WriteString(border.Render(borderHorizontal+" ") + title.Render(left) + border.Render(" "))
		used += lw + 3
	}
	if right != "" {
		used += rw + 3
	}
	b.WriteString(border.Render(strings.Repeat(borderHorizontal, max(inner-used, 0))))
	if right != "" {
		b.WriteString(border.Render(" ") + title.Render(right) + border.Render(" "+borderHorizontal))
	}
	b.WriteString(border.Render(borderTopRight))
	return b.String()
}

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
