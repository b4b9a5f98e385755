// Package styles contains Lip Gloss style definitions.
package styles

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// Palette.
var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#8B8FA3"}
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5060"}
	BorderFocusColor   = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	PlayingColor       = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	FlashColor         = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	RecordingColor     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	ErrorColor         = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF8787"}
	SuccessColor       = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#73F59F"}
	InfoColor          = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#54A0FF"}
)

// Category badge colors. Well-known categories are fixed; others hash
// into categoryPalette so a category keeps its color across runs.
var (
	knownCategoryColors = map[string]lipgloss.AdaptiveColor{
		"Meme":                  {Light: "#DB2777", Dark: "#F472B6"},
		domain.CategoryURL:      {Light: "#2563EB", Dark: "#60A5FA"},
		domain.CategoryRecorded: {Light: "#DC2626", Dark: "#F87171"},
	}
	categoryPalette = []lipgloss.AdaptiveColor{
		{Light: "#0D9488", Dark: "#2DD4BF"},
		{Light: "#7C3AED", Dark: "#A78BFA"},
		{Light: "#CA8A04", Dark: "#FACC15"},
		{Light: "#EA580C", Dark: "#FB923C"},
		{Light: "#4F46E5", Dark: "#818CF8"},
		{Light: "#65A30D", Dark: "#A3E635"},
	}
)

// CategoryColor returns the badge color for category.
func CategoryColor(category string) lipgloss.AdaptiveColor {
	if c, ok := knownCategoryColors[category]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(category))
	return categoryPalette[h.Sum32()%uint32(len(categoryPalette))]
}

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(BorderFocusColor)
	HintStyle  = lipgloss.NewStyle().Foreground(TextMutedColor)
	TabStyle   = lipgloss.NewStyle().Foreground(TextMutedColor).Padding(0, 1)
	ActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor).Background(BorderDefaultColor).Padding(0, 1)
	RecordingStyle = lipgloss.NewStyle().Bold(true).Foreground(RecordingColor)
)

// Badge renders category as a colored label.
func Badge(category string) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(category)).Render(category)
}
