// Package board is the soundboard view-model: category filtering and the
// registry of per-pad playback controllers.
package board

import "github.com/zjrosen/soundboard/internal/sounds/domain"

// CategoryAll selects every sound.
const CategoryAll = "all"

// Categories returns CategoryAll followed by each distinct category in
// order of first appearance.
func Categories(sounds []domain.Sound) []string {
	seen := make(map[string]bool, len(sounds))
	cats := []string{CategoryAll}
	for _, s := range sounds {
		if seen[s.Category] || s.Category == CategoryAll {
			continue
		}
		seen[s.Category] = true
		cats = append(cats, s.Category)
	}
	return cats
}

// Filter returns the sounds in category selected, preserving order.
// CategoryAll returns every sound.
func Filter(sounds []domain.Sound, selected string) []domain.Sound {
	if selected == CategoryAll {
		return append([]domain.Sound(nil), sounds...)
	}
	out := make([]domain.Sound, 0, len(sounds))
	for _, s := range sounds {
		if s.Category == selected {
			out = append(out, s)
		}
	}
	return out
}
