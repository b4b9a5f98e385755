package application

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// TestProperty_AddRemoveSurvivesReload checks that after any sequence of adds
// and removes, a fresh store over the same storage sees exactly the builtins
// plus every surviving user sound, in order.
func TestProperty_AddRemoveSurvivesReload(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kv := newMemKV()
		s := NewStore(kv, testBuiltins())

		var expected []domain.Sound
		steps := rapid.IntRange(1, 30).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			if len(expected) > 0 && rapid.Bool().Draw(t, fmt.Sprintf("remove-%d", i)) {
				idx := rapid.IntRange(0, len(expected)-1).Draw(t, fmt.Sprintf("idx-%d", i))
				removed, err := s.Remove(expected[idx].ID)
				if err != nil || !removed {
					t.Fatalf("remove %s: removed=%v err=%v", expected[idx].ID, removed, err)
				}
				expected = append(expected[:idx:idx], expected[idx+1:]...)
				continue
			}
			name := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, fmt.Sprintf("name-%d", i))
			category := rapid.SampledFrom([]string{"Meme", "URL", "Recorded"}).Draw(t, fmt.Sprintf("cat-%d", i))
			added, err := s.Add(domain.Candidate{Name: name, Src: "http://x/" + name, Category: category})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			expected = append(expected, added)
		}

		// Removing a builtin never changes anything.
		builtinID := rapid.SampledFrom([]string{"1", "2", "3", "4"}).Draw(t, "builtin")
		if removed, _ := s.Remove(builtinID); removed {
			t.Fatalf("builtin %s was removed", builtinID)
		}

		reloaded := NewStore(kv, testBuiltins())
		sounds, err := reloaded.Load()
		if err != nil {
			t.Fatalf("load: %v", err)
		}

		want := append(testBuiltins(), expected...)
		if len(sounds) != len(want) {
			t.Fatalf("got %d sounds, want %d", len(sounds), len(want))
		}
		for i := range want {
			if sounds[i] != want[i] {
				t.Fatalf("sound %d: got %+v, want %+v", i, sounds[i], want[i])
			}
		}
	})
}
