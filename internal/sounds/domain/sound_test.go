package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCandidate_Validate(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		field     string
	}{
		{"valid", Candidate{Name: "bruh2", Src: "http://x/y.mp3", Category: "Meme"}, ""},
		{"empty name", Candidate{Name: "", Src: "http://x"}, "name"},
		{"blank name", Candidate{Name: "   ", Src: "http://x"}, "name"},
		{"empty src", Candidate{Name: "clip"}, "src"},
		{"both empty reports name first", Candidate{}, "name"},
		{"empty category is allowed", Candidate{Name: "clip", Src: "/sounds/a.wav"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.candidate.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCandidate_Normalize(t *testing.T) {
	c := Candidate{Name: "  boom ", Src: " /sounds/boom.mp3 ", Category: " "}.Normalize()

	require.Equal(t, "boom", c.Name)
	require.Equal(t, "/sounds/boom.mp3", c.Src)
	require.Equal(t, CategoryURL, c.Category)

	c = Candidate{Name: "a", Src: "b", Category: "Meme"}.Normalize()
	require.Equal(t, "Meme", c.Category)
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		src      string
		expected SourceKind
	}{
		{"builtin:bruh.wav", SourceBuiltin},
		{"blob:0190c1f2-aaaa-7bbb-8ccc-123456789abc", SourceBlob},
		{"http://x/y.mp3", SourceRemote},
		{"HTTPS://example.com/a.wav", SourceRemote},
		{"/sounds/bruh.mp3", SourceFile},
		{"clips/local.wav", SourceFile},
		{"", SourceFile},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			require.Equal(t, tt.expected, KindOf(tt.src))
		})
	}
}

func TestSourceKind_String(t *testing.T) {
	require.Equal(t, "builtin", SourceBuiltin.String())
	require.Equal(t, "blob", SourceBlob.String())
	require.Equal(t, "remote", SourceRemote.String())
	require.Equal(t, "file", SourceFile.String())
}
