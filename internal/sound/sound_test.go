package sound

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

func TestBuiltins_ManifestLoads(t *testing.T) {
	sounds, err := Builtins()
	require.NoError(t, err)
	require.Len(t, sounds, 4)

	require.Equal(t, "1", sounds[0].ID)
	require.Equal(t, "bruh", sounds[0].Name)
	require.Equal(t, "Meme", sounds[0].Category)
}

func TestBuiltins_EveryClipIsEmbedded(t *testing.T) {
	for _, s := range MustBuiltins() {
		t.Run(s.Name, func(t *testing.T) {
			require.Equal(t, domain.SourceBuiltin, domain.KindOf(s.Src))
			data, err := ReadClip(s.Src)
			require.NoError(t, err)
			require.Equal(t, "RIFF", string(data[:4]), "expected a WAV header")
		})
	}
}

func TestReadClip_Unknown(t *testing.T) {
	tests := []string{
		"builtin:missing.wav",
		"builtin:",
		"builtin:../embed.go",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := ReadClip(src)
			require.ErrorIs(t, err, ErrUnknownClip)
		})
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "sounds: [\n"},
		{"missing src", "sounds:\n  - id: a\n    name: x\n"},
		{"duplicate id", "sounds:\n  - {id: a, name: x, src: builtin:x.wav}\n  - {id: a, name: y, src: builtin:y.wav}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseManifest([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}
