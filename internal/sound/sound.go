package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/soundboard/internal/sounds/domain"
)

// ErrUnknownClip is returned when a builtin: reference names no embedded file.
var ErrUnknownClip = errors.New("unknown builtin clip")

type manifest struct {
	Sounds []manifestEntry `yaml:"sounds"`
}

type manifestEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Src      string `yaml:"src"`
	Category string `yaml:"category"`
}

// Builtins parses the embedded manifest and returns the builtin sounds in
// manifest order.
func Builtins() ([]domain.Sound, error) {
	return parseManifest(manifestYAML)
}

// MustBuiltins is Builtins for callers that treat a broken manifest as a
// build defect.
func MustBuiltins() []domain.Sound {
	sounds, err := Builtins()
	if err != nil {
		panic(err)
	}
	return sounds
}

func parseManifest(data []byte) ([]domain.Sound, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing builtin manifest: %w", err)
	}

	seen := make(map[string]bool, len(m.Sounds))
	sounds := make([]domain.Sound, 0, len(m.Sounds))
	for i, e := range m.Sounds {
		if e.ID == "" || e.Name == "" || e.Src == "" {
			return nil, fmt.Errorf("builtin %d: id, name and src are required", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("builtin %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true
		sounds = append(sounds, domain.Sound{
			ID:       e.ID,
			Name:     e.Name,
			Src:      e.Src,
			Category: e.Category,
		})
	}
	return sounds, nil
}

// ReadClip returns the bytes of the embedded clip named by a builtin: src.
func ReadClip(src string) ([]byte, error) {
	name := strings.TrimPrefix(src, domain.SchemeBuiltin)
	if name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClip, src)
	}
	data, err := fs.ReadFile(soundFiles, path.Join("sounds", name))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClip, src)
	}
	return data, nil
}
