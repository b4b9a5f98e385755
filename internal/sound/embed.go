// Package sound holds the builtin pads: a YAML manifest and the WAV clips it
// references, both embedded into the binary.
package sound

import "embed"

// soundFiles contains the embedded builtin clips.
//
//go:embed sounds/*.wav
var soundFiles embed.FS

//go:embed builtins.yaml
var manifestYAML []byte
