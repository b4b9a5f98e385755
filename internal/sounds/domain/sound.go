package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Well-known categories.
const (
	// CategoryURL is the default category for manually added sounds.
	CategoryURL = "URL"
	// CategoryRecorded is assigned to every microphone recording.
	CategoryRecorded = "Recorded"
)

// Source reference schemes.
const (
	SchemeBuiltin = "builtin:"
	SchemeBlob    = "blob:"
)

// Sound is one playable entry on the board. Records are immutable once
// created; deletion removes the whole record.
type Sound struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Src      string `json:"src"`
	Category string `json:"category"`
}

// Candidate is a proposed sound that has not been validated or assigned an id.
type Candidate struct {
	Name     string
	Src      string
	Category string
}

// Validate reports a ValidationError for the first missing required field.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name"}
	}
	if strings.TrimSpace(c.Src) == "" {
		return &ValidationError{Field: "src"}
	}
	return nil
}

// Normalize trims whitespace and fills in the default category.
func (c Candidate) Normalize() Candidate {
	c.Name = strings.TrimSpace(c.Name)
	c.Src = strings.TrimSpace(c.Src)
	c.Category = strings.TrimSpace(c.Category)
	if c.Category == "" {
		c.Category = CategoryURL
	}
	return c
}

// NewID returns a fresh opaque id. Ids are UUIDv7, so they sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SourceKind classifies a sound's source reference.
type SourceKind int

// Source kinds.
const (
	SourceFile SourceKind = iota
	SourceBuiltin
	SourceBlob
	SourceRemote
)

// String returns the kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceBuiltin:
		return "builtin"
	case SourceBlob:
		return "blob"
	case SourceRemote:
		return "remote"
	default:
		return "file"
	}
}

// KindOf classifies src. Anything that is not builtin, blob or http(s) is a file path.
func KindOf(src string) SourceKind {
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, SchemeBuiltin):
		return SourceBuiltin
	case strings.HasPrefix(lower, SchemeBlob):
		return SourceBlob
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return SourceRemote
	default:
		return SourceFile
	}
}
