// Package domain defines the soundboard's core types: the Sound record, the
// Candidate a user proposes before it is validated, source-reference kinds,
// and the error taxonomy shared by the store, playback and recorder layers.
//
// The package has no knowledge of storage, audio devices or the terminal UI.
//
// # Import Aliasing
//
// There is also an application package for the store service. When importing
// both, alias them:
//
//	import (
//	    domainsounds "github.com/zjrosen/soundboard/internal/sounds/domain"
//	    appsounds "github.com/zjrosen/soundboard/internal/sounds/application"
//	)
package domain
