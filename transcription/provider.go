package transcription

import (
	"context"

	"github.com/kbukum/lingolink/provider"
)

// Provider is the interface speech-to-text backends implement.
type Provider interface {
	provider.Provider

	// Transcribe recognizes the speech in req.AudioPath.
	Transcribe(ctx context.Context, req Request) (*Transcript, error)
}

// Loader is implemented by backends that load a model once before serving.
type Loader interface {
	Load(ctx context.Context) error
}

// NewRegistry creates an empty registry of transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("recognizer")
}
