package synthesis

import (
	"context"

	"github.com/kbukum/lingolink/provider"
)

// Provider is the interface text-to-speech backends implement.
type Provider interface {
	provider.Provider

	// Synthesize speaks req.Text in req.Language.
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}

// Request holds one synthesis call.
type Request struct {
	Text     string
	Language string
}

// Audio is encoded speech.
type Audio struct {
	Data []byte
	// Format is the file extension, e.g. "mp3".
	Format      string
	ContentType string
}

// Audio formats produced by the backends.
const (
	FormatMP3      = "mp3"
	ContentTypeMP3 = "audio/mpeg"
)

// NewRegistry creates an empty registry of synthesis backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("synthesizer")
}
