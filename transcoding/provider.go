package transcoding

import (
	"context"

	"github.com/kbukum/lingolink/provider"
)

// Provider converts an audio file into the recognizer's input format.
type Provider interface {
	provider.Provider

	// Convert reads req.InputPath and writes req.OutputPath.
	Convert(ctx context.Context, req Request) (*Result, error)
}

// Request describes one conversion.
type Request struct {
	InputPath  string
	OutputPath string
	// SampleRate in Hz. Defaults to 16000.
	SampleRate int
	// Channels defaults to 1 (mono).
	Channels int
}

// Result describes the converted file.
type Result struct {
	Path string
	Size int64
}

// Defaults of the normalized recognizer input.
const (
	DefaultSampleRate = 16000
	DefaultChannels   = 1
)

func (r *Request) applyDefaults() {
	if r.SampleRate <= 0 {
		r.SampleRate = DefaultSampleRate
	}
	if r.Channels <= 0 {
		r.Channels = DefaultChannels
	}
}

// NewRegistry creates an empty registry of transcoding backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("transcoder")
}
