package translation

import (
	"context"
	"errors"

	"github.com/kbukum/lingolink/provider"
)

// Provider is the interface machine translation backends implement.
type Provider interface {
	provider.Provider

	// Translate translates req.Text into req.Target and reports the
	// detected source language.
	Translate(ctx context.Context, req Request) (*Result, error)
}

// Request holds one translation call.
type Request struct {
	Text string
	// Source is "auto" for detection.
	Source string
	Target string
}

// Result is the translated text and the source language the backend detected.
type Result struct {
	Text           string
	DetectedSource string
}

// Errors backends return so the translator can classify a failure.
var (
	ErrUnsupportedLanguage = errors.New("translation: unsupported target language")
	ErrDetectionFailed     = errors.New("translation: source language not detected")
)

// SourceAuto asks the backend to detect the source language.
const SourceAuto = "auto"

// UnknownSource is reported when the source language is not known.
const UnknownSource = "unknown"

// NewRegistry creates an empty registry of translation backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]("translator")
}
