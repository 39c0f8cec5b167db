package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/lingolink/audiostore"
	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/provider"
)

// Saver persists a generated file. *audiostore.Store implements it.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// Synthesizer is the text-to-speech stage. Unlike translation, a
// synthesis failure fails the request.
type Synthesizer struct {
	cfg     Config
	backend Provider
	stage   provider.RequestResponse[Request, *Audio]
	store   Saver
	log     *logger.Logger
}

var _ component.Describable = (*Synthesizer)(nil)

// NewSynthesizer wraps backend with the stage middleware.
func NewSynthesizer(cfg Config, backend Provider, store Saver, log *logger.Logger, metrics *observability.Metrics) *Synthesizer {
	cfg.ApplyDefaults()
	log = log.WithComponent("synthesizer")
	return &Synthesizer{
		cfg:     cfg,
		backend: backend,
		stage: provider.Stage[Request, *Audio](
			provider.NewFunc(backend.Name(), backend.Synthesize),
			provider.StageOptions{
				Stage:     "synthesis",
				Operation: "synthesize",
				Log:       log,
				Metrics:   metrics,
				Timeout:   cfg.Timeout,
			},
		),
		store: store,
		log:   log,
	}
}

// Synthesize speaks text in lang, saves the audio under a fresh generated
// name and returns that name. Every failure is SYNTHESIS_FAILED, except a
// stage TIMEOUT which is kept as is.
func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.SynthesisFailed(fmt.Errorf("no text to synthesize"))
	}

	audio, err := s.stage.Execute(ctx, Request{Text: text, Language: lang})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeTimeout) {
			return "", err
		}
		return "", errors.SynthesisFailed(err)
	}
	if audio == nil || len(audio.Data) == 0 {
		return "", errors.SynthesisFailed(fmt.Errorf("%s returned no audio", s.backend.Name()))
	}

	format := audio.Format
	if format == "" {
		format = FormatMP3
	}
	name := audiostore.NewName(format)
	if err := s.store.Save(ctx, name, audio.Data); err != nil {
		return "", errors.SynthesisFailed(fmt.Errorf("save %s: %w", name, err))
	}

	s.log.WithContext(ctx).Debug("speech saved", logger.Fields(
		logger.FieldFile, name, "bytes", len(audio.Data), logger.FieldTargetLang, lang))
	return name, nil
}

// Describe returns the startup summary line.
func (s *Synthesizer) Describe() component.Description {
	return component.Description{
		Name:    "Synthesizer",
		Type:    "stage",
		Details: fmt.Sprintf("provider=%s timeout=%s", s.backend.Name(), s.cfg.Timeout),
	}
}
