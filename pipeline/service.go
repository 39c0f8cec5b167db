package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/transcoding"
	"github.com/kbukum/lingolink/translation"
	"github.com/kbukum/lingolink/util"
)

// State names a step of the request lifecycle.
type State string

// Request states, in order. A request that fails leaves through one of the
// *Failed states; a translation failure degrades and continues.
const (
	StateReceived            State = "received"
	StateConverted           State = "converted"
	StateTranscribed         State = "transcribed"
	StateTranslated          State = "translated"
	StateSynthesized         State = "synthesized"
	StateResponded           State = "responded"
	StateIngressFailed       State = "ingress_failed"
	StateConversionFailed    State = "conversion_failed"
	StateTranscriptionFailed State = "transcription_failed"
	StateSynthesisFailed     State = "synthesis_failed"
)

// transcriptLogLimit caps the transcript excerpt in debug logs.
const transcriptLogLimit = 80

// Transcoder normalizes uploaded audio into recognizer input.
type Transcoder interface {
	Convert(ctx context.Context, inputPath, outputPath string) (*transcoding.Result, error)
}

// Recognizer turns speech into text.
type Recognizer interface {
	Recognize(ctx context.Context, audioPath string) (string, error)
}

// Translator translates text and never fails.
type Translator interface {
	Translate(ctx context.Context, text, target string) translation.Outcome
}

// Synthesizer speaks text and returns the generated file name.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
}

// Input is one uploaded clip.
type Input struct {
	Audio io.Reader
	// Filename is the client-side name; only its extension is used.
	Filename   string
	TargetLang string
}

// Result is returned to the client on success.
type Result struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	AudioURL       string `json:"audio_url"`
}

// Service runs the audio translation pipeline:
// convert, recognize, translate, synthesize.
type Service struct {
	cfg         Config
	transcoder  Transcoder
	recognizer  Recognizer
	translator  Translator
	synthesizer Synthesizer
	log         *logger.Logger
	metrics     *observability.Metrics
}

// Stages groups the stage implementations a Service runs.
type Stages struct {
	Transcoder  Transcoder
	Recognizer  Recognizer
	Translator  Translator
	Synthesizer Synthesizer
}

// NewService creates the pipeline over the given stages.
func NewService(cfg Config, stages Stages, log *logger.Logger, metrics *observability.Metrics) *Service {
	cfg.ApplyDefaults()
	return &Service{
		cfg:         cfg,
		transcoder:  stages.Transcoder,
		recognizer:  stages.Recognizer,
		translator:  stages.Translator,
		synthesizer: stages.Synthesizer,
		log:         log.WithComponent("pipeline"),
		metrics:     metrics,
	}
}

// TargetLang resolves the requested target language, falling back to the
// configured default when blank.
func (s *Service) TargetLang(requested string) string {
	return util.Coalesce(strings.TrimSpace(requested), s.cfg.DefaultTargetLang)
}

// Process runs one clip through every stage. The request's working files
// live in a private workspace that is removed on every return path.
func (s *Service) Process(ctx context.Context, in Input) (res *Result, err error) {
	start := time.Now()
	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}
	target := s.TargetLang(in.TargetLang)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()
	ctx, span := observability.StartSpan(ctx, observability.SpanPipeline, trace.WithAttributes(
		attribute.String(observability.AttrRequestID, requestID),
		attribute.String(observability.AttrTargetLang, target),
	))
	defer span.End()

	log := s.log.WithContext(ctx)
	s.metrics.RecordRequestStart(ctx)
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			code := string(errors.Wrap(err).Code)
			span.SetAttributes(attribute.String(observability.AttrErrorCode, code))
			span.SetStatus(codes.Error, code)
			s.metrics.RecordError(ctx, code, "pipeline")
		}
		s.metrics.RecordRequestEnd(ctx, target, status, time.Since(start))
	}()

	if in.Audio == nil {
		s.transition(ctx, log, StateIngressFailed)
		return nil, errors.MissingField("audio")
	}

	ws, err := newWorkspace(s.cfg.WorkDir, requestID)
	if err != nil {
		s.transition(ctx, log, StateIngressFailed)
		return nil, errors.Internal(err)
	}
	defer func() {
		if rmErr := ws.remove(); rmErr != nil {
			log.Warn("workspace cleanup failed", logger.MergeWithError(logger.Fields(logger.FieldFile, ws.dir), rmErr))
		}
	}()

	inputPath, size, err := ws.writeInput(in.Audio, in.Filename)
	if err != nil {
		s.transition(ctx, log, StateIngressFailed)
		return nil, errors.Internal(err)
	}
	if size == 0 {
		s.transition(ctx, log, StateIngressFailed)
		return nil, errors.InvalidInput("audio", "uploaded file is empty")
	}
	s.transition(ctx, log, StateReceived, "bytes", size, logger.FieldTargetLang, target)

	wavPath := ws.normalizedPath()
	if _, err := s.transcoder.Convert(ctx, inputPath, wavPath); err != nil {
		s.fail(ctx, log, StateConversionFailed, err)
		return nil, err
	}
	s.transition(ctx, log, StateConverted)

	text, err := s.recognizer.Recognize(ctx, wavPath)
	if err != nil {
		s.fail(ctx, log, StateTranscriptionFailed, err)
		return nil, err
	}
	s.transition(ctx, log, StateTranscribed, "chars", len(text))
	log.Debug("transcript", logger.Fields("text", util.Truncate(text, transcriptLogLimit)))

	outcome := s.translator.Translate(ctx, text, target)
	fields := []any{logger.FieldSourceLang, outcome.SourceLang}
	if outcome.Fallback {
		fields = append(fields, "fallback", outcome.Reason)
	}
	s.transition(ctx, log, StateTranslated, fields...)
	span.SetAttributes(attribute.String(observability.AttrSourceLang, outcome.SourceLang))

	name, err := s.synthesizer.Synthesize(ctx, outcome.Text, target)
	if err != nil {
		s.fail(ctx, log, StateSynthesisFailed, err)
		return nil, err
	}
	s.transition(ctx, log, StateSynthesized, logger.FieldFile, name)

	res = &Result{
		OriginalText:   text,
		TranslatedText: outcome.Text,
		SourceLang:     outcome.SourceLang,
		TargetLang:     target,
		AudioURL:       s.cfg.AudioURLPrefix + name,
	}
	s.transition(ctx, log, StateResponded, logger.FieldDuration, time.Since(start).Milliseconds())
	return res, nil
}

func (s *Service) transition(ctx context.Context, log *logger.Logger, state State, kvs ...any) {
	observability.SpanFromContext(ctx).AddEvent(string(state))
	log.Info(fmt.Sprintf("request %s", state), logger.Fields(append([]any{logger.FieldState, string(state)}, kvs...)...))
}

func (s *Service) fail(ctx context.Context, log *logger.Logger, state State, err error) {
	observability.SetSpanError(ctx, err)
	appErr := errors.Wrap(err)
	log.Error(fmt.Sprintf("request %s", state), logger.MergeWithError(logger.Fields(
		logger.FieldState, string(state),
		logger.FieldErrorCode, string(appErr.Code),
	), err))
}
