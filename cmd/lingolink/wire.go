package main

import (
	"github.com/kbukum/lingolink/api"
	"github.com/kbukum/lingolink/audiostore"
	"github.com/kbukum/lingolink/bootstrap"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/pipeline"
	"github.com/kbukum/lingolink/server"
	"github.com/kbukum/lingolink/server/endpoint"
	"github.com/kbukum/lingolink/storage"
	_ "github.com/kbukum/lingolink/storage/local"
	_ "github.com/kbukum/lingolink/storage/s3"
	"github.com/kbukum/lingolink/synthesis"
	"github.com/kbukum/lingolink/synthesis/gtts"
	ttsopenai "github.com/kbukum/lingolink/synthesis/openai"
	"github.com/kbukum/lingolink/transcoding"
	"github.com/kbukum/lingolink/transcoding/ffmpeg"
	"github.com/kbukum/lingolink/transcription"
	sttopenai "github.com/kbukum/lingolink/transcription/openai"
	"github.com/kbukum/lingolink/transcription/whisper"
	"github.com/kbukum/lingolink/translation"
	"github.com/kbukum/lingolink/translation/google"
	mtopenai "github.com/kbukum/lingolink/translation/openai"
)

// wire builds the pipeline and registers the components in start order:
// storage, audio store, transcoder, recognizer, HTTP server.
func wire(app *bootstrap.App[*Config], metrics *observability.Metrics) error {
	cfg, log := app.Cfg, app.Logger

	transcoders := transcoding.NewRegistry()
	transcoders.Register(ffmpeg.ProviderName, ffmpeg.Factory())

	recognizers := transcription.NewRegistry()
	recognizers.Register(whisper.ProviderName, whisper.Factory())
	recognizers.Register(sttopenai.ProviderName, sttopenai.Factory())

	translators := translation.NewRegistry()
	translators.Register(google.ProviderName, google.Factory())
	translators.Register(mtopenai.ProviderName, mtopenai.Factory())

	synthesizers := synthesis.NewRegistry()
	synthesizers.Register(gtts.ProviderName, gtts.Factory())
	synthesizers.Register(ttsopenai.ProviderName, ttsopenai.Factory())

	transcodeBackend, err := transcoders.Create(cfg.Transcoder.Provider, cfg.Transcoder.Options)
	if err != nil {
		return err
	}
	recognizeBackend, err := recognizers.Create(cfg.Recognizer.Config.Provider, cfg.Recognizer.Config.Options)
	if err != nil {
		return err
	}
	translateBackend, err := translators.Create(cfg.Translator.Config.Provider, cfg.Translator.Config.Options)
	if err != nil {
		return err
	}
	synthesizeBackend, err := synthesizers.Create(cfg.Synthesizer.Config.Provider, cfg.Synthesizer.Config.Options)
	if err != nil {
		return err
	}

	store := storage.NewComponent(cfg.Storage, log)
	audio := audiostore.New(cfg.Retention, store, log, metrics)
	transcoder := transcoding.New(transcodeBackend, cfg.Transcoder.Timeout, log, metrics)
	recognizer := transcription.NewRecognizer(cfg.Recognizer, recognizeBackend, log, metrics)

	svc := pipeline.NewService(cfg.Pipeline, pipeline.Stages{
		Transcoder:  transcoder,
		Recognizer:  recognizer,
		Translator:  translation.NewTranslator(cfg.Translator, translateBackend, log, metrics),
		Synthesizer: synthesis.NewSynthesizer(cfg.Synthesizer, synthesizeBackend, audio, log, metrics),
	}, log, metrics)

	srv := server.New(cfg.Server, log)
	api.NewHandler(svc, audio, cfg.Server.MaxBodySize, log).Register(srv.GinEngine())
	srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll, endpoint.Gauge{
		Name: "generated_audio_files",
		Read: func() int64 { return int64(audio.Len()) },
	})
	srv.TrackRoutes(app.Summary)

	return app.Register(store, audio, transcoder, recognizer, server.NewComponent(srv))
}
