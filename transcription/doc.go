// Package transcription defines the speech-to-text provider interface and
// the Recognizer stage built on it.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - transcription/openai: OpenAI audio transcription API
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register(whisper.ProviderName, whisper.Factory())
//	backend, _ := reg.Create(cfg.Provider, cfg.Options)
//	rec := transcription.NewRecognizer(cfg, backend, log, metrics)
//	_ = rec.Start(ctx) // loads the model
//	text, err := rec.Recognize(ctx, "normalized.wav")
package transcription
