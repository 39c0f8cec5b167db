// Package synthesis defines the text-to-speech provider interface and the
// Synthesizer stage that names, stores and returns generated speech.
//
// # Backends
//
//   - synthesis/gtts: the Google Translate speech endpoint
//   - synthesis/openai: the OpenAI speech API
package synthesis
