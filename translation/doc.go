// Package translation defines the machine translation provider interface
// and the Translator stage, which degrades to the original text instead of
// failing the request.
//
// # Backends
//
//   - translation/google: the public Google Translate web endpoint
//   - translation/openai: chat completion with a JSON reply
package translation
