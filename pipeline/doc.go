// Package pipeline runs one uploaded clip through conversion, speech
// recognition, translation and speech synthesis.
//
// Each request gets a private workspace under Config.WorkDir holding the
// upload and its normalized WAV. The workspace is removed on every return
// path, so concurrent requests never share intermediate files. Translation
// failures degrade to the original text; every other stage failure ends the
// request with a coded error from the errors package.
package pipeline
