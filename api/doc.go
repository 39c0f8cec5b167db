// Package api holds the public HTTP routes:
//
//	GET  /                    liveness message
//	POST /process_audio       multipart "audio" (+ optional "target_lang")
//	GET  /uploads/:filename   generated speech
//
// Successful uploads return the pipeline result as JSON. Every failure is a
// JSON error body with "error" and "code" and never carries result fields.
package api
