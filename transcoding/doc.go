// Package transcoding normalizes uploaded audio into the recognizer's input
// format. The ffmpeg subpackage is the default backend.
package transcoding
