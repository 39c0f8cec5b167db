package audiostore

import (
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Prefix starts every generated file name.
const Prefix = "translated_"

var namePattern = regexp.MustCompile(`^translated_[0-9a-f]{32}\.(mp3|wav|ogg|opus|aac|flac)$`)

// NewName returns a fresh generated file name with the given extension,
// e.g. "translated_1f0c...e9.mp3".
func NewName(format string) string {
	return Prefix + strings.ReplaceAll(uuid.NewString(), "-", "") + "." + format
}

// ValidName reports whether name has the shape of a generated file name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ContentType returns the media type served for a generated file.
func ContentType(name string) string {
	switch path.Ext(name) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".aac":
		return "audio/aac"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
