package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	inputBase      = "input"
	normalizedName = "normalized.wav"
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

// workspace is the private directory of one request. Nothing in it is
// shared with other requests and it is removed when the request ends.
type workspace struct {
	dir string
}

func newWorkspace(root, requestID string) (*workspace, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	dir, err := os.MkdirTemp(root, sanitizeID(requestID)+"-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &workspace{dir: dir}, nil
}

// writeInput stores the upload as input<ext> and returns its path and size.
func (w *workspace) writeInput(r io.Reader, filename string) (string, int64, error) {
	path := filepath.Join(w.dir, inputBase+inputExtension(filename))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("create input file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", n, fmt.Errorf("write input file: %w", err)
	}
	return path, n, nil
}

func (w *workspace) normalizedPath() string {
	return filepath.Join(w.dir, normalizedName)
}

func (w *workspace) remove() error {
	return os.RemoveAll(w.dir)
}

// inputExtension keeps a short alphanumeric extension from the upload name
// so the transcoder can probe the container; anything else becomes .webm.
func inputExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !extPattern.MatchString(ext) {
		return DefaultInputExtension
	}
	return ext
}

func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
		if b.Len() >= 64 {
			break
		}
	}
	if b.Len() == 0 {
		return "request"
	}
	return b.String()
}
