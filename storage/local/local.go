// Package local keeps generated audio in a directory on disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/storage"
)

// partialPrefix marks files that are still being written.
const partialPrefix = ".partial-"

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(cfg.Local.BasePath)
	})
}

// Storage is a flat directory of objects. All file access goes through an
// os.Root, so neither ".." nor a symlink can reach outside the directory.
type Storage struct {
	dir  string
	root *os.Root
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage opens dir, creating it if needed.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		return nil, errors.New("local: base path is required")
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("local: resolve base path: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("local: create %s: %w", dir, err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("local: open %s: %w", dir, err)
	}
	return &Storage{dir: dir, root: root}, nil
}

// BasePath is the directory the storage was opened on.
func (s *Storage) BasePath() string { return s.dir }

// Close releases the directory handle.
func (s *Storage) Close() error { return s.root.Close() }

// name cleans key as an absolute path and makes it root-relative, so ".."
// segments stop at the root instead of failing.
func name(key string) string {
	if n := strings.TrimPrefix(path.Clean("/"+key), "/"); n != "" {
		return n
	}
	return "."
}

// Put writes into a hidden partial file, then renames it over key.
func (s *Storage) Put(_ context.Context, key string, r io.Reader) error {
	dst := name(key)
	dir := path.Dir(dst)
	if err := s.root.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("local: put %s: %w", key, err)
	}

	tmp := path.Join(dir, partialPrefix+uuid.NewString())
	f, err := s.root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("local: put %s: %w", key, err)
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = s.root.Rename(tmp, dst)
	}
	if err != nil {
		_ = s.root.Remove(tmp)
		return fmt.Errorf("local: write %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := s.root.Open(name(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	case err != nil:
		return nil, fmt.Errorf("local: get %s: %w", key, err)
	}
	return f, nil
}

// Delete ignores keys that are already gone.
func (s *Storage) Delete(_ context.Context, key string) error {
	if err := s.root.Remove(name(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local: delete %s: %w", key, err)
	}
	return nil
}

// Exists is true only for regular files.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	info, err := s.root.Stat(name(key))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("local: stat %s: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}

// List walks the tree for keys starting with prefix, skipping partial files.
func (s *Storage) List(_ context.Context, prefix string) ([]storage.Object, error) {
	objects := []storage.Object{}
	walk := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), partialPrefix) || !strings.HasPrefix(p, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, storage.Object{Key: p, Size: info.Size(), Modified: info.ModTime()})
		return nil
	}
	if err := fs.WalkDir(s.root.FS(), ".", walk); err != nil {
		return nil, fmt.Errorf("local: list %q: %w", prefix, err)
	}
	slices.SortFunc(objects, func(a, b storage.Object) int { return strings.Compare(a.Key, b.Key) })
	return objects, nil
}
