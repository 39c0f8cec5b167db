package audiostore

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/storage"
)

// Source hands out the storage backend once it has started.
// *storage.Component implements it.
type Source interface {
	Storage() storage.Storage
}

type staticSource struct{ s storage.Storage }

func (s staticSource) Storage() storage.Storage { return s.s }

// Static wraps an already constructed backend as a Source.
func Static(s storage.Storage) Source { return staticSource{s: s} }

// File is an opened generated audio file. The caller must close Body.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// Store is the catalog of generated audio. Only names it has saved (or
// found in storage on start) are served, and entries older than the
// retention window are deleted by the sweeper.
type Store struct {
	cfg     Config
	src     Source
	log     *logger.Logger
	metrics *observability.Metrics
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	put     provider.RequestResponse[putRequest, struct{}]
	get     provider.RequestResponse[string, io.ReadCloser]

	stop chan struct{}
	done chan struct{}
}

type entry struct {
	created time.Time
	size    int64
}

type putRequest struct {
	name string
	data []byte
}

var (
	_ component.Component   = (*Store)(nil)
	_ component.Describable = (*Store)(nil)
)

// New creates a store over src. Start must run before Save or Open.
func New(cfg Config, src Source, log *logger.Logger, metrics *observability.Metrics) *Store {
	cfg.ApplyDefaults()
	return &Store{
		cfg:     cfg,
		src:     src,
		log:     log.WithComponent("audiostore"),
		metrics: metrics,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Name returns the component name.
func (s *Store) Name() string { return "audiostore" }

// Start binds the storage backend, rehydrates the catalog from files that
// survived a restart and launches the sweeper.
func (s *Store) Start(ctx context.Context) error {
	st := s.src.Storage()
	if st == nil {
		return fmt.Errorf("audiostore: storage not started")
	}

	put := provider.NewFunc("audiostore", func(ctx context.Context, req putRequest) (struct{}, error) {
		return struct{}{}, st.Put(ctx, req.name, bytes.NewReader(req.data))
	})
	get := provider.NewFunc("audiostore", func(ctx context.Context, name string) (io.ReadCloser, error) {
		return st.Get(ctx, name)
	})

	s.mu.Lock()
	s.put = provider.Stage[putRequest, struct{}](
		put,
		provider.StageOptions{
			Stage:     "storage",
			Operation: "save",
			Log:       s.log,
			Metrics:   s.metrics,
			Timeout:   s.cfg.WriteTimeout,
		},
	)
	// No timeout: the body is streamed after Execute returns.
	s.get = provider.Stage[string, io.ReadCloser](
		get,
		provider.StageOptions{
			Stage:     "storage",
			Operation: "open",
			Log:       s.log,
			Metrics:   s.metrics,
		},
	)
	s.mu.Unlock()

	files, err := st.List(ctx, Prefix)
	if err != nil {
		return fmt.Errorf("audiostore: list existing files: %w", err)
	}
	restored := 0
	s.mu.Lock()
	for _, f := range files {
		if !ValidName(f.Key) {
			continue
		}
		s.entries[f.Key] = entry{created: f.Modified, size: f.Size}
		restored++
	}
	s.mu.Unlock()
	s.log.Info("audio catalog restored", logger.Fields("files", restored))

	if _, err := s.Sweep(ctx, s.now()); err != nil {
		s.log.Warn("initial sweep incomplete", logger.MergeWithError(nil, err))
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.sweepLoop()
	return nil
}

// Stop halts the sweeper. Files are left in storage.
func (s *Store) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) sweepLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SweepInterval)
			if _, err := s.Sweep(ctx, s.now()); err != nil {
				s.log.Warn("sweep incomplete", logger.MergeWithError(nil, err))
			}
			cancel()
		}
	}
}

// Save stores data under name and records it as servable.
func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if !ValidName(name) {
		return fmt.Errorf("audiostore: %q is not a generated file name", name)
	}
	s.mu.RLock()
	put := s.put
	s.mu.RUnlock()
	if put == nil {
		return errors.ServiceUnavailable("audiostore")
	}

	if _, err := put.Execute(ctx, putRequest{name: name, data: data}); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[name] = entry{created: s.now(), size: int64(len(data))}
	s.mu.Unlock()
	return nil
}

// Open returns a generated file. Names that were not generated by this
// service, or have aged out, are NOT_FOUND.
func (s *Store) Open(ctx context.Context, name string) (*File, error) {
	if !ValidName(name) {
		return nil, errors.NotFound("file", name)
	}
	s.mu.RLock()
	e, known := s.entries[name]
	get := s.get
	s.mu.RUnlock()
	if !known || s.expired(e, s.now()) {
		return nil, errors.NotFound("file", name)
	}
	if get == nil {
		return nil, errors.ServiceUnavailable("audiostore")
	}

	body, err := get.Execute(ctx, name)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			s.forget(name)
			return nil, errors.NotFound("file", name)
		}
		return nil, errors.Internal(err)
	}

	if s.cfg.DeleteAfterServe {
		body = &deleteOnEOF{ReadCloser: body, onDone: func() { s.remove(name) }}
	}
	return &File{Name: name, ContentType: ContentType(name), Size: e.size, Body: body}, nil
}

// Sweep deletes every entry older than the retention window at now and
// returns how many were removed.
func (s *Store) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.RLock()
	var stale []string
	for name, e := range s.entries {
		if s.expired(e, now) {
			stale = append(stale, name)
		}
	}
	s.mu.RUnlock()
	sort.Strings(stale)

	st := s.src.Storage()
	if st == nil {
		return 0, fmt.Errorf("audiostore: storage not started")
	}

	var errs []error
	removed := 0
	for _, name := range stale {
		if err := st.Delete(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
			continue
		}
		s.forget(name)
		removed++
	}

	if removed > 0 {
		s.metrics.RecordEvictions(ctx, removed)
		s.log.Info("expired audio removed", logger.Fields("files", removed, "remaining", s.Len()))
	}
	return removed, stderrors.Join(errs...)
}

// Len returns the number of servable files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(e entry, now time.Time) bool {
	return now.Sub(e.created) >= s.cfg.MaxAge
}

func (s *Store) forget(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.mu.Unlock()
}

func (s *Store) remove(name string) {
	s.forget(name)
	st := s.src.Storage()
	if st == nil {
		return
	}
	if err := st.Delete(context.Background(), name); err != nil {
		s.log.Warn("delete after serve failed", logger.MergeWithError(logger.Fields(logger.FieldFile, name), err))
	}
}

// Health reports the catalog size.
func (s *Store) Health(_ context.Context) component.Health {
	s.mu.RLock()
	started := s.put != nil
	s.mu.RUnlock()
	if !started {
		return component.Unhealthy(s.Name(), "not started")
	}
	return component.Healthy(s.Name(), fmt.Sprintf("%d files", s.Len()))
}

// Describe returns the startup summary line.
func (s *Store) Describe() component.Description {
	return component.Description{
		Name: "Audio store",
		Type: "retention",
		Details: fmt.Sprintf("max_age=%s sweep_interval=%s delete_after_serve=%t",
			s.cfg.MaxAge, s.cfg.SweepInterval, s.cfg.DeleteAfterServe),
	}
}

// deleteOnEOF runs onDone once the body has been read to the end and closed.
type deleteOnEOF struct {
	io.ReadCloser
	eof    bool
	once   sync.Once
	onDone func()
}

func (d *deleteOnEOF) Read(p []byte) (int, error) {
	n, err := d.ReadCloser.Read(p)
	if err == io.EOF {
		d.eof = true
	}
	return n, err
}

func (d *deleteOnEOF) Close() error {
	err := d.ReadCloser.Close()
	if d.eof {
		d.once.Do(d.onDone)
	}
	return err
}
