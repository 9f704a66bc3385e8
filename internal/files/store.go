package files

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"cnhpulse/internal/dataprocessing"
	apperrors "cnhpulse/internal/errors"
)

// TableLoader parses a source file into a table
type TableLoader interface {
	Load(ctx context.Context, path string) (*dataprocessing.Table, error)
}

// LoadObserver receives store events. Implementations must be safe for
// concurrent use.
type LoadObserver interface {
	CacheHit(ctx context.Context)
	CacheMiss(ctx context.Context)
	TableLoaded(ctx context.Context, d time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) CacheHit(context.Context) {}
func (noopObserver) CacheMiss(context.Context) {}
func (noopObserver) TableLoaded(context.Context, time.Duration, error) {}

// TableStore memoizes loaded tables by absolute path, modification time and
// size. A changed file produces a new key and is parsed again; concurrent
// requests for the same key share one parse.
type TableStore struct {
	loader   TableLoader
	cache    *cache.Cache
	group    singleflight.Group
	observer LoadObserver
	logger   *slog.Logger

	mu      sync.Mutex
	current map[string]string // absolute path -> live cache key
}

// StoreOption configures a TableStore
type StoreOption func(*TableStore)

// WithObserver reports cache and load events to o
func WithObserver(o LoadObserver) StoreOption {
	return func(s *TableStore) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewTableStore creates a store whose entries expire after ttl
func NewTableStore(loader TableLoader, ttl time.Duration, logger *slog.Logger, opts ...StoreOption) *TableStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TableStore{
		loader:   loader,
		cache:    cache.New(ttl, 2*ttl),
		observer: noopObserver{},
		logger:   logger.With(slog.String("component", "table_store")),
		current:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the table for path, parsing it at most once per file version
func (s *TableStore) Get(ctx context.Context, path string) (*dataprocessing.Table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, "resolve path", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, apperrors.NewDataLoadError(abs, "stat source file", err)
	}
	if info.IsDir() {
		return nil, apperrors.NewDataLoadError(abs, "source is a directory", nil)
	}

	key := fmt.Sprintf("%s|%d|%d", abs, info.ModTime().UnixNano(), info.Size())

	if v, ok := s.cache.Get(key); ok {
		s.observer.CacheHit(ctx)
		return v.(*dataprocessing.Table), nil
	}
	s.observer.CacheMiss(ctx)

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}

		// Detached so one caller's cancellation does not fail the others.
		loadCtx := context.WithoutCancel(ctx)
		start := time.Now()
		t, err := s.loader.Load(loadCtx, abs)
		s.observer.TableLoaded(loadCtx, time.Since(start), err)
		if err != nil {
			return nil, err
		}

		s.cache.Set(key, t, cache.DefaultExpiration)
		s.replace(abs, key)
		return t, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.DebugContext(ctx, "table load shared", slog.String("path", abs))
	}
	return v.(*dataprocessing.Table), nil
}

// replace records key as the live version of path and drops the old one
func (s *TableStore) replace(path, key string) {
	s.mu.Lock()
	old, ok := s.current[path]
	s.current[path] = key
	s.mu.Unlock()

	if ok && old != key {
		s.cache.Delete(old)
		s.logger.Info("source changed, dropped stale table", slog.String("path", path))
	}
}

// Invalidate forgets any cached table for path
func (s *TableStore) Invalidate(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	s.mu.Lock()
	key, ok := s.current[abs]
	delete(s.current, abs)
	s.mu.Unlock()

	if ok {
		s.cache.Delete(key)
	}
}

// Len returns the number of cached tables
func (s *TableStore) Len() int {
	return s.cache.ItemCount()
}
