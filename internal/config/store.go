package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Source hands out the configuration snapshot to read for one decision.
// Snapshots are never mutated after they are published.
type Source interface {
	Current() *Config
}

type staticSource struct{ cfg *Config }

func (s staticSource) Current() *Config { return s.cfg }

// Static returns a Source that always yields cfg.
func Static(cfg *Config) Source {
	return staticSource{cfg: cfg}
}

// Store owns the config file and publishes immutable snapshots of it.
type Store struct {
	path string
	log  zerolog.Logger

	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[Config]
}

// NewStore loads path and returns a store serving it.
func NewStore(path string, log zerolog.Logger) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path, log: log}
	s.cur.Store(cfg)
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Current() *Config { return s.cur.Load() }

// Update applies fn to a copy of the current snapshot, validates and saves
// it, then publishes it. The current snapshot is unchanged on any error.
func (s *Store) Update(fn func(*Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cur.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	if err := next.Save(s.path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	s.cur.Store(next)
	return nil
}

// Reload re-reads the file. An unreadable or invalid file leaves the
// current snapshot in place.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.cur.Store(cfg)
	return nil
}

// Watch reloads the config whenever the file changes on disk, until ctx is
// done. The parent directory is watched so editors that replace the file
// are picked up too.
func (s *Store) Watch(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.log.Warn().Err(err).Str("path", s.path).Msg("Config reload failed, keeping previous settings")
				continue
			}
			s.log.Info().Str("path", s.path).Msg("Config reloaded")

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("Config watcher error")
		}
	}
}
