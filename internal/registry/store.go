package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"vanity_gateway/internal/utils"
)

// Store holds the current registry snapshot and swaps it atomically when the
// backing document changes. Requests call Snapshot once and keep that view,
// so a reload mid-request is never observed partially.
type Store struct {
	path   string
	logger *utils.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewStore loads the document at path and returns a store serving it.
func NewStore(path string) (*Store, error) {
	snap, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		path:     path,
		logger:   utils.NewLogger("registry", utils.Info),
		snapshot: snap,
	}, nil
}

// Snapshot returns the current immutable provider set.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Reload re-reads the backing document. A document that fails to parse or
// validate leaves the previous snapshot in place.
func (s *Store) Reload() error {
	snap, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("registry reloaded", "providers", snap.Len())
	return nil
}

// Watch reloads the store whenever the backing document is rewritten. It
// blocks until ctx is done. Editors often replace files via rename, so the
// watch is on the parent directory rather than the file itself.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error("registry reload failed, keeping previous snapshot", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("registry watcher error", "error", err)
		}
	}
}
