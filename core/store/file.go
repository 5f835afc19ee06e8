package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"slot-aggregator/core/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore keeps the snapshot in one JSON file, replaced atomically on every write.
type FileStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) map[string]provider.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Upsert(ctx context.Context, e provider.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.read()
	snapshot[e.ID] = e
	return s.write(snapshot)
}

func (s *FileStore) RemoveStale(ctx context.Context, activeIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.read()
	removed := stale(snapshot, activeIDs)
	if len(removed) == 0 {
		return nil, nil
	}
	for _, id := range removed {
		delete(snapshot, id)
	}
	if err := s.write(snapshot); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *FileStore) read() map[string]provider.Entity {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Store unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
		}
		return make(map[string]provider.Entity)
	}
	snapshot, err := decode(data, s.logger)
	if err != nil {
		s.logger.Warn("Store corrupt, starting empty", zap.String("path", s.path), zap.Error(err))
	}
	return snapshot
}

// write replaces the file through a temp file in the same directory, so readers
// never observe a partial document.
func (s *FileStore) write(snapshot map[string]provider.Entity) error {
	data, err := encode(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}
