package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"slot-aggregator/core/provider"
	"slot-aggregator/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ObjectStore keeps the snapshot as a single JSON object in a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	object string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewObjectStore creates a bucket-backed store.
func NewObjectStore(client storage.Client, bucket, object string, logger *zap.Logger) *ObjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectStore{client: client, bucket: bucket, object: object, logger: logger}
}

func (s *ObjectStore) Load(ctx context.Context) map[string]provider.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

func (s *ObjectStore) Upsert(ctx context.Context, e provider.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.read(ctx)
	snapshot[e.ID] = e
	return s.write(ctx, snapshot)
}

func (s *ObjectStore) RemoveStale(ctx context.Context, activeIDs []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.read(ctx)
	removed := stale(snapshot, activeIDs)
	if len(removed) == 0 {
		return nil, nil
	}
	for _, id := range removed {
		delete(snapshot, id)
	}
	if err := s.write(ctx, snapshot); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *ObjectStore) read(ctx context.Context) map[string]provider.Entity {
	data, err := storage.ReadObject(ctx, s.client, s.bucket, s.object)
	if err != nil {
		if !storage.IsNotFound(err) {
			s.logger.Warn("Store object unreadable, starting empty", zap.String("object", s.object), zap.Error(err))
		}
		return make(map[string]provider.Entity)
	}
	snapshot, err := decode(data, s.logger)
	if err != nil {
		s.logger.Warn("Store object corrupt, starting empty", zap.String("object", s.object), zap.Error(err))
	}
	return snapshot
}

func (s *ObjectStore) write(ctx context.Context, snapshot map[string]provider.Entity) error {
	data, err := encode(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload store object: %w", err)
	}
	return nil
}
