package store

import (
	"context"
	"fmt"
	"sort"

	"slot-aggregator/core/provider"
	"slot-aggregator/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DriverFile = "file"
	DriverSQL  = "sql"
	DriverS3   = "s3"
)

// Store is the durable id to entity map.
type Store interface {
	// Load returns the persisted snapshot. It never fails: a missing or corrupt
	// store reads as empty.
	Load(ctx context.Context) map[string]provider.Entity
	// Upsert replaces the record with the entity's id and persists immediately.
	Upsert(ctx context.Context, e provider.Entity) error
	// RemoveStale deletes every record whose id is not in activeIDs and returns the removed ids.
	RemoveStale(ctx context.Context, activeIDs []string) ([]string, error)
}

// Backends carries the connections a backend may need.
type Backends struct {
	DB     *gorm.DB
	Client storage.Client
	Bucket string
	Logger *zap.Logger
}

// New creates the store selected by cfg.Driver.
func New(cfg Config, b Backends) (Store, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("store", cfg.Driver))

	switch cfg.Driver {
	case "", DriverFile:
		return NewFileStore(cfg.Path, logger), nil
	case DriverSQL:
		if b.DB == nil {
			return nil, fmt.Errorf("sql store requires a database connection")
		}
		return NewSQLStore(b.DB, logger)
	case DriverS3:
		if b.Client == nil {
			return nil, fmt.Errorf("s3 store requires a storage client")
		}
		return NewObjectStore(b.Client, b.Bucket, cfg.Object, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// stale returns the keys of snapshot not listed in active, sorted.
func stale(snapshot map[string]provider.Entity, activeIDs []string) []string {
	active := make(map[string]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}
	var out []string
	for id := range snapshot {
		if _, ok := active[id]; !ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
