package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"slot-aggregator/core/provider"
	"slot-aggregator/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Loader reads provider configurations from a directory and, optionally, a bucket.
type Loader struct {
	cfg    Config
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewLoader creates a registry loader. client may be nil when the bucket source is disabled.
func NewLoader(cfg Config, client storage.Client, bucket string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cfg: cfg, client: client, bucket: bucket, logger: logger}
}

// Load returns every record of every registry file, concatenated in file name order.
// Only an unreadable directory or bucket listing is an error; malformed files are skipped.
func (l *Loader) Load(ctx context.Context) ([]provider.Config, error) {
	configs, err := LoadDir(l.cfg.Dir, l.logger)
	if err != nil {
		return nil, err
	}

	if l.cfg.BucketEnabled {
		if l.client == nil {
			return nil, fmt.Errorf("registry bucket source enabled without a storage client")
		}
		remote, err := l.loadBucket(ctx)
		if err != nil {
			return nil, err
		}
		configs = append(configs, remote...)
	}

	l.logger.Info("Registry loaded", zap.Int("providers", len(configs)))
	return configs, nil
}

// LoadDir reads every *.json file in dir.
func LoadDir(dir string, logger *zap.Logger) ([]provider.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var configs []provider.Config
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable registry file", zap.String("file", path), zap.Error(err))
			continue
		}
		records, err := Parse(data)
		if err != nil {
			logger.Warn("Skipping malformed registry file", zap.String("file", path), zap.Error(err))
			continue
		}
		configs = append(configs, records...)
	}
	return configs, nil
}

func (l *Loader) loadBucket(ctx context.Context) ([]provider.Config, error) {
	var names []string
	for obj := range l.client.ListObjects(ctx, l.bucket, minio.ListObjectsOptions{Prefix: l.cfg.Prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list registry objects: %w", obj.Err)
		}
		if strings.EqualFold(filepath.Ext(obj.Key), ".json") {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)

	var configs []provider.Config
	for _, name := range names {
		data, err := storage.ReadObject(ctx, l.client, l.bucket, name)
		if err != nil {
			l.logger.Warn("Skipping unreadable registry object", zap.String("object", name), zap.Error(err))
			continue
		}
		records, err := Parse(data)
		if err != nil {
			l.logger.Warn("Skipping malformed registry object", zap.String("object", name), zap.Error(err))
			continue
		}
		configs = append(configs, records...)
	}
	return configs, nil
}

// Parse decodes one registry file. The file must be a JSON array of objects.
func Parse(data []byte) ([]provider.Config, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, provider.Parsef("registry file is not an array of records: %v", err)
	}
	configs := make([]provider.Config, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		configs = append(configs, provider.FromMap(r))
	}
	return configs, nil
}
