package cmd

import (
	"context"
	"fmt"
	"time"

	"slot-aggregator/core/config"
	"slot-aggregator/core/database"
	"slot-aggregator/core/geo"
	"slot-aggregator/core/httpx"
	"slot-aggregator/core/logger"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/registry"
	"slot-aggregator/core/scrape"
	"slot-aggregator/core/storage"
	"slot-aggregator/core/store"
	"slot-aggregator/feature/adapters/all"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env holds what the commands share after start-up.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
	store  store.Store
}

// setup loads configuration, builds the logger and opens the backends the
// configured store driver and registry source need.
func setup(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	e := &env{cfg: cfg, logger: l}

	if cfg.Store.Driver == store.DriverS3 || cfg.Registry.BucketEnabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
		if cfg.Store.Driver == store.DriverS3 {
			if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
				return nil, fmt.Errorf("failed to prepare bucket: %w", err)
			}
		}
		e.client = client
	}

	var db *gorm.DB
	if cfg.Store.Driver == store.DriverSQL {
		db, err = database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		l.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	st, err := store.New(cfg.Store, store.Backends{
		DB:     db,
		Client: e.client,
		Bucket: cfg.Storage.Bucket,
		Logger: l,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	e.store = st

	return e, nil
}

// batch describes one scrape run.
type batch struct {
	// RegistryDir overrides registry.dir when set.
	RegistryDir string
	// DryRun runs without persisting.
	DryRun bool
	// Only restricts the run to these provider ids and keeps other records.
	Only []string
}

// runBatch loads the registry and runs every adapter once.
func (e *env) runBatch(ctx context.Context, b batch) (*scrape.Report, error) {
	regCfg := e.cfg.Registry
	if b.RegistryDir != "" {
		regCfg.Dir = b.RegistryDir
	}

	configs, err := registry.NewLoader(regCfg, e.client, e.cfg.Storage.Bucket, e.logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	if len(b.Only) > 0 {
		configs = onlyIDs(configs, b.Only)
		if len(configs) == 0 {
			return nil, fmt.Errorf("no provider matches %v", b.Only)
		}
	}

	opts, err := scrape.NewOptions(e.cfg.Scrape, e.logger)
	if err != nil {
		return nil, err
	}

	var sink scrape.Sink
	if !b.DryRun {
		sink = e.store
	}

	runner := &scrape.Runner{
		Registry:  all.NewRegistry(),
		Sink:      sink,
		Options:   opts,
		MaxSlots:  e.cfg.Scrape.MaxSlots,
		KeepStale: len(b.Only) > 0,
		Logger:    e.logger,
	}
	return runner.Run(ctx, configs)
}

// geocoder builds the address lookup used for distance ordering.
func (e *env) geocoder() *geo.Geocoder {
	timeout := time.Duration(e.cfg.Scrape.HTTPTimeoutSeconds) * time.Second
	client := httpx.NewClient(timeout, e.cfg.Scrape.UserAgent, nil)
	return geo.NewGeocoder(client, e.cfg.Geo.URL, e.cfg.Geo.CountryCodes, e.cfg.Scrape.UserAgent)
}

func onlyIDs(configs []provider.Config, ids []string) []provider.Config {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []provider.Config
	for _, c := range configs {
		if want[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
