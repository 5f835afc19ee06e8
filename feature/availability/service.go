package availability

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"slot-aggregator/core/consolidate"
	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"
	"slot-aggregator/core/store"

	"go.uber.org/zap"
)

var (
	// ErrRefreshDisabled is returned when the service was built without a refresher.
	ErrRefreshDisabled = errors.New("refresh is not available")
	// ErrRefreshRunning is returned while another refresh is in progress.
	ErrRefreshRunning = errors.New("a refresh is already running")
	// ErrUnknownPlace is returned when a near address cannot be geocoded.
	ErrUnknownPlace = errors.New("address not found")
)

// Refresher runs one batch scrape.
type Refresher func(ctx context.Context) (*scrape.Report, error)

// Geocoder resolves addresses for distance ordering.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*provider.Coordinates, error)
}

// Query describes one consolidated view.
type Query struct {
	Filter consolidate.Filter
	Order  consolidate.Order
	Origin *provider.Coordinates
	// Near is geocoded into Origin when Origin is nil.
	Near string
}

// Service serves consolidated availability from the store.
type Service struct {
	store    store.Store
	logger   *zap.Logger
	ttl      time.Duration
	refresh  Refresher
	geocoder Geocoder
	now      func() time.Time

	cache      cacheStore
	refreshing atomic.Bool
}

// NewService creates a new availability service. refresh and geocoder may be nil.
func NewService(st store.Store, logger *zap.Logger, ttl time.Duration, refresh Refresher, geocoder Geocoder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    st,
		logger:   logger,
		ttl:      ttl,
		refresh:  refresh,
		geocoder: geocoder,
		now:      time.Now,
	}
}

// Snapshot returns the store contents, cached for the configured TTL.
func (s *Service) Snapshot(ctx context.Context) map[string]provider.Entity {
	return s.cache.getOrLoad(ctx, s.ttl, s.store.Load).Entities
}

// Groups builds the consolidated view for q.
func (s *Service) Groups(ctx context.Context, q Query) ([]consolidate.Group, error) {
	origin := q.Origin
	if origin == nil && q.Near != "" {
		if s.geocoder == nil {
			return nil, ErrUnknownPlace
		}
		found, err := s.geocoder.Geocode(ctx, q.Near)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrUnknownPlace
		}
		origin = found
	}

	snapshot := s.Snapshot(ctx)
	if q.Filter.Active() {
		snapshot = q.Filter.Apply(snapshot)
	}
	return consolidate.Build(snapshot, consolidate.Options{
		Now:    s.now(),
		Order:  q.Order,
		Origin: origin,
	}), nil
}

// Raw returns the filtered entities ordered by id.
func (s *Service) Raw(ctx context.Context, f consolidate.Filter) []provider.Entity {
	snapshot := s.Snapshot(ctx)
	if f.Active() {
		snapshot = f.Apply(snapshot)
	}
	out := make([]provider.Entity, 0, len(snapshot))
	for _, e := range snapshot {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Refresh runs a batch scrape and drops the cached snapshot. Only one refresh runs at a time.
func (s *Service) Refresh(ctx context.Context) (*scrape.Report, error) {
	if s.refresh == nil {
		return nil, ErrRefreshDisabled
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		return nil, ErrRefreshRunning
	}
	defer s.refreshing.Store(false)

	report, err := s.refresh(ctx)
	s.cache.invalidate()
	if err != nil {
		s.logger.Error("Refresh failed", zap.Error(err))
		return nil, err
	}
	return report, nil
}
