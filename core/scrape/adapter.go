package scrape

import (
	"context"
	"errors"
	"time"

	"slot-aggregator/core/browser"
	"slot-aggregator/core/httpx"
	"slot-aggregator/core/logger"
	"slot-aggregator/core/provider"

	"go.uber.org/zap"
)

// Adapter translates one upstream's availability into normalized entities.
type Adapter interface {
	// Name identifies the adapter instance in logs, usually the provider id.
	Name() string
	// Scrape fetches availability. Transient and parse failures are absorbed into
	// zero-slot entities; a returned error means the configuration is unusable.
	Scrape(ctx context.Context) ([]provider.Entity, error)
}

// Factory builds an adapter for one provider configuration.
type Factory func(cfg provider.Config, opts Options) (Adapter, error)

// Options are the request defaults handed to every factory.
type Options struct {
	UserAgent   string
	Headers     map[string]string
	HTTPTimeout time.Duration
	// Location interprets naive upstream timestamps.
	Location *time.Location
	LeadTime time.Duration
	// Now is the clock. Nil means time.Now.
	Now func() time.Time
	// Sleep paces paginated requests. Nil means a context-aware time.Sleep.
	Sleep   func(ctx context.Context, d time.Duration) error
	HTTP    httpx.Doer
	Browser browser.Launcher
	Logger  *zap.Logger
}

// Clock returns the current time according to Now.
func (o Options) Clock() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Loc returns Location, falling back to UTC.
func (o Options) Loc() *time.Location {
	if o.Location != nil {
		return o.Location
	}
	return time.UTC
}

// HTTPClient returns the HTTP capability, or a config error when none is wired.
func (o Options) HTTPClient() (httpx.Doer, error) {
	if o.HTTP == nil {
		return nil, provider.Configf("no http client configured")
	}
	return o.HTTP, nil
}

// Launcher returns the browser capability, or a config error when none is wired.
func (o Options) Launcher() (browser.Launcher, error) {
	if o.Browser == nil {
		return nil, provider.Configf("no browser configured")
	}
	return o.Browser, nil
}

// Pause waits for d unless ctx ends first.
func (o Options) Pause(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Base carries the configuration and helpers every adapter shares.
type Base struct {
	Config provider.Config
	Opts   Options
	Log    *zap.Logger
}

// NewBase builds a Base with a logger scoped to the provider.
func NewBase(cfg provider.Config, opts Options) Base {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return Base{Config: cfg, Opts: opts, Log: logger.WithProvider(l, cfg.ID, cfg.Type)}
}

// Name returns the provider id.
func (b Base) Name() string { return b.Config.ID }

// Finish turns the outcome of a scrape into the entity for b.Config.
func (b Base) Finish(slots []provider.Slot, err error) ([]provider.Entity, error) {
	e, err := b.FinishAs(b.Config, slots, err)
	if err != nil {
		return nil, err
	}
	return []provider.Entity{e}, nil
}

// FinishAs is Finish for adapters that expand one configuration into several entities.
// Config errors are returned; any other failure is logged and yields zero slots.
func (b Base) FinishAs(cfg provider.Config, slots []provider.Slot, err error) (provider.Entity, error) {
	if err != nil {
		if errors.Is(err, provider.ErrConfig) {
			b.Log.Warn("Provider misconfigured", zap.String("entity", cfg.ID), zap.Error(err))
			return provider.Entity{}, err
		}
		b.Log.Warn("Scrape failed, recording no slots",
			zap.String("entity", cfg.ID),
			zap.String("kind", provider.Kind(err)),
			zap.Error(err))
		slots = nil
	}
	e := cfg.NewEntity(slots)
	e.SortSlots()
	return e, nil
}
