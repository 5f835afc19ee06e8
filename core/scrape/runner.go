package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"slot-aggregator/core/provider"

	"go.uber.org/zap"
)

// Sink receives the results of a run. store.Store satisfies it.
type Sink interface {
	Upsert(ctx context.Context, e provider.Entity) error
	RemoveStale(ctx context.Context, activeIDs []string) ([]string, error)
}

// Outcome is the result of one provider in a run.
type Outcome struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Entities int           `json:"entities"`
	Slots    int           `json:"slots"`
	Error    string        `json:"error,omitempty"`
	Kind     string        `json:"kind,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report summarizes one batch run.
type Report struct {
	Started   time.Time         `json:"started"`
	Duration  time.Duration     `json:"duration"`
	Providers int               `json:"providers"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Skipped   []Skip            `json:"skipped"`
	Removed   []string          `json:"removed"`
	Persisted int               `json:"persisted"`
	Outcomes  []Outcome         `json:"outcomes"`
	Entities  []provider.Entity `json:"-"`
}

// Runner executes one batch run over a set of provider configurations.
type Runner struct {
	Registry *Registry
	// Sink persists results. Nil runs without persisting.
	Sink    Sink
	Options Options
	// MaxSlots caps each entity's slots after sorting. Zero or less disables the cap.
	MaxSlots int
	// KeepStale skips stale eviction, for partial runs.
	KeepStale bool
	Logger    *zap.Logger
}

type job struct {
	cfg     provider.Config
	adapter Adapter
	result  []provider.Entity
	err     error
	elapsed time.Duration
}

// Run evicts stale ids, scrapes every valid configuration concurrently, caps the
// slots of each entity and upserts them. One provider failing never affects another.
func (r *Runner) Run(ctx context.Context, configs []provider.Config) (*Report, error) {
	if r.Registry == nil {
		return nil, fmt.Errorf("runner has no adapter registry")
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &Report{Started: time.Now(), Providers: len(configs), Skipped: []Skip{}, Removed: []string{}}

	valid, skipped := r.Registry.Validate(configs)
	for _, s := range skipped {
		logger.Warn("Skipping provider", zap.String("provider", s.ID), zap.String("type", s.Type), zap.String("reason", s.Reason))
	}
	report.Skipped = append(report.Skipped, skipped...)

	if r.Sink != nil && !r.KeepStale {
		ids := make([]string, 0, len(configs))
		for _, c := range configs {
			if c.ID != "" {
				ids = append(ids, c.ID)
			}
		}
		removed, err := r.Sink.RemoveStale(ctx, ids)
		if err != nil {
			logger.Error("Stale eviction failed", zap.Error(err))
		} else if len(removed) > 0 {
			logger.Info("Removed stale providers", zap.Strings("ids", removed))
			report.Removed = removed
		}
	}

	jobs := make([]*job, 0, len(valid))
	for _, c := range valid {
		factory, _ := r.Registry.Lookup(c.Type)
		j := &job{cfg: c}
		j.adapter, j.err = factory(c, r.Options)
		jobs = append(jobs, j)
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		if j.err != nil {
			continue
		}
		wg.Add(1)
		go func(j *job) {
			defer wg.Done()
			started := time.Now()
			defer func() {
				j.elapsed = time.Since(started)
				if p := recover(); p != nil {
					j.result = nil
					j.err = fmt.Errorf("adapter panicked: %v", p)
				}
			}()
			j.result, j.err = j.adapter.Scrape(ctx)
		}(j)
	}
	wg.Wait()

	for _, j := range jobs {
		out := Outcome{ID: j.cfg.ID, Type: j.cfg.Type, Duration: j.elapsed}
		if j.err != nil {
			out.Error = j.err.Error()
			out.Kind = provider.Kind(j.err)
			report.Failed++
			logger.Error("Provider failed",
				zap.String("provider", j.cfg.ID),
				zap.String("type", j.cfg.Type),
				zap.String("kind", out.Kind),
				zap.Error(j.err))
			report.Outcomes = append(report.Outcomes, out)
			continue
		}
		report.Succeeded++

		for _, e := range j.result {
			e.CapSlots(r.MaxSlots)
			out.Entities++
			out.Slots += len(e.Slots)
			report.Entities = append(report.Entities, e)

			if r.Sink == nil {
				continue
			}
			if err := r.Sink.Upsert(ctx, e); err != nil {
				logger.Error("Failed to persist entity", zap.String("entity", e.ID), zap.Error(err))
				out.Error = err.Error()
				continue
			}
			report.Persisted++
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	report.Duration = time.Since(report.Started)
	logger.Info("Scrape run finished",
		zap.Int("providers", report.Providers),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("persisted", report.Persisted),
		zap.Duration("duration", report.Duration))

	return report, nil
}
