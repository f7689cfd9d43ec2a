/*
scheduler.go - Background forecast refresher

PURPOSE:
  Periodically recomputes every owner's payout forecast and keeps a
  per-owner summary snapshot (next payout, totals per horizon) warm for
  the dashboard. The projection itself stays pure and on-demand; this is
  only a cache on top of it.

DESIGN:
  - Runs a background goroutine with a configurable refresh interval
  - Walks all owners in the contract store, projects each portfolio
  - One slow or broken portfolio never blocks the others; errors are
    logged and that owner's previous snapshot stays in place

CONFIGURATION:
  - RefreshInterval: How often to refresh (default: 1 hour)
  - HorizonYears:    Projection horizon for the snapshots (default: 5)
  - Enabled:         Whether the refresher is active (default: true)

USAGE:
  sched := NewForecastScheduler(contracts, handler.Projector)
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - handlers.go: On-demand forecast endpoints
  - projection/driver.go: The projection itself
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warp/commission-engine/projection"
	"github.com/warp/commission-engine/store"
)

// ForecastSnapshot is one owner's cached forecast summary.
type ForecastSnapshot struct {
	Owner        projection.Owner
	ComputedAt   time.Time
	HorizonYears int
	EventCount   int

	// NextPayout is the earliest event on or after the refresh date.
	// Zero-valued when the forecast is empty.
	NextPayout projection.PayoutEvent

	// Total is the sum over the whole horizon.
	Total projection.Amount
}

// ForecastScheduler keeps per-owner forecast snapshots fresh.
type ForecastScheduler struct {
	Contracts       store.Contracts
	Projector       *projection.Projector
	RefreshInterval time.Duration
	HorizonYears    int
	Enabled         bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	snapMu    sync.RWMutex
	snapshots map[projection.Owner]ForecastSnapshot
}

// NewForecastScheduler creates a scheduler with default settings.
func NewForecastScheduler(contracts store.Contracts, projector *projection.Projector) *ForecastScheduler {
	if projector == nil {
		projector = &projection.Projector{}
	}
	return &ForecastScheduler{
		Contracts:       contracts,
		Projector:       projector,
		RefreshInterval: 1 * time.Hour,
		HorizonYears:    5,
		Enabled:         true,
		stop:            make(chan struct{}),
		snapshots:       make(map[projection.Owner]ForecastSnapshot),
	}
}

// Start begins the background refresh loop.
func (fs *ForecastScheduler) Start() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if !fs.Enabled {
		zap.L().Info("forecast scheduler disabled, not starting")
		return
	}

	fs.ticker = time.NewTicker(fs.RefreshInterval)
	fs.wg.Add(1)

	go fs.run()

	zap.L().Info("forecast scheduler started",
		zap.Duration("interval", fs.RefreshInterval),
		zap.Int("horizon_years", fs.HorizonYears))
}

// Stop stops the refresh loop and waits for an in-flight pass to finish.
func (fs *ForecastScheduler) Stop() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.ticker != nil {
		fs.ticker.Stop()
		close(fs.stop)
		fs.wg.Wait()
		zap.L().Info("forecast scheduler stopped")
	}
}

func (fs *ForecastScheduler) run() {
	defer fs.wg.Done()

	// Warm the cache immediately on start
	fs.RefreshAll(context.Background())

	for {
		select {
		case <-fs.ticker.C:
			fs.RefreshAll(context.Background())
		case <-fs.stop:
			return
		}
	}
}

// RefreshAll recomputes every owner's snapshot. Exposed for tests and for
// an admin trigger.
func (fs *ForecastScheduler) RefreshAll(ctx context.Context) {
	owners, err := fs.Contracts.Owners(ctx)
	if err != nil {
		zap.L().Error("forecast refresh: listing owners failed", zap.Error(err))
		return
	}

	refreshed := 0
	for _, owner := range owners {
		if err := fs.refreshOwner(ctx, owner); err != nil {
			zap.L().Warn("forecast refresh failed, keeping previous snapshot",
				zap.String("owner", string(owner)),
				zap.Error(err))
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		zap.L().Info("forecast snapshots refreshed", zap.Int("owners", refreshed))
	}
}

func (fs *ForecastScheduler) refreshOwner(ctx context.Context, owner projection.Owner) error {
	recs, err := fs.Contracts.ListByOwner(ctx, owner)
	if err != nil {
		return err
	}
	contracts := make([]projection.Contract, len(recs))
	for i, rec := range recs {
		contracts[i] = rec.Contract
	}

	asOf := projection.Today()
	events, err := fs.Projector.Project(ctx, contracts, projection.Config{
		AsOf:         asOf,
		HorizonYears: fs.HorizonYears,
	})
	if err != nil {
		return err
	}

	snap := ForecastSnapshot{
		Owner:        owner,
		ComputedAt:   time.Now().UTC(),
		HorizonYears: fs.HorizonYears,
		EventCount:   len(events),
	}
	for _, ev := range events {
		if snap.Total.Currency == "" {
			snap.Total.Currency = ev.Amount.Currency
		}
		snap.Total = snap.Total.Add(ev.Amount)
	}
	// Events are date-sorted, so the first one at or past as-of wins.
	for _, ev := range events {
		if ev.Date.AfterOrEqual(asOf) {
			snap.NextPayout = ev
			break
		}
	}

	fs.snapMu.Lock()
	fs.snapshots[owner] = snap
	fs.snapMu.Unlock()
	return nil
}

// Snapshot returns the cached summary for an owner, if one exists.
func (fs *ForecastScheduler) Snapshot(owner projection.Owner) (ForecastSnapshot, bool) {
	fs.snapMu.RLock()
	defer fs.snapMu.RUnlock()
	snap, ok := fs.snapshots[owner]
	return snap, ok
}

// NextRunTime returns when the next refresh will occur.
func (fs *ForecastScheduler) NextRunTime() time.Time {
	return time.Now().Add(fs.RefreshInterval)
}
