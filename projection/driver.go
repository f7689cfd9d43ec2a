/*
driver.go - Projection driver

PURPOSE:
  Runs the whole projection: dispatches every contract to its product
  strategy, enforces the horizon, and merges everything into one globally
  date-ordered sequence for the forecast view.

FAIL-SOFT:
  One broken contract (unparseable dates, a panicking strategy) must not
  abort the portfolio projection. The driver skips that contract's events
  and continues. The engine has no fatal conditions of its own - the only
  Project errors are an invalid configuration or a canceled context.

CONCURRENCY:
  Contracts are independent, so they are projected in parallel; the only
  cross-contract step is the final merge-and-sort after all per-contract
  work completes. Results are collected per input slot, which keeps the
  output deterministic regardless of goroutine scheduling.

HORIZON:
  HorizonYears is a required, explicit parameter. Call sites historically
  disagreed on a default (5 vs 12 years), so there is no implicit one -
  callers must decide.

SEE ALSO:
  - strategy.go: Per-product dispatch table
  - aggregate.go: Month/year grouping for presentation
*/
package projection

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config parameterizes a projection run.
type Config struct {
	// AsOf anchors the horizon. Zero means today. Tests pin it.
	AsOf Date

	// HorizonYears bounds the forecast. Required, must be positive.
	HorizonYears int

	// CutoffDay for payout date estimation. Zero means DefaultCutoffDay.
	CutoffDay int
}

func (cfg Config) validate() error {
	if cfg.HorizonYears <= 0 {
		return ErrHorizonRequired
	}
	if cfg.CutoffDay < 0 || cfg.CutoffDay > 31 {
		return ErrInvalidCutoffDay
	}
	return nil
}

// =============================================================================
// PROJECTOR
// =============================================================================

// Projector projects contract portfolios into payout event sequences.
// The zero value is ready to use.
type Projector struct {
	// Concurrency bounds parallel per-contract computation.
	// Zero means a small default.
	Concurrency int
}

const defaultConcurrency = 8

// Project computes every forecast payout event for the given contracts up
// to AsOf + HorizonYears, sorted by date ascending.
//
// Re-running with identical inputs returns an identical event set - the
// UI re-derives and caches aggregates from it.
func (p *Projector) Project(ctx context.Context, contracts []Contract, cfg Config) ([]PayoutEvent, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	asOf := cfg.AsOf
	if asOf.IsZero() {
		asOf = Today()
	}
	horizonEnd := asOf.AddYears(cfg.HorizonYears)

	cutoff := cfg.CutoffDay
	if cutoff == 0 {
		cutoff = DefaultCutoffDay
	}

	limit := p.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	// Per-slot results keep the pre-sort concatenation in input order,
	// independent of scheduling.
	results := make([][]PayoutEvent, len(contracts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range contracts {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = projectContract(contracts[i], horizonEnd, cutoff)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events := make([]PayoutEvent, 0, len(contracts)*4)
	for _, evs := range results {
		events = append(events, evs...)
	}

	sort.SliceStable(events, func(a, b int) bool {
		return events[a].Date.Before(events[b].Date)
	})
	return events, nil
}

// projectContract computes one contract's events. Always returns (possibly
// nil) events, never propagates a failure.
func projectContract(c Contract, horizonEnd Date, cutoffDay int) (events []PayoutEvent) {
	// A strategy fed a malformed contract may panic on date arithmetic.
	// That contract contributes zero events; the run continues.
	defer func() {
		if r := recover(); r != nil {
			events = nil
		}
	}()

	if c.EffectiveStart().IsZero() {
		return nil
	}

	lines := ExtractLines(c.Lines)
	raw := StrategyFor(c.Product).Events(c, lines, horizonEnd, cutoffDay)

	// Backstop the shared invariants regardless of how each strategy
	// ordered its own checks: nothing past the horizon, nothing zero.
	events = raw[:0]
	for _, ev := range raw {
		if ev.Amount.IsZero() || ev.Date.After(horizonEnd) {
			continue
		}
		events = append(events, ev)
	}
	return events
}
