/*
strategy.go - Per-product payout strategy interface and registry

PURPOSE:
  Each insurance product variant pays commission on its own temporal rule:
  a lump sum, anniversary-indexed bonuses, recurring payments stepped by
  payment frequency, or a hybrid of those. A PayoutStrategy encapsulates
  one such rule as a pure function over a contract.

ONE CANONICAL TABLE:
  Strategies are registered once per product key. Having a single dispatch
  table (instead of parallel per-screen rule sets) is what keeps the
  product coverage from silently drifting between call sites.

UNKNOWN PRODUCTS:
  A product with no registered strategy falls back to ImmediateOnly:
  the acquisition commission is forecast, recurring logic is skipped,
  and nothing fails.

SEE ALSO:
  - products/strategies.go: The concrete pattern implementations
  - driver.go: Dispatch and global ordering
*/
package projection

import (
	"sync"
)

// =============================================================================
// PAYOUT STRATEGY - Pure per-product payout rule
// =============================================================================

// PayoutStrategy turns one contract into its forecast payout events.
//
// Implementations must be pure: no clocks, no I/O, no shared mutable
// state. Events dated past horizonEnd must not survive (the driver
// re-filters as a backstop, so pre-checking and post-filtering are
// equivalent). Events within a contract should come out in non-decreasing
// date order, but the driver never relies on that.
type PayoutStrategy interface {
	Events(c Contract, lines ExtractedLines, horizonEnd Date, cutoffDay int) []PayoutEvent
}

// =============================================================================
// STRATEGY REGISTRY
// =============================================================================

var (
	productRegistry  = make(map[string]ProductKey)
	strategyRegistry = make(map[string]PayoutStrategy)
	registryMu       sync.RWMutex
)

// RegisterProduct binds a product key to its payout strategy.
// Call this from the product catalog package init().
func RegisterProduct(key ProductKey, strategy PayoutStrategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	productRegistry[key.ProductID()] = key
	strategyRegistry[key.ProductID()] = strategy
}

// StrategyFor returns the registered strategy for a product, or the
// ImmediateOnly fallback for unknown/unmapped products. Never nil.
func StrategyFor(key ProductKey) PayoutStrategy {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if key != nil {
		if s, ok := strategyRegistry[key.ProductID()]; ok {
			return s
		}
	}
	return ImmediateOnly{}
}

// LookupProduct finds a registered product key by ID. Returns nil if not
// registered.
func LookupProduct(id string) ProductKey {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return productRegistry[id]
}

// RegisteredProducts returns the IDs of all registered products.
func RegisteredProducts() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(productRegistry))
	for id := range productRegistry {
		ids = append(ids, id)
	}
	return ids
}

// =============================================================================
// STRING PRODUCT - Fallback for unregistered keys
// =============================================================================

// StringProduct is a plain product key for contracts whose product is not
// in the catalog. Such contracts project through the ImmediateOnly
// fallback.
type StringProduct struct {
	ID     string
	Family string
}

func (p StringProduct) ProductID() string     { return p.ID }
func (p StringProduct) ProductFamily() string { return p.Family }

// GetOrCreateProduct looks up a catalog key, or wraps an unknown ID.
// Use in deserialization when the catalog might not cover the value.
func GetOrCreateProduct(id string) ProductKey {
	if k := LookupProduct(id); k != nil {
		return k
	}
	return StringProduct{ID: id, Family: "unknown"}
}

// =============================================================================
// IMMEDIATE-ONLY FALLBACK STRATEGY
// =============================================================================

// NoteImmediate annotates the acquisition commission payout.
const NoteImmediate = "immediate commission"

// ImmediateOnly forecasts just the acquisition commission - the one rule
// every product shares. It is the default for unmapped product keys.
type ImmediateOnly struct{}

func (ImmediateOnly) Events(c Contract, lines ExtractedLines, horizonEnd Date, cutoffDay int) []PayoutEvent {
	if lines.Immediate == nil {
		return nil
	}
	date := EstimatePayoutDate(c.EffectiveStart(), c.AgreementDate, cutoffDay)
	if date.After(horizonEnd) {
		return nil
	}
	ev, ok := NewPayoutEvent(c, date, lines.Immediate.Amount, NoteImmediate)
	if !ok {
		return nil
	}
	return []PayoutEvent{ev}
}
