/*
Package store defines persistence for the commission tool.

PURPOSE:
  The projection engine is pure and works on in-memory contracts; this
  package is where those contracts live between requests. It is a small
  document store keyed by owner (the sales agent) and contract id, plus a
  daily activity counter used by the agent statistics view.

INTERFACES:
  Contracts: Contract documents (save, get, list by owner, delete)
  Activity:  Per-day activity counters

IMPLEMENTATIONS:
  - memory.go: In-memory, for tests and dev
  - sqlite/:   SQLite-backed, for the server

The engine never touches this package - handlers load contracts, hand
them to the projector, and serve the result.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrContractNotFound is returned for a missing (owner, id) pair.
	ErrContractNotFound = errors.New("contract not found")
)

// =============================================================================
// CONTRACT STORE
// =============================================================================

// ContractRecord is a stored contract with persistence metadata.
type ContractRecord struct {
	Contract  projection.Contract
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contracts is the contract document store, keyed by owner + contract id.
type Contracts interface {
	// Save inserts or replaces a contract document.
	Save(ctx context.Context, rec ContractRecord) error

	// Get returns one contract. Returns ErrContractNotFound when missing.
	Get(ctx context.Context, owner projection.Owner, id projection.ContractID) (ContractRecord, error)

	// ListByOwner returns all of an owner's contracts, ordered by
	// agreement date then id.
	ListByOwner(ctx context.Context, owner projection.Owner) ([]ContractRecord, error)

	// Delete removes a contract. Returns ErrContractNotFound when missing.
	Delete(ctx context.Context, owner projection.Owner, id projection.ContractID) error

	// Owners returns every owner with at least one contract, sorted.
	// Used by the background forecast refresher.
	Owners(ctx context.Context) ([]projection.Owner, error)
}

// =============================================================================
// DAILY ACTIVITY STATISTICS
// =============================================================================

// ActivityCount is one (day, kind) counter for an owner.
type ActivityCount struct {
	Owner projection.Owner
	Day   projection.Date
	Kind  string
	Count int
}

// Activity tracks what an agent did per day (contracts created, forecasts
// run). One Record call bumps one counter.
type Activity interface {
	// Record increments the (owner, day, kind) counter by one.
	Record(ctx context.Context, owner projection.Owner, day projection.Date, kind string) error

	// Summary returns all counters for an owner in [from, to], ordered
	// by day then kind.
	Summary(ctx context.Context, owner projection.Owner, from, to projection.Date) ([]ActivityCount, error)
}
