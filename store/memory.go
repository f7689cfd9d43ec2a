package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	contracts map[contractKey]ContractRecord
	activity  map[activityKey]int
}

type contractKey struct {
	Owner projection.Owner
	ID    projection.ContractID
}

type activityKey struct {
	Owner projection.Owner
	Day   string
	Kind  string
}

func NewMemory() *Memory {
	return &Memory{
		contracts: make(map[contractKey]ContractRecord),
		activity:  make(map[activityKey]int),
	}
}

func (m *Memory) Save(_ context.Context, rec ContractRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contracts[contractKey{Owner: rec.Contract.Owner, ID: rec.Contract.ID}] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, owner projection.Owner, id projection.ContractID) (ContractRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.contracts[contractKey{Owner: owner, ID: id}]
	if !ok {
		return ContractRecord{}, ErrContractNotFound
	}
	return rec, nil
}

func (m *Memory) ListByOwner(_ context.Context, owner projection.Owner) ([]ContractRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ContractRecord
	for k, rec := range m.contracts {
		if k.Owner == owner {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(a, b int) bool {
		da, db := result[a].Contract.AgreementDate, result[b].Contract.AgreementDate
		if !da.Equal(db) {
			return da.Before(db)
		}
		return result[a].Contract.ID < result[b].Contract.ID
	})
	return result, nil
}

func (m *Memory) Delete(_ context.Context, owner projection.Owner, id projection.ContractID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := contractKey{Owner: owner, ID: id}
	if _, ok := m.contracts[k]; !ok {
		return ErrContractNotFound
	}
	delete(m.contracts, k)
	return nil
}

func (m *Memory) Owners(_ context.Context) ([]projection.Owner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[projection.Owner]bool)
	var result []projection.Owner
	for k := range m.contracts {
		if !seen[k.Owner] {
			seen[k.Owner] = true
			result = append(result, k.Owner)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a] < result[b] })
	return result, nil
}

func (m *Memory) Record(_ context.Context, owner projection.Owner, day projection.Date, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activity[activityKey{Owner: owner, Day: day.String(), Kind: kind}]++
	return nil
}

func (m *Memory) Summary(_ context.Context, owner projection.Owner, from, to projection.Date) ([]ActivityCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []ActivityCount
	for k, count := range m.activity {
		if k.Owner != owner {
			continue
		}
		day, err := projection.ParseDate(k.Day)
		if err != nil {
			continue
		}
		if day.Before(from) || day.After(to) {
			continue
		}
		result = append(result, ActivityCount{Owner: owner, Day: day, Kind: k.Kind, Count: count})
	}
	sort.Slice(result, func(a, b int) bool {
		if !result[a].Day.Equal(result[b].Day) {
			return result[a].Day.Before(result[b].Day)
		}
		return result[a].Kind < result[b].Kind
	})
	return result, nil
}
