package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/commission-engine/projection"
	"github.com/warp/commission-engine/store"
)

func record(owner, id string, agreement projection.Date) store.ContractRecord {
	return store.ContractRecord{
		Contract: projection.Contract{
			ID:            projection.ContractID(id),
			Owner:         projection.Owner(owner),
			Product:       projection.StringProduct{ID: "test-product", Family: "test"},
			AgreementDate: agreement,
			Premium:       projection.NewAmount(1000, projection.CurrencyCZK),
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemory_SaveAndGet(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	rec := record("agent", "c1", projection.NewDate(2024, time.March, 1))
	require.NoError(t, m.Save(ctx, rec))

	got, err := m.Get(ctx, "agent", "c1")
	require.NoError(t, err)
	assert.Equal(t, projection.ContractID("c1"), got.Contract.ID)

	_, err = m.Get(ctx, "agent", "missing")
	assert.ErrorIs(t, err, store.ErrContractNotFound)

	// Same id under a different owner is a different document
	_, err = m.Get(ctx, "other-agent", "c1")
	assert.ErrorIs(t, err, store.ErrContractNotFound)
}

func TestMemory_ListByOwnerOrdered(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, record("agent", "b", projection.NewDate(2024, time.May, 1))))
	require.NoError(t, m.Save(ctx, record("agent", "a", projection.NewDate(2024, time.May, 1))))
	require.NoError(t, m.Save(ctx, record("agent", "c", projection.NewDate(2024, time.January, 1))))
	require.NoError(t, m.Save(ctx, record("other", "x", projection.NewDate(2024, time.January, 1))))

	recs, err := m.ListByOwner(ctx, "agent")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// Agreement date first, id as tiebreaker
	assert.Equal(t, projection.ContractID("c"), recs[0].Contract.ID)
	assert.Equal(t, projection.ContractID("a"), recs[1].Contract.ID)
	assert.Equal(t, projection.ContractID("b"), recs[2].Contract.ID)
}

func TestMemory_Delete(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, record("agent", "c1", projection.NewDate(2024, time.March, 1))))
	require.NoError(t, m.Delete(ctx, "agent", "c1"))

	_, err := m.Get(ctx, "agent", "c1")
	assert.ErrorIs(t, err, store.ErrContractNotFound)
	assert.ErrorIs(t, m.Delete(ctx, "agent", "c1"), store.ErrContractNotFound)
}

func TestMemory_Owners(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, record("beta", "c1", projection.NewDate(2024, time.March, 1))))
	require.NoError(t, m.Save(ctx, record("alpha", "c2", projection.NewDate(2024, time.March, 1))))
	require.NoError(t, m.Save(ctx, record("alpha", "c3", projection.NewDate(2024, time.March, 1))))

	owners, err := m.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []projection.Owner{"alpha", "beta"}, owners)
}

func TestMemory_ActivityCounters(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	day := projection.NewDate(2024, time.March, 5)

	require.NoError(t, m.Record(ctx, "agent", day, "contract_created"))
	require.NoError(t, m.Record(ctx, "agent", day, "contract_created"))
	require.NoError(t, m.Record(ctx, "agent", day.AddDays(1), "forecast_run"))
	require.NoError(t, m.Record(ctx, "agent", day.AddDays(40), "forecast_run"))

	counts, err := m.Summary(ctx, "agent", day, day.AddDays(7))
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.Equal(t, "contract_created", counts[0].Kind)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, "forecast_run", counts[1].Kind)
	assert.Equal(t, 1, counts[1].Count)
}
