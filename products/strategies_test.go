package products_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/commission-engine/products"
	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func czk(v float64) projection.Amount {
	return projection.NewAmount(v, projection.CurrencyCZK)
}

// contractFor builds a contract with its breakdown derived from the
// coefficient table, the way the create endpoint does it.
func contractFor(key products.Key, agreement, start projection.Date, freq projection.PaymentFrequency, duration int, premium float64) projection.Contract {
	p := czk(premium)
	return projection.Contract{
		ID:            projection.ContractID("test-" + string(key)),
		Owner:         "agent",
		Product:       key,
		AgreementDate: agreement,
		PolicyStart:   start,
		Frequency:     freq,
		DurationYears: duration,
		Premium:       p,
		Lines:         products.Breakdown(key, p),
	}
}

func project(t *testing.T, c projection.Contract, horizonYears int) []projection.PayoutEvent {
	t.Helper()
	p := &projection.Projector{}
	events, err := p.Project(context.Background(), []projection.Contract{c}, projection.Config{
		AsOf:         projection.NewDate(2024, time.January, 1),
		HorizonYears: horizonYears,
	})
	require.NoError(t, err)
	return events
}

func eventsWithNote(events []projection.PayoutEvent, note string) []projection.PayoutEvent {
	var out []projection.PayoutEvent
	for _, ev := range events {
		if ev.Note == note {
			out = append(out, ev)
		}
	}
	return out
}

// =============================================================================
// PER-PAYMENT PATTERN (motor and friends)
// =============================================================================

func TestPerPayment_QuarterlySchedule(t *testing.T) {
	// GIVEN: A quarterly motor liability contract signed 2024-01-10
	// with an annual premium of 12500 (8% acquisition rate = 1000)
	c := contractFor(products.KeyMotorLiability,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqQuarterly, 0, 12500)

	// WHEN: Projecting one year ahead
	events := project(t, c, 1)

	// THEN: Four payouts, stepped by three months from the estimated
	// first disbursement, each worth the full acquisition commission
	require.Len(t, events, 4)
	wantDates := []projection.Date{
		projection.NewDate(2024, time.February, 1),
		projection.NewDate(2024, time.May, 1),
		projection.NewDate(2024, time.August, 1),
		projection.NewDate(2024, time.November, 1),
	}
	for i, ev := range events {
		assert.True(t, ev.Date.Equal(wantDates[i]), "event %d: expected %s, got %s", i, wantDates[i], ev.Date)
		assert.True(t, ev.Amount.Equal(czk(1000)), "event %d: expected 1000, got %s", i, ev.Amount.Value)
	}

	// The first payout is the acquisition commission, the rest repeat it
	assert.Equal(t, projection.NoteImmediate, events[0].Note)
	for _, ev := range events[1:] {
		assert.Equal(t, products.NotePerPayment, ev.Note)
	}
}

func TestPerPayment_FleetAnniversaryBonus(t *testing.T) {
	// GIVEN: An annual fleet contract (8% per payment, 2% anniversary)
	c := contractFor(products.KeyMotorFleet,
		projection.NewDate(2024, time.February, 14), projection.Date{},
		projection.FreqAnnual, 0, 96000)

	// WHEN: Projecting two years ahead
	events := project(t, c, 2)

	// THEN: Per-payment commissions of 7680 plus one anniversary bonus
	// of 1920 inside the horizon
	perPayment := append(eventsWithNote(events, projection.NoteImmediate),
		eventsWithNote(events, products.NotePerPayment)...)
	require.Len(t, perPayment, 2)
	for _, ev := range perPayment {
		assert.True(t, ev.Amount.Equal(czk(7680)), "expected 7680, got %s", ev.Amount.Value)
	}

	bonuses := eventsWithNote(events, products.NoteAnniversary)
	require.Len(t, bonuses, 1)
	assert.True(t, bonuses[0].Amount.Equal(czk(1920)), "expected 1920, got %s", bonuses[0].Amount.Value)
	assert.True(t, bonuses[0].Date.Equal(projection.NewDate(2025, time.March, 1)))
}

// =============================================================================
// ANNIVERSARY BONUS PATTERN (life)
// =============================================================================

func TestAnniversaryBonus_FullSchedule(t *testing.T) {
	// GIVEN: A life contract with a 10-year duration, premium 10000
	// (immediate 9000, 3rd/4th-year bonuses 2500, band 2-5 at 500)
	c := contractFor(products.KeyLifeComfort,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqMonthly, 10, 10000)

	// WHEN: Projecting ten years ahead
	events := project(t, c, 10)

	// THEN: Immediate + two bonuses + four band years
	require.Len(t, events, 7)

	immediate := eventsWithNote(events, projection.NoteImmediate)
	require.Len(t, immediate, 1)
	assert.True(t, immediate[0].Date.Equal(projection.NewDate(2024, time.February, 1)))
	assert.True(t, immediate[0].Amount.Equal(czk(9000)))

	y3 := eventsWithNote(events, products.NoteYear3)
	require.Len(t, y3, 1)
	assert.True(t, y3[0].Date.Equal(projection.NewDate(2027, time.February, 1)))
	assert.True(t, y3[0].Amount.Equal(czk(2500)))

	y4 := eventsWithNote(events, products.NoteYear4)
	require.Len(t, y4, 1)
	assert.True(t, y4[0].Date.Equal(projection.NewDate(2028, time.February, 1)))

	for year := 2; year <= 5; year++ {
		band := eventsWithNote(events, products.NoteRecurringYear(year))
		require.Len(t, band, 1, "missing recurring payout for year %d", year)
		assert.True(t, band[0].Amount.Equal(czk(500)))
	}
}

func TestAnniversaryBonus_DurationCapsBand(t *testing.T) {
	// GIVEN: The same life contract but with a stated 4-year duration
	c := contractFor(products.KeyLifeComfort,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqMonthly, 4, 10000)

	// WHEN: Projecting ten years ahead
	events := project(t, c, 10)

	// THEN: Band years 2-4 only; year 5 is beyond the contract
	for year := 2; year <= 4; year++ {
		assert.Len(t, eventsWithNote(events, products.NoteRecurringYear(year)), 1,
			"expected recurring payout for year %d", year)
	}
	assert.Empty(t, eventsWithNote(events, products.NoteRecurringYear(5)),
		"a 4-year contract must not pay a year-5 recurring commission")
}

func TestAnniversaryBonus_LaterBandDefaultDuration(t *testing.T) {
	// GIVEN: A comfort-plus contract (band years 5-10) without a stated
	// duration, so the 10-year default applies
	c := contractFor(products.KeyLifeComfortPlus,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqAnnual, 0, 10000)

	// WHEN: Projecting twelve years ahead
	events := project(t, c, 12)

	// THEN: Recurring payouts for years 5 through 10
	for year := 5; year <= 10; year++ {
		assert.Len(t, eventsWithNote(events, products.NoteRecurringYear(year)), 1,
			"expected recurring payout for year %d", year)
	}
	assert.Empty(t, eventsWithNote(events, products.NoteRecurringYear(4)))
	assert.Empty(t, eventsWithNote(events, products.NoteRecurringYear(11)))
}

func TestAnniversaryBonus_JuniorHasNoBand(t *testing.T) {
	// GIVEN: A junior life contract (no recurring band at all)
	c := contractFor(products.KeyLifeJunior,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqMonthly, 0, 10000)

	// WHEN: Projecting ten years ahead
	events := project(t, c, 10)

	// THEN: Immediate plus the two bonuses, nothing recurring
	require.Len(t, events, 3)
	assert.Empty(t, eventsWithNote(events, products.NoteRecurringYear(2)))
}

// =============================================================================
// OPEN-ENDED PATTERN (life investment)
// =============================================================================

func TestOpenEnded_HorizonStopsRecurring(t *testing.T) {
	// GIVEN: A life investment contract (recurring from year 6, open end)
	c := contractFor(products.KeyLifeInvest,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqAnnual, 0, 10000)

	// WHEN: Projecting eight years ahead (horizon end 2032-01-01)
	events := project(t, c, 8)

	// THEN: Years 6 and 7 pay; year 8's estimate (2032-02-01) is out
	assert.Len(t, eventsWithNote(events, products.NoteRecurringYear(6)), 1)
	assert.Len(t, eventsWithNote(events, products.NoteRecurringYear(7)), 1)
	assert.Empty(t, eventsWithNote(events, products.NoteRecurringYear(8)))

	// And the whole sequence is immediate + y3 + y4 + two recurring
	require.Len(t, events, 5)

	recurring := eventsWithNote(events, products.NoteRecurringYear(6))
	assert.True(t, recurring[0].Amount.Equal(czk(400)), "expected 400, got %s", recurring[0].Amount.Value)
}

func TestOpenEnded_LongHorizonKeepsPaying(t *testing.T) {
	// GIVEN: The same contract over a 20-year horizon
	c := contractFor(products.KeyLifeInvest,
		projection.NewDate(2024, time.January, 10), projection.Date{},
		projection.FreqAnnual, 0, 10000)

	// WHEN: Projecting
	events := project(t, c, 20)

	// THEN: The recurring commission keeps going, unbounded by any band
	assert.Len(t, eventsWithNote(events, products.NoteRecurringYear(15)), 1)
	assert.Len(t, eventsWithNote(events, products.NoteRecurringYear(19)), 1)
}

// =============================================================================
// FIRST-YEAR SPLIT PATTERN (DOMEX household)
// =============================================================================

func TestFirstYearSplit_RateSwitchesAtAnniversary(t *testing.T) {
	// GIVEN: A quarterly DOMEX contract recorded in May starting June 1
	// (acquisition 30% = 2520, follow-up 10% = 840)
	c := contractFor(products.KeyHomeDomex,
		projection.NewDate(2024, time.May, 2), projection.NewDate(2024, time.June, 1),
		projection.FreqQuarterly, 0, 8400)

	// WHEN: Projecting two years ahead (horizon end 2026-01-01)
	events := project(t, c, 2)

	// THEN: The first payout lands on the policy start itself (the cycle
	// was caught: earlier agreement month, start on the 1st), then steps
	// quarterly; the rate switches at the first anniversary
	require.Len(t, events, 7)
	assert.True(t, events[0].Date.Equal(projection.NewDate(2024, time.June, 1)))

	acquisitions := eventsWithNote(events, products.NoteAcquisition)
	require.Len(t, acquisitions, 4)
	for _, ev := range acquisitions {
		assert.True(t, ev.Amount.Equal(czk(2520)), "expected 2520, got %s", ev.Amount.Value)
		assert.True(t, ev.Date.Before(projection.NewDate(2025, time.June, 1)))
	}

	followUps := eventsWithNote(events, products.NoteFollowUp)
	require.Len(t, followUps, 3)
	for _, ev := range followUps {
		assert.True(t, ev.Amount.Equal(czk(840)), "expected 840, got %s", ev.Amount.Value)
		assert.True(t, ev.Date.AfterOrEqual(projection.NewDate(2025, time.June, 1)))
	}
}

// =============================================================================
// COEFFICIENT TABLE TESTS
// =============================================================================

func TestBreakdown_LifeLines(t *testing.T) {
	lines := products.Breakdown(products.KeyLifeComfort, czk(10000))
	require.Len(t, lines, 4)

	extracted := projection.ExtractLines(lines)
	require.NotNil(t, extracted.Immediate)
	assert.True(t, extracted.Immediate.Amount.Equal(czk(9000)))
	assert.Equal(t, "Získatelská provize", extracted.Immediate.Title)
	require.NotNil(t, extracted.RecurringYear2to5)
	assert.True(t, extracted.RecurringYear2to5.Amount.Equal(czk(500)))
}

func TestBreakdown_BandFollowsStrategy(t *testing.T) {
	// Comfort-plus pays its band in years 5-10, so the breakdown line
	// must carry that kind and title
	lines := products.Breakdown(products.KeyLifeComfortPlus, czk(10000))
	extracted := projection.ExtractLines(lines)
	require.NotNil(t, extracted.RecurringYear5to10)
	assert.Nil(t, extracted.RecurringYear2to5)
	assert.Equal(t, "Následná provize 5. až 10. rok", extracted.RecurringYear5to10.Title)
}

func TestBreakdown_MotorSingleLine(t *testing.T) {
	lines := products.Breakdown(products.KeyMotorLiability, czk(12500))
	require.Len(t, lines, 1)
	assert.Equal(t, projection.LineImmediate, lines[0].Kind)
	assert.True(t, lines[0].Amount.Equal(czk(1000)))
}

func TestBreakdown_UnknownKey(t *testing.T) {
	assert.Nil(t, products.Breakdown(products.Key("no_such_product"), czk(1000)))
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func TestCatalog_EveryKeyRegistered(t *testing.T) {
	for _, key := range products.Catalog {
		assert.NotNil(t, products.StrategyOf(key), "catalog key %s has no strategy", key)
		assert.NotNil(t, projection.LookupProduct(string(key)), "catalog key %s not registered", key)
	}
}

func TestLookup(t *testing.T) {
	key, ok := products.Lookup("life_comfort")
	require.True(t, ok)
	assert.Equal(t, products.KeyLifeComfort, key)

	_, ok = products.Lookup("no_such_product")
	assert.False(t, ok)
}
