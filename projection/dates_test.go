package projection_test

import (
	"testing"
	"time"

	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// PAYOUT DATE ESTIMATION TESTS
// =============================================================================

func TestEstimatePayoutDate_DayBeforeCutoff(t *testing.T) {
	// GIVEN: A policy starting mid-month, well before the cutoff
	start := projection.NewDate(2024, time.January, 10)

	// WHEN: Estimating the payout date
	got := projection.EstimatePayoutDate(start, projection.Date{}, 0)

	// THEN: First of the following month
	want := projection.NewDate(2024, time.February, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_DayExactlyOnCutoff(t *testing.T) {
	// GIVEN: A policy starting exactly on the cutoff day (28)
	start := projection.NewDate(2024, time.January, 28)

	// WHEN: Estimating with the default cutoff
	got := projection.EstimatePayoutDate(start, projection.Date{}, 0)

	// THEN: Still the one-month shift; the cutoff day itself makes the cycle
	want := projection.NewDate(2024, time.February, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_DayPastCutoff(t *testing.T) {
	// GIVEN: A policy starting after the cutoff day
	start := projection.NewDate(2024, time.January, 29)

	// WHEN: Estimating the payout date
	got := projection.EstimatePayoutDate(start, projection.Date{}, 0)

	// THEN: The payout slips a full extra month
	want := projection.NewDate(2024, time.March, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_EndOfYearPastCutoff(t *testing.T) {
	// GIVEN: A December 31 start (day 31 > cutoff)
	start := projection.NewDate(2024, time.December, 31)

	// WHEN: Estimating the payout date
	got := projection.EstimatePayoutDate(start, projection.Date{}, 0)

	// THEN: First of February next year - the shift is anchored on the
	// first of the start month, so the day-31 start cannot roll further
	want := projection.NewDate(2025, time.February, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_FirstOfMonthException(t *testing.T) {
	// GIVEN: A commission recorded in January for a policy starting
	// March 1st - the payout cycle was already caught
	agreement := projection.NewDate(2024, time.January, 15)
	start := projection.NewDate(2024, time.March, 1)

	// WHEN: Estimating the payout date
	got := projection.EstimatePayoutDate(start, agreement, 0)

	// THEN: The payout lands on the policy start itself
	if !got.Equal(start) {
		t.Errorf("expected %s, got %s", start, got)
	}
}

func TestEstimatePayoutDate_ExceptionNeedsEarlierMonth(t *testing.T) {
	// GIVEN: Agreement and start in the same month, start on the 1st
	agreement := projection.NewDate(2024, time.March, 2)
	start := projection.NewDate(2024, time.March, 1)

	// WHEN: Estimating the payout date
	got := projection.EstimatePayoutDate(start, agreement, 0)

	// THEN: The exception does not apply; normal one-month shift
	want := projection.NewDate(2024, time.April, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_ExceptionNeedsFirstOfMonth(t *testing.T) {
	// GIVEN: An earlier agreement month but a start on the 2nd
	agreement := projection.NewDate(2024, time.January, 15)
	start := projection.NewDate(2024, time.March, 2)

	// WHEN: Estimating the payout date
	got := projection.EstimatePayoutDate(start, agreement, 0)

	// THEN: The exception does not apply
	want := projection.NewDate(2024, time.April, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_ZeroAgreementNeverTriggersException(t *testing.T) {
	// GIVEN: A first-of-month start with no agreement date at all
	start := projection.NewDate(2024, time.March, 1)

	// WHEN: Estimating with a zero agreement date
	got := projection.EstimatePayoutDate(start, projection.Date{}, 0)

	// THEN: Normal one-month shift
	want := projection.NewDate(2024, time.April, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestEstimatePayoutDate_CustomCutoff(t *testing.T) {
	// GIVEN: A start on day 20 with a cutoff of 15
	start := projection.NewDate(2024, time.June, 20)

	// WHEN: Estimating with cutoff 15
	got := projection.EstimatePayoutDate(start, projection.Date{}, 15)

	// THEN: Day 20 misses the cycle, two-month shift
	want := projection.NewDate(2024, time.August, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// =============================================================================
// CALENDAR ARITHMETIC TESTS
// =============================================================================

func TestAddMonths_RolloverQuirk(t *testing.T) {
	// GIVEN: January 31 in a leap year
	d := projection.NewDate(2024, time.January, 31)

	// WHEN: Adding one month
	got := d.AddMonths(1)

	// THEN: February 31 does not exist; the platform rolls into March.
	// This behavior is load-bearing for edge-of-month schedules.
	want := projection.NewDate(2024, time.March, 2)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAddYears_LeapDay(t *testing.T) {
	// GIVEN: February 29 in a leap year
	d := projection.NewDate(2024, time.February, 29)

	// WHEN: Adding one year
	got := d.AddYears(1)

	// THEN: Rolls to March 1 in the non-leap year
	want := projection.NewDate(2025, time.March, 1)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFirstOfMonth(t *testing.T) {
	d := projection.NewDate(2024, time.July, 23)
	want := projection.NewDate(2024, time.July, 1)
	if got := d.FirstOfMonth(); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := projection.ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-01" {
		t.Errorf("expected 2024-03-01, got %s", d)
	}

	if _, err := projection.ParseDate("01/03/2024"); err == nil {
		t.Error("expected error for non-ISO format")
	}
}

// =============================================================================
// PAYMENT FREQUENCY TESTS
// =============================================================================

func TestMonthsBetweenPayments(t *testing.T) {
	cases := []struct {
		freq projection.PaymentFrequency
		want int
	}{
		{projection.FreqMonthly, 1},
		{projection.FreqQuarterly, 3},
		{projection.FreqSemiannual, 6},
		{projection.FreqAnnual, 12},
		{projection.PaymentFrequency(""), 12},
		{projection.PaymentFrequency("weekly"), 12},
	}
	for _, tc := range cases {
		if got := projection.MonthsBetweenPayments(tc.freq); got != tc.want {
			t.Errorf("frequency %q: expected %d months, got %d", tc.freq, tc.want, got)
		}
	}
}
