package projection

import (
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (payouts are day-resolution values)
// =============================================================================

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic.
//
// AddMonths and AddYears use the platform's native calendar rollover: if
// the target month has fewer days than the source day-of-month, the date
// rolls forward into the next month (Jan 31 + 1 month = Mar 2/3).
// KNOWN QUIRK: edge-of-month contracts inherit this rollover in their
// payout schedule. Changing it would change financial projections, so it
// is preserved exactly rather than clamped to month end.
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// monthIndex flattens (year, month) for month-level ordering comparisons.
func (d Date) monthIndex() int {
	return d.Year()*12 + int(d.Month()) - 1
}

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// =============================================================================
// PAYOUT DATE ESTIMATION
// =============================================================================

// DefaultCutoffDay is the day-of-month threshold deciding whether a payout
// shifts by one or two months past the policy start.
const DefaultCutoffDay = 28

// EstimatePayoutDate computes when a commission tied to policyStart is
// expected to be disbursed.
//
// Insurers settle commissions on a fixed monthly cycle, so the estimate is
// always the first of a month:
//   - day-of-month <= cutoffDay: first of the month after policyStart
//   - day-of-month >  cutoffDay: the contract missed the cycle; first of
//     the month two months after policyStart
//
// Exception: when the commission was recorded (agreementDate) in an
// earlier month than a policy starting exactly on the 1st, the payout
// lands on the policy start itself - the cycle was already caught.
// Pass a zero agreementDate when it is unknown; the exception then never
// applies.
func EstimatePayoutDate(policyStart, agreementDate Date, cutoffDay int) Date {
	if cutoffDay <= 0 {
		cutoffDay = DefaultCutoffDay
	}

	if !agreementDate.IsZero() &&
		policyStart.monthIndex() > agreementDate.monthIndex() &&
		policyStart.Day() == 1 {
		return policyStart
	}

	// Shift from the first of the start month so a day-31 start cannot
	// roll the estimate into yet another month.
	if policyStart.Day() > cutoffDay {
		return policyStart.FirstOfMonth().AddMonths(2)
	}
	return policyStart.FirstOfMonth().AddMonths(1)
}
