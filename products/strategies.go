/*
strategies.go - The four payout patterns behind the product catalog

PURPOSE:
  Implements projection.PayoutStrategy for each behavioral family:

  AnniversaryBonus (life):
    Immediate commission, then a 3rd/4th-year bonus if the breakdown has
    those lines, then one recurring payout per year in a fixed band
    (e.g. years 2-5), never past the contract's stated duration.

  OpenEnded (life investment):
    Same immediate/3rd/4th-year logic, then one payout per year from
    year 6 onward, stopping at the horizon.

  PerPayment (motor, travel, accident, business):
    The acquisition commission repeats at every premium payment, stepped
    by the payment frequency. Optionally an extra anniversary bonus per
    full policy year.

  FirstYearSplit (DOMEX household):
    Steps like PerPayment, but payments before the first policy
    anniversary pay the acquisition rate and later ones the follow-up
    rate (falling back to acquisition when no follow-up line exists).

SHARED RULES:
  Zero-amount events never materialize (projection.NewPayoutEvent drops
  them), nothing survives past the horizon, and a missing commission line
  silently disables the branch that needs it.

SEE ALSO:
  - catalog.go: Which key uses which pattern, with which band
  - projection/strategy.go: Interface and immediate-only fallback
*/
package products

import (
	"fmt"

	"github.com/warp/commission-engine/projection"
)

// Payout notes. Part of event identity - keep stable.
const (
	NoteYear3       = "3rd year bonus"
	NoteYear4       = "4th year bonus"
	NotePerPayment  = "per-payment commission"
	NoteAnniversary = "anniversary bonus"
	NoteAcquisition = "acquisition commission"
	NoteFollowUp    = "follow-up commission"
)

// NoteRecurringYear annotates the recurring payout for one policy year.
func NoteRecurringYear(year int) string {
	return fmt.Sprintf("recurring commission, year %d", year)
}

// =============================================================================
// PATTERN: LUMP SUM + FIXED ANNIVERSARIES (life)
// =============================================================================

// YearBand is an inclusive range of policy years paying a recurring
// commission, fed by one extracted line kind.
type YearBand struct {
	From int
	To   int
	Line projection.LineKind
}

// AnniversaryBonus pays the immediate commission, the 3rd/4th-year
// bonuses when present, and one recurring payout per band year.
type AnniversaryBonus struct {
	// Band is the recurring range; nil means the variant has no
	// recurring commission at all.
	Band *YearBand

	// DefaultDurationYears substitutes for contracts without an explicit
	// duration. Zero means 10.
	DefaultDurationYears int
}

func (s AnniversaryBonus) Events(c projection.Contract, lines projection.ExtractedLines, horizonEnd projection.Date, cutoffDay int) []projection.PayoutEvent {
	start := c.EffectiveStart()
	var events []projection.PayoutEvent

	emit := func(date projection.Date, line *projection.CommissionLine, note string) {
		if line == nil {
			return
		}
		if ev, ok := projection.NewPayoutEvent(c, date, line.Amount, note); ok {
			events = append(events, ev)
		}
	}

	emit(projection.EstimatePayoutDate(start, c.AgreementDate, cutoffDay), lines.Immediate, projection.NoteImmediate)
	emit(projection.EstimatePayoutDate(start.AddYears(3), projection.Date{}, cutoffDay), lines.AfterYear3, NoteYear3)
	emit(projection.EstimatePayoutDate(start.AddYears(4), projection.Date{}, cutoffDay), lines.AfterYear4, NoteYear4)

	if s.Band != nil {
		line := bandLine(lines, s.Band.Line)
		cap := s.bandCap(c)
		for year := s.Band.From; year <= cap; year++ {
			emit(projection.EstimatePayoutDate(start.AddYears(year), projection.Date{}, cutoffDay),
				line, NoteRecurringYear(year))
		}
	}

	// This pattern filters after building rather than pre-checking each
	// step; the outcome is the same.
	return dropPastHorizon(events, horizonEnd)
}

// bandCap bounds the recurring band by the contract's stated duration.
// The band never exceeds max(1, duration), with the product default when
// the contract carries none.
func (s AnniversaryBonus) bandCap(c projection.Contract) int {
	duration := c.DurationYears
	if duration == 0 {
		duration = s.DefaultDurationYears
		if duration == 0 {
			duration = 10
		}
	}
	if duration < 1 {
		duration = 1
	}
	if s.Band.To < duration {
		return s.Band.To
	}
	return duration
}

func bandLine(lines projection.ExtractedLines, kind projection.LineKind) *projection.CommissionLine {
	switch kind {
	case projection.LineRecurringYear2to5:
		return lines.RecurringYear2to5
	case projection.LineRecurringYear5to10:
		return lines.RecurringYear5to10
	case projection.LineRecurringFromYear6:
		return lines.RecurringFromYear6
	default:
		return nil
	}
}

func dropPastHorizon(events []projection.PayoutEvent, horizonEnd projection.Date) []projection.PayoutEvent {
	kept := events[:0]
	for _, ev := range events {
		if ev.Date.After(horizonEnd) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}

// =============================================================================
// PATTERN: LUMP SUM + OPEN-ENDED ANNIVERSARY (life investment)
// =============================================================================

// OpenEnded behaves like AnniversaryBonus for the first years, then pays
// a recurring commission every year from year 6 onward with no band upper
// bound - only the horizon stops it.
type OpenEnded struct{}

func (OpenEnded) Events(c projection.Contract, lines projection.ExtractedLines, horizonEnd projection.Date, cutoffDay int) []projection.PayoutEvent {
	start := c.EffectiveStart()

	events := AnniversaryBonus{}.Events(c, projection.ExtractedLines{
		Immediate:  lines.Immediate,
		AfterYear3: lines.AfterYear3,
		AfterYear4: lines.AfterYear4,
	}, horizonEnd, cutoffDay)

	if lines.RecurringFromYear6 == nil {
		return events
	}
	for year := 6; ; year++ {
		date := projection.EstimatePayoutDate(start.AddYears(year), projection.Date{}, cutoffDay)
		if date.After(horizonEnd) {
			break
		}
		if ev, ok := projection.NewPayoutEvent(c, date, lines.RecurringFromYear6.Amount, NoteRecurringYear(year)); ok {
			events = append(events, ev)
		}
	}
	return events
}

// =============================================================================
// PATTERN: RECURRING BY PAYMENT FREQUENCY (motor and friends)
// =============================================================================

// PerPayment repeats the acquisition commission at every premium payment
// until the horizon, stepping by the contract's payment frequency.
type PerPayment struct {
	// AnniversaryBonus adds one extra payout per full policy year.
	AnniversaryBonus bool
}

func (s PerPayment) Events(c projection.Contract, lines projection.ExtractedLines, horizonEnd projection.Date, cutoffDay int) []projection.PayoutEvent {
	if lines.Immediate == nil {
		return nil
	}
	start := c.EffectiveStart()
	step := projection.MonthsBetweenPayments(c.Frequency)

	var events []projection.PayoutEvent
	note := projection.NoteImmediate
	for date := projection.EstimatePayoutDate(start, c.AgreementDate, cutoffDay); !date.After(horizonEnd); date = date.AddMonths(step) {
		if ev, ok := projection.NewPayoutEvent(c, date, lines.Immediate.Amount, note); ok {
			events = append(events, ev)
		}
		note = NotePerPayment
	}

	if s.AnniversaryBonus {
		bonus := lines.PerPayment
		if bonus == nil {
			bonus = lines.Immediate
		}
		for year := 1; ; year++ {
			date := projection.EstimatePayoutDate(start.AddYears(year), projection.Date{}, cutoffDay)
			if date.After(horizonEnd) {
				break
			}
			if ev, ok := projection.NewPayoutEvent(c, date, bonus.Amount, NoteAnniversary); ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

// =============================================================================
// PATTERN: FIRST-YEAR / FOLLOW-UP SPLIT (DOMEX household)
// =============================================================================

// FirstYearSplit steps like PerPayment but switches the amount at the
// first policy anniversary: acquisition rate before it, follow-up rate
// from it on. Without a follow-up line the acquisition rate keeps
// applying; without an acquisition line nothing is paid at all.
type FirstYearSplit struct{}

func (FirstYearSplit) Events(c projection.Contract, lines projection.ExtractedLines, horizonEnd projection.Date, cutoffDay int) []projection.PayoutEvent {
	if lines.Immediate == nil {
		return nil
	}
	start := c.EffectiveStart()
	anniversary := start.AddYears(1)
	step := projection.MonthsBetweenPayments(c.Frequency)

	followUp := lines.PerPayment
	if followUp == nil {
		followUp = lines.Immediate
	}

	var events []projection.PayoutEvent
	for date := projection.EstimatePayoutDate(start, c.AgreementDate, cutoffDay); !date.After(horizonEnd); date = date.AddMonths(step) {
		line, note := lines.Immediate, NoteAcquisition
		if !date.Before(anniversary) {
			line, note = followUp, NoteFollowUp
		}
		if ev, ok := projection.NewPayoutEvent(c, date, line.Amount, note); ok {
			events = append(events, ev)
		}
	}
	return events
}
