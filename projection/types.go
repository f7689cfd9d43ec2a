/*
Package projection provides the core payout projection engine.

PURPOSE:
  This package contains the domain-agnostic types and algorithms for
  forecasting future commission payouts. Given a set of signed contracts,
  the engine deterministically generates every future payout event - date,
  amount, product, note - up to a configurable time horizon, as a single
  globally time-ordered sequence usable for financial forecasting.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A monetary quantity backed by decimal.Decimal
  - Contract: The immutable input record (product, dates, frequency, lines)
  - CommissionLine: A named amount produced by the upstream coefficient
    engine; the projection never recomputes it, only routes it
  - PayoutEvent: The computed output value

DESIGN PRINCIPLES:
  1. Determinism: same inputs always produce the same event set
  2. Precision: decimal.Decimal for money, never float arithmetic
  3. Purity: no I/O, no clocks (callers pin the as-of date), no counters -
     event identity is derived from content
  4. Fail-soft: a broken contract yields zero events, never an error

USAGE:
  projector := &projection.Projector{}
  events, err := projector.Project(ctx, contracts, projection.Config{
      AsOf:         projection.NewDate(2025, time.January, 1),
      HorizonYears: 5,
  })

SEE ALSO:
  - dates.go: Payout date estimation and calendar arithmetic
  - lines.go: Commission line extraction
  - strategy.go: Per-product payout strategy interface
  - driver.go: The projection driver (dispatch, horizon, global sort)
*/
package projection

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary quantity
// =============================================================================

type Amount struct {
	Value    decimal.Decimal
	Currency Currency
}

type Currency string

const (
	CurrencyCZK Currency = "CZK"
	CurrencyEUR Currency = "EUR"
)

// NewAmount builds an Amount from a float. Non-finite values collapse to
// zero so they can never surface as emitted payouts.
func NewAmount(value float64, currency Currency) Amount {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{Value: decimal.Zero, Currency: currency}
	}
	return Amount{Value: decimal.NewFromFloat(value), Currency: currency}
}

func NewAmountFromDecimal(value decimal.Decimal, currency Currency) Amount {
	return Amount{Value: value, Currency: currency}
}

func (a Amount) Zero() Amount              { return Amount{Value: decimal.Zero, Currency: a.Currency} }
func (a Amount) Add(b Amount) Amount       { return Amount{Value: a.Value.Add(b.Value), Currency: a.Currency} }
func (a Amount) Sub(b Amount) Amount       { return Amount{Value: a.Value.Sub(b.Value), Currency: a.Currency} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Currency: a.Currency} }
func (a Amount) Neg() Amount               { return Amount{Value: a.Value.Neg(), Currency: a.Currency} }
func (a Amount) IsZero() bool              { return a.Value.IsZero() }
func (a Amount) IsNegative() bool          { return a.Value.IsNegative() }
func (a Amount) Equal(b Amount) bool       { return a.Value.Equal(b.Value) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ContractID string
type Owner string

// ProductKey identifies an insurance product variant.
// This is an interface so the product catalog package defines its own
// concrete type. The projection package has NO knowledge of specific
// products - it only dispatches on them.
//
// The catalog package implements this:
//
//	// In products/types.go
//	type Key string
//	func (k Key) ProductID() string     { return string(k) }
//	func (k Key) ProductFamily() string { return "life" }
//	const KeyLifeComfort Key = "life_comfort"
type ProductKey interface {
	// ProductID returns the unique identifier for this product variant.
	ProductID() string

	// ProductFamily returns the product family (life, motor, property, ...).
	ProductFamily() string
}

// =============================================================================
// PAYMENT FREQUENCY
// =============================================================================

type PaymentFrequency string

const (
	FreqMonthly    PaymentFrequency = "monthly"
	FreqQuarterly  PaymentFrequency = "quarterly"
	FreqSemiannual PaymentFrequency = "semiannual"
	FreqAnnual     PaymentFrequency = "annual"
)

// MonthsBetweenPayments maps a payment frequency to its step in months.
// An unset frequency steps once a year.
func MonthsBetweenPayments(f PaymentFrequency) int {
	switch f {
	case FreqMonthly:
		return 1
	case FreqQuarterly:
		return 3
	case FreqSemiannual:
		return 6
	default:
		return 12
	}
}

// =============================================================================
// COMMISSION LINE - Named amount from the coefficient engine (read-only here)
// =============================================================================

// LineKind is the structured tag set by the upstream coefficient engine.
// Routing payouts on LineKind replaces fragile free-text title matching;
// the title is kept only as a display value and as a fallback for records
// written before kinds existed (see lines.go).
type LineKind string

const (
	LineUnknown             LineKind = ""
	LineImmediate           LineKind = "immediate"
	LineAfterYear3          LineKind = "after_year_3"
	LineAfterYear4          LineKind = "after_year_4"
	LineRecurringYear2to5   LineKind = "recurring_year_2_5"
	LineRecurringYear5to10  LineKind = "recurring_year_5_10"
	LineRecurringFromYear6  LineKind = "recurring_from_year_6"
	LineRecurringPerPayment LineKind = "recurring_per_payment"
)

// CommissionLine is a single named amount in a contract's commission
// breakdown. The engine never reinterprets Amount; it only selects which
// lines feed which payout rule.
type CommissionLine struct {
	Kind   LineKind
	Title  string
	Amount Amount
}

// =============================================================================
// CONTRACT - Immutable input record
// =============================================================================

type Contract struct {
	ID    ContractID
	Owner Owner

	Product ProductKey

	// AgreementDate is when the contract/commission was recorded.
	AgreementDate Date

	// PolicyStart is the effective start of coverage.
	// Zero means "same as AgreementDate".
	PolicyStart Date

	Frequency PaymentFrequency

	// DurationYears caps multi-year recurring bands. Zero means unset;
	// the product default applies.
	DurationYears int

	// Premium is the annual premium. Informational for the engine - the
	// commission breakdown is computed upstream.
	Premium Amount

	Lines []CommissionLine
}

// EffectiveStart returns the policy start, falling back to the agreement
// date when the policy start is absent.
func (c Contract) EffectiveStart() Date {
	if c.PolicyStart.IsZero() {
		return c.AgreementDate
	}
	return c.PolicyStart
}

// =============================================================================
// PAYOUT EVENT - Computed output value
// =============================================================================

// PayoutEvent is a single forecast commission payout.
//
// INVARIANTS:
//   - Amount is never zero (zero/invalid amounts are dropped at the source)
//   - Date never exceeds the projection horizon
//   - ID is derived from content, so re-running the projection yields
//     identical events
type PayoutEvent struct {
	ID         string
	Date       Date
	Amount     Amount
	Product    string
	Note       string
	ContractID ContractID
}

// EventID derives a stable event identity from (contract, date, note).
// No process-wide counters: two runs over the same inputs must agree.
func EventID(contractID ContractID, date Date, note string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", contractID, date, note)))
	return hex.EncodeToString(sum[:6])
}

// NewPayoutEvent builds an event, reporting whether it is emittable.
// Events with a zero amount are suppressed here so that no strategy can
// leak them into the output.
func NewPayoutEvent(c Contract, date Date, amount Amount, note string) (PayoutEvent, bool) {
	if amount.IsZero() {
		return PayoutEvent{}, false
	}
	product := ""
	if c.Product != nil {
		product = c.Product.ProductID()
	}
	return PayoutEvent{
		ID:         EventID(c.ID, date, note),
		Date:       date,
		Amount:     amount,
		Product:    product,
		Note:       note,
		ContractID: c.ID,
	}, true
}
