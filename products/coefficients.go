/*
coefficients.go - Static commission coefficient tables

PURPOSE:
  Converts a contract's annual premium into its named commission
  breakdown. These are the agency's negotiated rates per product family:
  which share of the premium is paid as acquisition commission, which as
  anniversary bonuses, which as recurring commission.

  The projection engine is deliberately oblivious to this file - it
  consumes the resulting CommissionLine list and never recomputes rates.

TITLES AND KINDS:
  Every generated line carries both the structured LineKind (what payout
  routing uses) and the Czech display title agents see in their breakdown
  (what legacy records were matched on).
*/
package products

import (
	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/projection"
)

// CoefficientTable holds one product's commission rates as fractions of
// the annual premium. A zero rate means the product has no such line.
type CoefficientTable struct {
	Immediate   decimal.Decimal
	AfterYear3  decimal.Decimal
	AfterYear4  decimal.Decimal
	Band        decimal.Decimal // recurring band rate (whichever band the product has)
	FromYear6   decimal.Decimal
	PerPayment  decimal.Decimal // follow-up / per-payment rate
}

func rate(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Shared family tables. Individual products deviate only where the payer
// negotiated different terms.
var (
	lifeRates = CoefficientTable{
		Immediate:  rate("0.9"),
		AfterYear3: rate("0.25"),
		AfterYear4: rate("0.25"),
		Band:       rate("0.05"),
	}
	lifeInvestRates = CoefficientTable{
		Immediate:  rate("1.1"),
		AfterYear3: rate("0.3"),
		AfterYear4: rate("0.3"),
		FromYear6:  rate("0.04"),
	}
	motorRates = CoefficientTable{
		Immediate: rate("0.08"),
	}
	fleetRates = CoefficientTable{
		Immediate:  rate("0.08"),
		PerPayment: rate("0.02"),
	}
	domexRates = CoefficientTable{
		Immediate:  rate("0.3"),
		PerPayment: rate("0.1"),
	}
)

var coefficientTables = map[Key]CoefficientTable{
	KeyLifeComfort:     lifeRates,
	KeyLifeComfortPlus: lifeRates,
	KeyLifeJunior:      lifeRates,
	KeyLifePension:     lifeRates,
	KeyLifeCapital:     lifeRates,
	KeyLifeRisk:        lifeRates,
	KeyLifeFamily:      lifeRates,
	KeyLifeInvest:      lifeInvestRates,

	KeyMotorLiability:    motorRates,
	KeyMotorCollision:    motorRates,
	KeyTravelAnnual:      motorRates,
	KeyAccident:          motorRates,
	KeyBusinessLiability: motorRates,

	KeyMotorFleet:   fleetRates,
	KeyAccidentPlus: fleetRates,

	KeyHomeDomex: domexRates,
}

// bandTitle returns the display title for the product's recurring band.
func bandTitle(key Key) (string, projection.LineKind) {
	if s, ok := strategyTable[key].(AnniversaryBonus); ok && s.Band != nil {
		switch s.Band.Line {
		case projection.LineRecurringYear5to10:
			return "Následná provize 5. až 10. rok", projection.LineRecurringYear5to10
		default:
			return "Následná provize 2. až 5. rok", projection.LineRecurringYear2to5
		}
	}
	return "", projection.LineUnknown
}

// Breakdown computes the commission lines for a product and annual
// premium. Zero-rate lines are omitted, so the breakdown only contains
// lines the payout strategies can actually use.
func Breakdown(key Key, annualPremium projection.Amount) []projection.CommissionLine {
	table, ok := coefficientTables[key]
	if !ok {
		return nil
	}

	var lines []projection.CommissionLine
	add := func(r decimal.Decimal, kind projection.LineKind, title string) {
		if r.IsZero() {
			return
		}
		lines = append(lines, projection.CommissionLine{
			Kind:   kind,
			Title:  title,
			Amount: annualPremium.Mul(r),
		})
	}

	add(table.Immediate, projection.LineImmediate, "Získatelská provize")
	add(table.AfterYear3, projection.LineAfterYear3, "Provize po 3 letech")
	add(table.AfterYear4, projection.LineAfterYear4, "Provize po 4 letech")
	if title, kind := bandTitle(key); kind != projection.LineUnknown {
		add(table.Band, kind, title)
	}
	add(table.FromYear6, projection.LineRecurringFromYear6, "Následná provize od 6. roku")
	add(table.PerPayment, projection.LineRecurringPerPayment, "Následná provize za platbu")
	return lines
}
