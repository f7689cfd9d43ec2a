/*
catalog.go - The canonical product-to-strategy table

PURPOSE:
  Wires every catalog key to exactly one payout strategy. This table is
  the single source of truth for payout behavior: there are no per-screen
  rule sets that could drift apart, and adding a product variant means
  adding one row here.

REGISTRATION:
  Rows register with the projection engine on package init. Importing
  this package (the api server does) is enough to activate the catalog.
*/
package products

import "github.com/warp/commission-engine/projection"

// strategyTable assigns each catalog key its payout pattern. Variants of
// the same pattern differ only in which bands exist.
var strategyTable = map[Key]projection.PayoutStrategy{
	// Life: immediate + 3rd/4th-year bonuses, recurring years 2-5.
	KeyLifeComfort: AnniversaryBonus{Band: &YearBand{From: 2, To: 5, Line: projection.LineRecurringYear2to5}},
	KeyLifeRisk:    AnniversaryBonus{Band: &YearBand{From: 2, To: 5, Line: projection.LineRecurringYear2to5}},
	KeyLifePension: AnniversaryBonus{Band: &YearBand{From: 2, To: 5, Line: projection.LineRecurringYear2to5}},
	KeyLifeCapital: AnniversaryBonus{Band: &YearBand{From: 2, To: 5, Line: projection.LineRecurringYear2to5}},

	// Life: recurring years 5-10 instead.
	KeyLifeComfortPlus: AnniversaryBonus{Band: &YearBand{From: 5, To: 10, Line: projection.LineRecurringYear5to10}},
	KeyLifeFamily:      AnniversaryBonus{Band: &YearBand{From: 5, To: 10, Line: projection.LineRecurringYear5to10}},

	// Life: lump sum and anniversary bonuses only, no recurring band.
	KeyLifeJunior: AnniversaryBonus{},

	// Life investment: open-ended recurring commission from year 6.
	KeyLifeInvest: OpenEnded{},

	// Per premium payment.
	KeyMotorLiability:    PerPayment{},
	KeyMotorCollision:    PerPayment{},
	KeyTravelAnnual:      PerPayment{},
	KeyAccident:          PerPayment{},
	KeyBusinessLiability: PerPayment{},

	// Per payment plus a yearly anniversary bonus.
	KeyMotorFleet:   PerPayment{AnniversaryBonus: true},
	KeyAccidentPlus: PerPayment{AnniversaryBonus: true},

	// DOMEX household: acquisition rate in year one, follow-up rate after.
	KeyHomeDomex: FirstYearSplit{},
}

func init() {
	for key, strategy := range strategyTable {
		projection.RegisterProduct(key, strategy)
	}
}

// StrategyOf exposes the table row for a key (nil for foreign keys).
// The projection engine itself goes through projection.StrategyFor, which
// adds the immediate-only fallback.
func StrategyOf(key Key) projection.PayoutStrategy {
	return strategyTable[key]
}
