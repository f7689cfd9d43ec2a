// Package products defines the insurance product catalog: the closed set
// of product keys the agency sells, the payout strategy wired to each key,
// and the static coefficient tables that turn a premium into a named
// commission breakdown.
package products

import (
	"strings"

	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// PRODUCT KEYS
// =============================================================================

// Key is the concrete product key type for the catalog.
// Implements projection.ProductKey.
type Key string

func (k Key) ProductID() string { return string(k) }

func (k Key) ProductFamily() string {
	switch {
	case strings.HasPrefix(string(k), "life_"):
		return "life"
	case strings.HasPrefix(string(k), "motor_"):
		return "motor"
	case strings.HasPrefix(string(k), "home_"), strings.HasPrefix(string(k), "property_"):
		return "property"
	case strings.HasPrefix(string(k), "travel_"):
		return "travel"
	case strings.HasPrefix(string(k), "accident"):
		return "accident"
	case strings.HasPrefix(string(k), "business_"):
		return "business"
	default:
		return "other"
	}
}

// Compile-time check that Key implements projection.ProductKey
var _ projection.ProductKey = Key("")

// The product catalog. Closed enumeration - contracts referencing any
// other key project through the engine's immediate-only fallback.
const (
	// Life products: lump sum plus fixed anniversary bonuses, most with a
	// multi-year recurring band.
	KeyLifeComfort     Key = "life_comfort"
	KeyLifeComfortPlus Key = "life_comfort_plus"
	KeyLifeJunior      Key = "life_junior"
	KeyLifePension     Key = "life_pension"
	KeyLifeCapital     Key = "life_capital"
	KeyLifeRisk        Key = "life_risk"
	KeyLifeFamily      Key = "life_family"

	// Life investment product: recurring commission from year 6 onward,
	// open-ended.
	KeyLifeInvest Key = "life_invest"

	// Per-payment products: one commission per premium payment.
	KeyMotorLiability    Key = "motor_liability"
	KeyMotorCollision    Key = "motor_collision"
	KeyTravelAnnual      Key = "travel_annual"
	KeyAccident          Key = "accident"
	KeyBusinessLiability Key = "business_liability"

	// Per-payment products with a yearly anniversary bonus on top.
	KeyMotorFleet   Key = "motor_fleet"
	KeyAccidentPlus Key = "accident_plus"

	// DOMEX household product: per-payment with a first-year acquisition
	// rate and a lower follow-up rate afterwards.
	KeyHomeDomex Key = "home_domex"
)

// Catalog lists every product key the agency sells.
var Catalog = []Key{
	KeyLifeComfort,
	KeyLifeComfortPlus,
	KeyLifeJunior,
	KeyLifePension,
	KeyLifeCapital,
	KeyLifeRisk,
	KeyLifeFamily,
	KeyLifeInvest,
	KeyMotorLiability,
	KeyMotorCollision,
	KeyTravelAnnual,
	KeyAccident,
	KeyBusinessLiability,
	KeyMotorFleet,
	KeyAccidentPlus,
	KeyHomeDomex,
}

// Lookup returns the catalog key for an ID, or false for foreign keys.
func Lookup(id string) (Key, bool) {
	for _, k := range Catalog {
		if string(k) == id {
			return k, true
		}
	}
	return "", false
}
