/*
Package factory provides JSON to Go product configuration conversion.

PURPOSE:
  Converts JSON product definitions into product keys and payout
  strategies. This enables catalog changes without code changes - back
  office can adjust a band or a rate in JSON, and the factory builds the
  proper Go values.

JSON SCHEMA:
  {
    "key": "life_comfort",
    "pattern": "anniversary_bonus",
    "band": {"from": 2, "to": 5, "line": "recurring_year_2_5"},
    "default_duration_years": 10
  }

  Patterns: anniversary_bonus, open_ended, per_payment, first_year_split.
  "anniversary" (bool) applies to per_payment only.

USAGE:
  f := factory.NewProductFactory()
  key, strategy, err := f.ParseProduct(jsonString)
  projection.RegisterProduct(key, strategy)

SEE ALSO:
  - products/catalog.go: The built-in, code-defined table
  - projection/strategy.go: Strategy interface and registry
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/commission-engine/products"
	"github.com/warp/commission-engine/projection"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ProductJSON is the JSON representation of one catalog row.
type ProductJSON struct {
	Key                  string    `json:"key"`
	Pattern              string    `json:"pattern"`
	Band                 *BandJSON `json:"band,omitempty"`
	DefaultDurationYears int       `json:"default_duration_years,omitempty"`
	Anniversary          bool      `json:"anniversary,omitempty"`
}

// BandJSON represents an inclusive recurring band.
type BandJSON struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Line string `json:"line"`
}

// =============================================================================
// PRODUCT FACTORY
// =============================================================================

// ProductFactory converts JSON product rows to Go values.
type ProductFactory struct{}

func NewProductFactory() *ProductFactory {
	return &ProductFactory{}
}

// ParseProduct parses a JSON string into a product key and its strategy.
func (f *ProductFactory) ParseProduct(jsonStr string) (projection.ProductKey, projection.PayoutStrategy, error) {
	var pj ProductJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, nil, fmt.Errorf("failed to parse product JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts ProductJSON to a key and strategy.
func (f *ProductFactory) FromJSON(pj ProductJSON) (projection.ProductKey, projection.PayoutStrategy, error) {
	if pj.Key == "" {
		return nil, nil, fmt.Errorf("product key is required")
	}
	key := products.Key(pj.Key)

	switch pj.Pattern {
	case "anniversary_bonus":
		s := products.AnniversaryBonus{DefaultDurationYears: pj.DefaultDurationYears}
		if pj.Band != nil {
			band, err := parseBand(*pj.Band)
			if err != nil {
				return nil, nil, err
			}
			s.Band = band
		}
		return key, s, nil

	case "open_ended":
		return key, products.OpenEnded{}, nil

	case "per_payment":
		return key, products.PerPayment{AnniversaryBonus: pj.Anniversary}, nil

	case "first_year_split":
		return key, products.FirstYearSplit{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown payout pattern: %s", pj.Pattern)
	}
}

// ToJSON converts a catalog row back to its JSON form.
func (f *ProductFactory) ToJSON(key projection.ProductKey, strategy projection.PayoutStrategy) ProductJSON {
	pj := ProductJSON{Key: key.ProductID()}

	switch s := strategy.(type) {
	case products.AnniversaryBonus:
		pj.Pattern = "anniversary_bonus"
		pj.DefaultDurationYears = s.DefaultDurationYears
		if s.Band != nil {
			pj.Band = &BandJSON{From: s.Band.From, To: s.Band.To, Line: string(s.Band.Line)}
		}
	case products.OpenEnded:
		pj.Pattern = "open_ended"
	case products.PerPayment:
		pj.Pattern = "per_payment"
		pj.Anniversary = s.AnniversaryBonus
	case products.FirstYearSplit:
		pj.Pattern = "first_year_split"
	}
	return pj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseBand(bj BandJSON) (*products.YearBand, error) {
	if bj.From < 1 || bj.To < bj.From {
		return nil, fmt.Errorf("invalid band [%d, %d]", bj.From, bj.To)
	}
	line, err := parseLineKind(bj.Line)
	if err != nil {
		return nil, err
	}
	return &products.YearBand{From: bj.From, To: bj.To, Line: line}, nil
}

func parseLineKind(s string) (projection.LineKind, error) {
	switch projection.LineKind(s) {
	case projection.LineRecurringYear2to5,
		projection.LineRecurringYear5to10,
		projection.LineRecurringFromYear6:
		return projection.LineKind(s), nil
	default:
		return projection.LineUnknown, fmt.Errorf("band line kind %q is not a recurring band", s)
	}
}
