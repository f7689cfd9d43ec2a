/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  the validator before touching domain logic. Monetary amounts are
  serialized as decimal strings so clients never see float drift.
*/
package api

import (
	"time"

	"github.com/warp/commission-engine/projection"
	"github.com/warp/commission-engine/store"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateContractRequest creates or replaces a contract document.
type CreateContractRequest struct {
	ID            string               `json:"id" validate:"omitempty,max=64"`
	Product       string               `json:"product" validate:"required"`
	AgreementDate string               `json:"agreement_date" validate:"required,datetime=2006-01-02"`
	PolicyStart   string               `json:"policy_start" validate:"omitempty,datetime=2006-01-02"`
	Frequency     string               `json:"frequency" validate:"omitempty,oneof=monthly quarterly semiannual annual"`
	DurationYears int                  `json:"duration_years" validate:"omitempty,min=1,max=60"`
	Premium       float64              `json:"premium" validate:"required,gt=0"`
	Currency      string               `json:"currency" validate:"omitempty,oneof=CZK EUR"`
	Lines         []CommissionLineJSON `json:"lines" validate:"omitempty,dive"`
}

// CommissionLineJSON is a commission line in requests and responses.
// When a create request omits lines, the server derives them from the
// product's coefficient table.
type CommissionLineJSON struct {
	Kind   string  `json:"kind,omitempty"`
	Title  string  `json:"title" validate:"required_without=Kind"`
	Amount float64 `json:"amount" validate:"required"`
}

// LoadScenarioRequest selects a demo portfolio.
type LoadScenarioRequest struct {
	Name string `json:"name" validate:"required"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ContractDTO represents a stored contract in API responses.
type ContractDTO struct {
	ID            string               `json:"id"`
	Owner         string               `json:"owner"`
	Product       string               `json:"product"`
	ProductFamily string               `json:"product_family"`
	AgreementDate string               `json:"agreement_date"`
	PolicyStart   string               `json:"policy_start,omitempty"`
	Frequency     string               `json:"frequency,omitempty"`
	DurationYears int                  `json:"duration_years,omitempty"`
	Premium       string               `json:"premium"`
	Currency      string               `json:"currency"`
	Lines         []CommissionLineDTO  `json:"lines"`
	CreatedAt     string               `json:"created_at,omitempty"`
}

type CommissionLineDTO struct {
	Kind   string `json:"kind,omitempty"`
	Title  string `json:"title"`
	Amount string `json:"amount"`
}

// PayoutEventDTO is one forecast payout.
type PayoutEventDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Product    string `json:"product"`
	Note       string `json:"note,omitempty"`
	ContractID string `json:"contract_id"`
}

// MonthGroupDTO is one month of the forecast with its total.
type MonthGroupDTO struct {
	Year   int              `json:"year"`
	Month  int              `json:"month"`
	Total  string           `json:"total"`
	Events []PayoutEventDTO `json:"events"`
}

// ActivityCountDTO is one daily activity counter.
type ActivityCountDTO struct {
	Day   string `json:"day"`
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// ProductDTO describes one catalog entry.
type ProductDTO struct {
	Key     string `json:"key"`
	Family  string `json:"family"`
	Pattern string `json:"pattern"`
}

// ScenarioDTO describes a demo portfolio.
type ScenarioDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ForecastSnapshotDTO is the cached per-owner forecast summary.
type ForecastSnapshotDTO struct {
	Owner        string          `json:"owner"`
	ComputedAt   string          `json:"computed_at"`
	HorizonYears int             `json:"horizon_years"`
	EventCount   int             `json:"event_count"`
	Total        string          `json:"total"`
	NextPayout   *PayoutEventDTO `json:"next_payout,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toContractDTO(rec store.ContractRecord) ContractDTO {
	c := rec.Contract
	dto := ContractDTO{
		ID:            string(c.ID),
		Owner:         string(c.Owner),
		AgreementDate: c.AgreementDate.String(),
		Frequency:     string(c.Frequency),
		DurationYears: c.DurationYears,
		Premium:       c.Premium.Value.String(),
		Currency:      string(c.Premium.Currency),
		Lines:         make([]CommissionLineDTO, len(c.Lines)),
	}
	if c.Product != nil {
		dto.Product = c.Product.ProductID()
		dto.ProductFamily = c.Product.ProductFamily()
	}
	if !c.PolicyStart.IsZero() {
		dto.PolicyStart = c.PolicyStart.String()
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.Format(time.RFC3339)
	}
	for i, l := range c.Lines {
		dto.Lines[i] = CommissionLineDTO{
			Kind:   string(l.Kind),
			Title:  l.Title,
			Amount: l.Amount.Value.String(),
		}
	}
	return dto
}

func toPayoutEventDTO(ev projection.PayoutEvent) PayoutEventDTO {
	return PayoutEventDTO{
		ID:         ev.ID,
		Date:       ev.Date.String(),
		Amount:     ev.Amount.Value.String(),
		Currency:   string(ev.Amount.Currency),
		Product:    ev.Product,
		Note:       ev.Note,
		ContractID: string(ev.ContractID),
	}
}

func toForecastSnapshotDTO(s ForecastSnapshot) ForecastSnapshotDTO {
	dto := ForecastSnapshotDTO{
		Owner:        string(s.Owner),
		ComputedAt:   s.ComputedAt.Format(time.RFC3339),
		HorizonYears: s.HorizonYears,
		EventCount:   s.EventCount,
		Total:        s.Total.Value.String(),
	}
	if s.NextPayout.ID != "" {
		ev := toPayoutEventDTO(s.NextPayout)
		dto.NextPayout = &ev
	}
	return dto
}

func toMonthGroupDTO(g projection.MonthGroup) MonthGroupDTO {
	dto := MonthGroupDTO{
		Year:   g.Year,
		Month:  int(g.Month),
		Total:  g.Total.Value.String(),
		Events: make([]PayoutEventDTO, len(g.Events)),
	}
	for i, ev := range g.Events {
		dto.Events[i] = toPayoutEventDTO(ev)
	}
	return dto
}
