/*
scenarios.go - Demo portfolio loaders

PURPOSE:
  Seeds the store with small, recognizable contract portfolios so the
  frontend has something to show without manual setup. Each scenario is a
  portfolio for the "demo" owner exercising a different slice of the
  product catalog.

SCENARIOS:
  life_saver:      Life contracts only - anniversary bonuses and
                   recurring bands dominate the forecast
  motor_desk:      Per-payment motor products at mixed frequencies
  mixed_portfolio: A bit of everything, including the DOMEX hybrid

These endpoints are for demos and development; production deployments
route real contract data through the contract API instead.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/warp/commission-engine/products"
	"github.com/warp/commission-engine/projection"
	"github.com/warp/commission-engine/store"
)

// DemoOwner is the agent all scenarios load under.
const DemoOwner = projection.Owner("demo")

var scenarios = []ScenarioDTO{
	{Name: "life_saver", Description: "Life portfolio: lump sums, 3rd/4th-year bonuses, recurring bands"},
	{Name: "motor_desk", Description: "Motor portfolio: per-payment commissions at mixed frequencies"},
	{Name: "mixed_portfolio", Description: "A bit of everything, including the DOMEX household hybrid"},
}

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario reports which scenario was loaded last.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"current": h.currentScenario})
}

// LoadScenario seeds the demo owner's portfolio.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	var contracts []projection.Contract
	switch req.Name {
	case "life_saver":
		contracts = lifeSaverPortfolio()
	case "motor_desk":
		contracts = motorDeskPortfolio()
	case "mixed_portfolio":
		contracts = mixedPortfolio()
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.saveContracts(r.Context(), contracts); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.Name
	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":    req.Name,
		"contracts": len(contracts),
	})
}

func (h *Handler) saveContracts(ctx context.Context, contracts []projection.Contract) error {
	now := time.Now().UTC()
	for _, c := range contracts {
		rec := store.ContractRecord{Contract: c, CreatedAt: now}
		if err := h.Contracts.Save(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// PORTFOLIOS
// =============================================================================

// demoContract builds a contract with its breakdown derived from the
// coefficient tables, the same path the create endpoint takes.
func demoContract(id string, key products.Key, agreement, start projection.Date, freq projection.PaymentFrequency, duration int, premium float64) projection.Contract {
	p := projection.NewAmount(premium, projection.CurrencyCZK)
	return projection.Contract{
		ID:            projection.ContractID(id),
		Owner:         DemoOwner,
		Product:       key,
		AgreementDate: agreement,
		PolicyStart:   start,
		Frequency:     freq,
		DurationYears: duration,
		Premium:       p,
		Lines:         products.Breakdown(key, p),
	}
}

func lifeSaverPortfolio() []projection.Contract {
	return []projection.Contract{
		demoContract("demo-life-1", products.KeyLifeComfort,
			projection.NewDate(2024, time.February, 12), projection.NewDate(2024, time.March, 1),
			projection.FreqMonthly, 10, 24000),
		demoContract("demo-life-2", products.KeyLifeComfortPlus,
			projection.NewDate(2023, time.November, 29), projection.Date{},
			projection.FreqAnnual, 15, 36000),
		demoContract("demo-life-3", products.KeyLifeJunior,
			projection.NewDate(2024, time.June, 5), projection.NewDate(2024, time.July, 1),
			projection.FreqMonthly, 8, 12000),
		demoContract("demo-life-4", products.KeyLifeInvest,
			projection.NewDate(2022, time.January, 20), projection.Date{},
			projection.FreqAnnual, 0, 60000),
	}
}

func motorDeskPortfolio() []projection.Contract {
	return []projection.Contract{
		demoContract("demo-motor-1", products.KeyMotorLiability,
			projection.NewDate(2024, time.January, 10), projection.Date{},
			projection.FreqQuarterly, 0, 12500),
		demoContract("demo-motor-2", products.KeyMotorCollision,
			projection.NewDate(2024, time.April, 30), projection.Date{},
			projection.FreqSemiannual, 0, 18000),
		demoContract("demo-motor-3", products.KeyMotorFleet,
			projection.NewDate(2023, time.September, 14), projection.Date{},
			projection.FreqMonthly, 0, 96000),
	}
}

func mixedPortfolio() []projection.Contract {
	return append(append(lifeSaverPortfolio(), motorDeskPortfolio()...),
		demoContract("demo-home-1", products.KeyHomeDomex,
			projection.NewDate(2024, time.May, 2), projection.NewDate(2024, time.June, 1),
			projection.FreqQuarterly, 0, 8400),
		demoContract("demo-travel-1", products.KeyTravelAnnual,
			projection.NewDate(2024, time.July, 18), projection.Date{},
			projection.FreqAnnual, 0, 5200),
	)
}
