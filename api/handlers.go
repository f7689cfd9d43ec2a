/*
handlers.go - HTTP API handlers for the commission management tool

PURPOSE:
  Exposes contract CRUD and the payout projection via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Contracts:
    GET    /api/owners/{owner}/contracts       List an agent's contracts
    POST   /api/owners/{owner}/contracts       Create/replace a contract
    GET    /api/owners/{owner}/contracts/{id}  Get one contract
    DELETE /api/owners/{owner}/contracts/{id}  Delete a contract

  Forecast:
    GET /api/owners/{owner}/forecast           Date-sorted payout events
    GET /api/owners/{owner}/forecast/monthly   Grouped by month for the UI
    Query: years (required), cutoff, as_of

  Activity:
    GET /api/owners/{owner}/activity           Daily activity counters

  Catalog:
    GET /api/products                          Product catalog

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, missing horizon, invalid dates
  - 404: Contract not found
  - 500: Storage failures

SECURITY NOTE:
  The owner path segment stands in for an authenticated agent identity.
  Authentication middleware is deployment glue and lives outside this
  repository.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/commission-engine/factory"
	"github.com/warp/commission-engine/products"
	"github.com/warp/commission-engine/projection"
	"github.com/warp/commission-engine/store"
)

// Activity kinds recorded per owner per day.
const (
	ActivityContractCreated = "contract_created"
	ActivityContractDeleted = "contract_deleted"
	ActivityForecastRun     = "forecast_run"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Contracts store.Contracts
	Activity  store.Activity
	Projector *projection.Projector

	// Scheduler is optional; without it the snapshot endpoint reports 404.
	Scheduler *ForecastScheduler

	validate *validator.Validate

	// Track currently loaded demo scenario
	currentScenario string
}

// NewHandler creates a new handler on top of the given stores.
func NewHandler(contracts store.Contracts, activity store.Activity) *Handler {
	return &Handler{
		Contracts: contracts,
		Activity:  activity,
		Projector: &projection.Projector{},
		validate:  validator.New(),
	}
}

// =============================================================================
// CONTRACT HANDLERS
// =============================================================================

// ListContracts returns all contracts of an owner.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	owner := projection.Owner(chi.URLParam(r, "owner"))

	recs, err := h.Contracts.ListByOwner(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contracts", err)
		return
	}

	dtos := make([]ContractDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toContractDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetContract returns a single contract.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	owner := projection.Owner(chi.URLParam(r, "owner"))
	id := projection.ContractID(chi.URLParam(r, "id"))

	rec, err := h.Contracts.Get(r.Context(), owner, id)
	if errors.Is(err, store.ErrContractNotFound) {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get contract", err)
		return
	}
	writeJSON(w, http.StatusOK, toContractDTO(rec))
}

// CreateContract creates (or replaces) a contract document. When the
// request carries no commission lines, they are derived from the
// product's coefficient table.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	owner := projection.Owner(chi.URLParam(r, "owner"))

	var req CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	contract, err := h.contractFromRequest(owner, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rec := store.ContractRecord{Contract: contract, CreatedAt: time.Now().UTC()}
	if err := h.Contracts.Save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save contract", err)
		return
	}

	h.recordActivity(r, owner, ActivityContractCreated)
	writeJSON(w, http.StatusCreated, toContractDTO(rec))
}

// DeleteContract removes a contract.
func (h *Handler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	owner := projection.Owner(chi.URLParam(r, "owner"))
	id := projection.ContractID(chi.URLParam(r, "id"))

	err := h.Contracts.Delete(r.Context(), owner, id)
	if errors.Is(err, store.ErrContractNotFound) {
		writeError(w, http.StatusNotFound, "Contract not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete contract", err)
		return
	}

	h.recordActivity(r, owner, ActivityContractDeleted)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) contractFromRequest(owner projection.Owner, req CreateContractRequest) (projection.Contract, error) {
	agreement, err := projection.ParseDate(req.AgreementDate)
	if err != nil {
		return projection.Contract{}, errors.New("invalid agreement_date (use YYYY-MM-DD)")
	}
	var policyStart projection.Date
	if req.PolicyStart != "" {
		policyStart, err = projection.ParseDate(req.PolicyStart)
		if err != nil {
			return projection.Contract{}, errors.New("invalid policy_start (use YYYY-MM-DD)")
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	currency := projection.Currency(req.Currency)
	if currency == "" {
		currency = projection.CurrencyCZK
	}

	premium := projection.NewAmount(req.Premium, currency)
	product := projection.GetOrCreateProduct(req.Product)

	var lines []projection.CommissionLine
	if len(req.Lines) > 0 {
		for _, lj := range req.Lines {
			lines = append(lines, projection.CommissionLine{
				Kind:   projection.LineKind(lj.Kind),
				Title:  lj.Title,
				Amount: projection.NewAmount(lj.Amount, currency),
			})
		}
	} else if key, ok := products.Lookup(req.Product); ok {
		lines = products.Breakdown(key, premium)
	}

	return projection.Contract{
		ID:            projection.ContractID(id),
		Owner:         owner,
		Product:       product,
		AgreementDate: agreement,
		PolicyStart:   policyStart,
		Frequency:     projection.PaymentFrequency(req.Frequency),
		DurationYears: req.DurationYears,
		Premium:       premium,
		Lines:         lines,
	}, nil
}

// =============================================================================
// FORECAST HANDLERS
// =============================================================================

// GetForecast runs the projection over all of an owner's contracts and
// returns the globally date-sorted payout events.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	events, ok := h.runForecast(w, r)
	if !ok {
		return
	}

	dtos := make([]PayoutEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toPayoutEventDTO(ev)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetMonthlyForecast returns the forecast grouped by month and year,
// ready for the calendar widget.
func (h *Handler) GetMonthlyForecast(w http.ResponseWriter, r *http.Request) {
	events, ok := h.runForecast(w, r)
	if !ok {
		return
	}

	groups := projection.GroupByMonth(events)
	dtos := make([]MonthGroupDTO, len(groups))
	for i, g := range groups {
		dtos[i] = toMonthGroupDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) runForecast(w http.ResponseWriter, r *http.Request) ([]projection.PayoutEvent, bool) {
	owner := projection.Owner(chi.URLParam(r, "owner"))

	cfg, err := forecastConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	recs, err := h.Contracts.ListByOwner(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load contracts", err)
		return nil, false
	}
	contracts := make([]projection.Contract, len(recs))
	for i, rec := range recs {
		contracts[i] = rec.Contract
	}

	events, err := h.Projector.Project(r.Context(), contracts, cfg)
	if errors.Is(err, projection.ErrHorizonRequired) || errors.Is(err, projection.ErrInvalidCutoffDay) {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Projection failed", err)
		return nil, false
	}

	h.recordActivity(r, owner, ActivityForecastRun)
	return events, true
}

// forecastConfig reads the projection parameters from the query string.
// The horizon has no server-side default: each caller states its own.
func forecastConfig(r *http.Request) (projection.Config, error) {
	var cfg projection.Config

	yearsStr := r.URL.Query().Get("years")
	if yearsStr == "" {
		return cfg, errors.New("query parameter 'years' is required")
	}
	years, err := strconv.Atoi(yearsStr)
	if err != nil || years <= 0 {
		return cfg, errors.New("query parameter 'years' must be a positive integer")
	}
	cfg.HorizonYears = years

	if cutoffStr := r.URL.Query().Get("cutoff"); cutoffStr != "" {
		cutoff, err := strconv.Atoi(cutoffStr)
		if err != nil {
			return cfg, errors.New("query parameter 'cutoff' must be an integer")
		}
		cfg.CutoffDay = cutoff
	}

	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		asOf, err := projection.ParseDate(asOfStr)
		if err != nil {
			return cfg, errors.New("query parameter 'as_of' must be YYYY-MM-DD")
		}
		cfg.AsOf = asOf
	}
	return cfg, nil
}

// GetForecastSnapshot serves the background refresher's cached summary.
// Unlike the on-demand forecast this can be a little stale, which is fine
// for the dashboard header it feeds.
func (h *Handler) GetForecastSnapshot(w http.ResponseWriter, r *http.Request) {
	owner := projection.Owner(chi.URLParam(r, "owner"))

	if h.Scheduler == nil {
		writeError(w, http.StatusNotFound, "Snapshot not available", nil)
		return
	}
	snap, ok := h.Scheduler.Snapshot(owner)
	if !ok {
		writeError(w, http.StatusNotFound, "Snapshot not available", nil)
		return
	}
	writeJSON(w, http.StatusOK, toForecastSnapshotDTO(snap))
}

// =============================================================================
// ACTIVITY HANDLERS
// =============================================================================

// GetActivity returns an owner's daily activity counters. Defaults to the
// last 30 days.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	owner := projection.Owner(chi.URLParam(r, "owner"))

	to := projection.Today()
	from := to.AddDays(-30)
	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = projection.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'from' date (use YYYY-MM-DD)", nil)
			return
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = projection.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'to' date (use YYYY-MM-DD)", nil)
			return
		}
	}

	counts, err := h.Activity.Summary(r.Context(), owner, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load activity", err)
		return
	}

	dtos := make([]ActivityCountDTO, len(counts))
	for i, c := range counts {
		dtos[i] = ActivityCountDTO{Day: c.Day.String(), Kind: c.Kind, Count: c.Count}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// recordActivity bumps a daily counter. Statistics are best-effort; a
// failed bump never fails the request.
func (h *Handler) recordActivity(r *http.Request, owner projection.Owner, kind string) {
	if h.Activity == nil {
		return
	}
	if err := h.Activity.Record(r.Context(), owner, projection.Today(), kind); err != nil {
		zap.L().Warn("activity record failed",
			zap.String("owner", string(owner)),
			zap.String("kind", kind),
			zap.Error(err))
	}
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListProducts returns the product catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	f := factory.NewProductFactory()

	dtos := make([]ProductDTO, len(products.Catalog))
	for i, key := range products.Catalog {
		pj := f.ToJSON(key, products.StrategyOf(key))
		dtos[i] = ProductDTO{
			Key:     pj.Key,
			Family:  key.ProductFamily(),
			Pattern: pj.Pattern,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encoding failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		zap.L().Warn("request failed",
			zap.Int("status", status),
			zap.String("message", message),
			zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": message})
}
