/**
 * @description
 * This file contains the HTTP handlers for the planner-service's API
 * endpoints. Handlers parse incoming requests, call the application service,
 * and write the HTTP response. Engine-level warnings (allocation shortfalls,
 * incomplete projections) ride inside successful response bodies; only
 * InvalidInput and NotFound map to failure statuses.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: For URL parameter extraction.
 * - internal/app, internal/domain, internal/engine, internal/store: Service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/app"
	"github.com/autopayplan/planner-service/internal/domain"
	"github.com/autopayplan/planner-service/internal/engine"
	"github.com/autopayplan/planner-service/internal/store"
)

// PlannerHandlers holds the application service that handlers will use.
type PlannerHandlers struct {
	service *app.Service
}

// NewPlannerHandlers creates a new instance of PlannerHandlers.
func NewPlannerHandlers(service *app.Service) *PlannerHandlers {
	return &PlannerHandlers{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *PlannerHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func (h *PlannerHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

// respondError maps service errors onto HTTP statuses: domain violations are
// 400, missing profiles are 404, anything else is a 500.
func (h *PlannerHandlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrInvalidProfile):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrProfileNotFound):
		h.writeError(w, http.StatusNotFound, "Financial profile not found")
	default:
		log.Printf("level=error component=api msg=\"request failed\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *PlannerHandlers) profileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "profileID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid profile id")
		return uuid.Nil, false
	}
	return id, true
}

// CreateProfileHandler handles requests to persist a new financial profile
// from onboarding answers.
func (h *PlannerHandlers) CreateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, profile)
}

// GetProfileHandler returns one persisted profile snapshot.
func (h *PlannerHandlers) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

type minimumPaymentRequest struct {
	Balance    float64 `json:"balance"`
	APRPercent float64 `json:"apr_percent"`
}

type minimumPaymentResponse struct {
	MinimumPayment float64 `json:"minimum_payment"`
}

// MinimumPaymentHandler computes the issuer-convention credit card minimum
// from raw inputs; no profile is required.
func (h *PlannerHandlers) MinimumPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req minimumPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	minimum, err := h.service.MinimumPayment(req.Balance, req.APRPercent)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, minimumPaymentResponse{MinimumPayment: minimum})
}

// indicatorsResponse renders DTI as a number or the literal "Infinity" string,
// so the client can show "∞" without special-casing a failed request.
type indicatorsResponse struct {
	DebtToIncomePct       interface{} `json:"debt_to_income_pct"`
	CreditUtilizationPct  float64     `json:"credit_utilization_pct"`
	EmergencyFundTarget   float64     `json:"emergency_fund_target"`
	MonthsToFundEmergency *int        `json:"months_to_fund_emergency"`
}

// IndicatorsHandler returns the dashboard's financial-health metrics.
// Query params: include_loans (bool), monthly_allocation (optional number).
func (h *PlannerHandlers) IndicatorsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	includeLoans := r.URL.Query().Get("include_loans") == "true"

	var monthlyAllocation *float64
	if raw := r.URL.Query().Get("monthly_allocation"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid monthly_allocation")
			return
		}
		monthlyAllocation = &value
	}

	indicators, err := h.service.Indicators(r.Context(), id, includeLoans, monthlyAllocation)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := indicatorsResponse{
		CreditUtilizationPct:  indicators.CreditUtilizationPct,
		EmergencyFundTarget:   indicators.EmergencyFundTarget,
		MonthsToFundEmergency: indicators.MonthsToFundEmergency,
	}
	if indicators.DebtToIncomeInfinite {
		resp.DebtToIncomePct = "Infinity"
	} else {
		resp.DebtToIncomePct = indicators.DebtToIncomePct
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// BudgetHandler returns the 50/30/20 classification of a profile's income.
func (h *PlannerHandlers) BudgetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	budget, err := h.service.Budget(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, budget)
}

// PlanHandler returns the current month's allocation plan, including any
// shortfall warnings.
func (h *PlannerHandlers) PlanHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	plan, err := h.service.Plan(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// ProjectionHandler returns the milestone projection, including the
// incomplete marker when the horizon ran out.
func (h *PlannerHandlers) ProjectionHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}
	projection, err := h.service.Projection(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, projection)
}

// CalendarHandler returns the payment calendar. Query param: months
// (horizon, defaults to the configured calendar horizon).
func (h *PlannerHandlers) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := h.profileID(w, r)
	if !ok {
		return
	}

	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid months")
			return
		}
		months = value
	}

	events, err := h.service.Calendar(r.Context(), id, months)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}
