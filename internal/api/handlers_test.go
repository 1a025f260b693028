package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/app"
	"github.com/autopayplan/planner-service/internal/domain"
	"github.com/autopayplan/planner-service/internal/engine"
	"github.com/autopayplan/planner-service/internal/store"
)

func f64(v float64) *float64 { return &v }

func newTestRouter(internalAPIKey string) http.Handler {
	repo := store.NewMemoryRepository()
	service := app.NewService(repo, nil, nil,
		engine.DefaultMinimumPaymentPolicy(), engine.DefaultMilestoneSchedule(), 0, 0)
	return PlannerRoutes(NewPlannerHandlers(service), internalAPIKey, "")
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func createTestProfile(t *testing.T, router http.Handler) uuid.UUID {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/profiles", domain.CreateProfileRequest{
		MonthlyIncome:    5000,
		Age:              30,
		RetirementAge:    65,
		BiweeklyPayments: true,
		NeedsByCategory:  map[string]float64{"rent": 2000, "groceries": 700, "utilities": 300},
		WantsByCategory:  map[string]float64{"dining": 800, "subscriptions": 415},
		Debts: []domain.CreateDebtItem{
			{Kind: domain.DebtKindCreditCard, Name: "visa", Balance: 2000, CreditLimit: 5000, APR: 20, MinimumPayment: f64(300), DueDay: 15},
		},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating the profile, got %d: %s", rr.Code, rr.Body.String())
	}
	var profile domain.FinancialProfile
	if err := json.NewDecoder(rr.Body).Decode(&profile); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return profile.ID
}

func TestCreateProfileHandler(t *testing.T) {
	router := newTestRouter("")

	t.Run("valid request returns 201 with the snapshot", func(t *testing.T) {
		id := createTestProfile(t, router)
		if id == uuid.Nil {
			t.Fatalf("expected the created profile to carry an id")
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader("{not json"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("invalid answers return 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/profiles", domain.CreateProfileRequest{
			MonthlyIncome: -200,
			Age:           30,
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
		}
	})
}

func TestGetProfileHandler(t *testing.T) {
	router := newTestRouter("")

	t.Run("unknown profile returns 404", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/profiles/"+uuid.NewString(), nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rr.Code)
		}
	})

	t.Run("malformed id returns 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/profiles/not-a-uuid", nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})

	t.Run("round trips a created profile", func(t *testing.T) {
		id := createTestProfile(t, router)
		rr := doJSON(t, router, http.MethodGet, "/profiles/"+id.String(), nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var profile domain.FinancialProfile
		if err := json.NewDecoder(rr.Body).Decode(&profile); err != nil {
			t.Fatalf("failed to decode profile: %v", err)
		}
		if profile.ID != id || profile.MonthlyIncome != 5000 {
			t.Fatalf("unexpected profile: %+v", profile)
		}
	})
}

func TestMinimumPaymentHandler(t *testing.T) {
	router := newTestRouter("")

	t.Run("issuer formula on a typical balance", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/minimum-payment", map[string]float64{
			"balance": 1000, "apr_percent": 20,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			MinimumPayment float64 `json:"minimum_payment"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if math.Abs(resp.MinimumPayment-26.67) > 0.001 {
			t.Fatalf("expected minimum 26.67, got %v", resp.MinimumPayment)
		}
	})

	t.Run("negative balance returns 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/minimum-payment", map[string]float64{
			"balance": -500, "apr_percent": 20,
		})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestBudgetHandler(t *testing.T) {
	router := newTestRouter("")
	id := createTestProfile(t, router)

	rr := doJSON(t, router, http.MethodGet, "/profiles/"+id.String()+"/budget", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var budget domain.BudgetBreakdown
	if err := json.NewDecoder(rr.Body).Decode(&budget); err != nil {
		t.Fatalf("failed to decode budget: %v", err)
	}
	if budget.Remaining != 785 || budget.NeedsPct != 60 {
		t.Fatalf("unexpected breakdown: %+v", budget)
	}
}

func TestIndicatorsHandler(t *testing.T) {
	router := newTestRouter("")
	id := createTestProfile(t, router)

	t.Run("renders numeric indicators", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet,
			"/profiles/"+id.String()+"/indicators?monthly_allocation=300", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp map[string]interface{}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode indicators: %v", err)
		}
		if resp["debt_to_income_pct"] != 6.0 {
			t.Fatalf("expected DTI 6, got %v", resp["debt_to_income_pct"])
		}
		if resp["credit_utilization_pct"] != 40.0 {
			t.Fatalf("expected utilization 40, got %v", resp["credit_utilization_pct"])
		}
		if resp["months_to_fund_emergency"] != 30.0 {
			t.Fatalf("expected 30 months to fund, got %v", resp["months_to_fund_emergency"])
		}
	})

	t.Run("zero allocation yields a null months figure", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet,
			"/profiles/"+id.String()+"/indicators?monthly_allocation=0", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp map[string]interface{}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode indicators: %v", err)
		}
		if resp["months_to_fund_emergency"] != nil {
			t.Fatalf("expected null months figure, got %v", resp["months_to_fund_emergency"])
		}
	})

	t.Run("bad allocation param returns 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet,
			"/profiles/"+id.String()+"/indicators?monthly_allocation=lots", nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestInfinityRendering(t *testing.T) {
	resp := indicatorsResponse{DebtToIncomePct: "Infinity"}
	payload, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"debt_to_income_pct":"Infinity"`) {
		t.Fatalf("expected the Infinity sentinel in %s", payload)
	}
}

func TestPlanHandler(t *testing.T) {
	router := newTestRouter("")
	id := createTestProfile(t, router)

	rr := doJSON(t, router, http.MethodGet, "/profiles/"+id.String()+"/plan", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var plan domain.AllocationPlan
	if err := json.NewDecoder(rr.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}
	if len(plan.Allocations) == 0 {
		t.Fatalf("expected at least one allocation")
	}
	sum := plan.EmergencyFund
	for _, a := range plan.Allocations {
		sum += a.Total
	}
	if math.Abs(sum-plan.RemainingFunds) > engine.BalanceTolerance {
		t.Fatalf("plan does not conserve funds: %v vs %v", sum, plan.RemainingFunds)
	}
}

func TestProjectionHandler(t *testing.T) {
	router := newTestRouter("")
	id := createTestProfile(t, router)

	rr := doJSON(t, router, http.MethodGet, "/profiles/"+id.String()+"/projection", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var projection domain.ProjectionResult
	if err := json.NewDecoder(rr.Body).Decode(&projection); err != nil {
		t.Fatalf("failed to decode projection: %v", err)
	}
	if projection.Incomplete {
		t.Fatalf("expected the fixture to complete inside the horizon")
	}
	if len(projection.Milestones) == 0 {
		t.Fatalf("expected milestones in the projection")
	}
}

func TestCalendarHandler(t *testing.T) {
	router := newTestRouter("")
	id := createTestProfile(t, router)

	t.Run("returns sorted events", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/profiles/"+id.String()+"/calendar?months=2", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var events []domain.PaymentEvent
		if err := json.NewDecoder(rr.Body).Decode(&events); err != nil {
			t.Fatalf("failed to decode events: %v", err)
		}
		if len(events) == 0 {
			t.Fatalf("expected calendar events")
		}
		for i := 1; i < len(events); i++ {
			if events[i].Date.Before(events[i-1].Date) {
				t.Fatalf("events are not sorted: %v before %v", events[i].Date, events[i-1].Date)
			}
		}
	})

	t.Run("invalid months returns 400", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/profiles/"+id.String()+"/calendar?months=soon", nil)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
	})
}

func TestRequireInternalAPIKey(t *testing.T) {
	router := newTestRouter("test-secret")

	t.Run("missing key is rejected", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodPost, "/minimum-payment", map[string]float64{
			"balance": 1000, "apr_percent": 20,
		})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("wrong key is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/minimum-payment",
			strings.NewReader(`{"balance":1000,"apr_percent":20}`))
		req.Header.Set(internalAPIKeyHeader, "wrong")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
	})

	t.Run("matching key is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/minimum-payment",
			strings.NewReader(`{"balance":1000,"apr_percent":20}`))
		req.Header.Set(internalAPIKeyHeader, "test-secret")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("health stays open", func(t *testing.T) {
		rr := doJSON(t, router, http.MethodGet, "/health", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})
}
