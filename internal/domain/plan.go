/**
 * @description
 * Derived planning outputs: budget breakdowns, monthly allocation plans,
 * projection milestones, and payment calendar events. These are recomputed
 * view models with no independent lifecycle — the engine regenerates them
 * whenever the underlying profile changes and callers may discard them freely.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// BudgetBreakdown is the classifier's view of one month of income against the
// 50/30/20 bands. Remaining can be negative; overspending is a representable
// state, not an error.
type BudgetBreakdown struct {
	NeedsTotal   float64 `json:"needs_total"`
	WantsTotal   float64 `json:"wants_total"`
	Remaining    float64 `json:"remaining"`
	NeedsPct     float64 `json:"needs_pct"`
	WantsPct     float64 `json:"wants_pct"`
	RemainingPct float64 `json:"remaining_pct"`
	NeedsTarget  float64 `json:"needs_target_pct"`
	WantsTarget  float64 `json:"wants_target_pct"`
	SaveTarget   float64 `json:"remaining_target_pct"`
}

// ObjectiveKind discriminates what a milestone or allocation line refers to.
type ObjectiveKind string

const (
	ObjectiveEmergencyFund ObjectiveKind = "emergency_fund"
	ObjectiveDebtPayoff    ObjectiveKind = "debt_payoff"
	ObjectiveGoal          ObjectiveKind = "goal"
)

// Allocation is one funded line of an AllocationPlan.
type Allocation struct {
	ObligationID uuid.UUID     `json:"obligation_id"`
	Name         string        `json:"name"`
	Kind         ObjectiveKind `json:"kind"`
	Minimum      float64       `json:"minimum"`
	Extra        float64       `json:"extra"`
	Total        float64       `json:"total"`
}

// ShortfallWarning reports an obligation whose minimum could not be fully
// funded this month. It is informational and rides inside a successful plan.
type ShortfallWarning struct {
	ObligationID uuid.UUID `json:"obligation_id"`
	Name         string    `json:"name"`
	Required     float64   `json:"required"`
	Funded       float64   `json:"funded"`
	Missing      float64   `json:"missing"`
}

// AllocationPlan is the allocator's output for one simulated month.
// Conservation invariant: sum of Allocations[i].Total plus EmergencyFund
// equals RemainingFunds exactly, including when RemainingFunds is negative.
type AllocationPlan struct {
	Month          int                `json:"month"`
	RemainingFunds float64            `json:"remaining_funds"`
	Allocations    []Allocation       `json:"allocations"`
	EmergencyFund  float64            `json:"emergency_fund"`
	Shortfalls     []ShortfallWarning `json:"shortfalls,omitempty"`
}

// Milestone marks the simulated month at which a tracked objective crossed its
// target. Read-only once emitted by the projector.
type Milestone struct {
	ObjectiveID uuid.UUID     `json:"objective_id"`
	Name        string        `json:"name"`
	Kind        ObjectiveKind `json:"kind"`
	Month       int           `json:"month"`
	Amount      float64       `json:"amount"`
}

// ProjectionResult is the projector's output. Incomplete is informational:
// the horizon ran out with objectives still open, which is valid information
// for the caller to display, not a failure.
type ProjectionResult struct {
	Milestones      []Milestone `json:"milestones"`
	Incomplete      bool        `json:"incomplete"`
	MonthsSimulated int         `json:"months_simulated"`
}

// PaymentEventKind discriminates calendar entries.
type PaymentEventKind string

const (
	EventDebit   PaymentEventKind = "debit"
	EventPayment PaymentEventKind = "payment"
)

// PaymentEvent is one entry in the generated payment calendar. Debit events
// (paychecks) and payment events (bills) are independent sequences; the caller
// correlates them by date proximity for display.
type PaymentEvent struct {
	Date         time.Time        `json:"date"`
	Kind         PaymentEventKind `json:"kind"`
	ObligationID uuid.UUID        `json:"obligation_id,omitempty"`
	Name         string           `json:"name,omitempty"`
	Amount       float64          `json:"amount"`
}

// Indicators bundles the scalar financial-health metrics for the dashboard.
// DebtToIncomeInfinite distinguishes the zero-income sentinel from a real
// ratio so the UI can render "∞" instead of failing the screen.
// MonthsToFundEmergency is nil when the monthly allocation is not positive
// (not computable), which intentionally differs from the DTI sentinel.
type Indicators struct {
	DebtToIncomePct       float64 `json:"debt_to_income_pct"`
	DebtToIncomeInfinite  bool    `json:"debt_to_income_infinite"`
	CreditUtilizationPct  float64 `json:"credit_utilization_pct"`
	EmergencyFundTarget   float64 `json:"emergency_fund_target"`
	MonthsToFundEmergency *int    `json:"months_to_fund_emergency"`
}
