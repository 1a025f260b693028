/**
 * @description
 * This file defines the core domain models for the planner-service. These structs
 * represent the persisted financial records and the data transfer objects (DTOs)
 * used throughout the service's business logic, database interactions, and API layers.
 *
 * @notes
 * - A FinancialProfile is an immutable snapshot per planning run: the app layer
 *   loads it from the store, passes it by value into the engine, and the engine
 *   never writes back. Editing onboarding answers produces a new snapshot.
 * - Monetary amounts are `float64` dollars rounded to cents at output boundaries.
 *   APRs and percentages make the smallest-unit integer convention used elsewhere
 *   in the platform awkward for a formula surface.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PayoffPace names the user's stated debt-payoff preference. It controls how
// much of the post-minimum remainder the allocator may commit as extra payments.
type PayoffPace string

const (
	PaceAggressive PayoffPace = "aggressive" // "as fast as possible"
	PaceBalanced   PayoffPace = "balanced"   // default
	PaceRelaxed    PayoffPace = "relaxed"    // "take my time"
)

// FinancialProfile is the persisted snapshot of a user's onboarding answers.
// This struct maps directly to the `financial_profiles` table.
type FinancialProfile struct {
	ID                uuid.UUID          `json:"id"`
	MonthlyIncome     float64            `json:"monthly_income"`
	Age               int                `json:"age"`
	RetirementAge     int                `json:"retirement_age"`
	CurrentSavings    float64            `json:"current_savings"`
	RetirementSavings float64            `json:"retirement_savings"`
	CreditScore       *int               `json:"credit_score,omitempty"`
	PrimaryFear       string             `json:"primary_fear,omitempty"`
	BiweeklyPayments  bool               `json:"biweekly_payments"`
	PayoffPace        PayoffPace         `json:"payoff_pace"`
	NeedsByCategory   map[string]float64 `json:"needs_by_category"`
	WantsByCategory   map[string]float64 `json:"wants_by_category"`
	LastPaycheckDate  *time.Time         `json:"last_paycheck_date,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// CreateProfileRequest is the DTO for the profile creation API endpoint.
type CreateProfileRequest struct {
	MonthlyIncome     float64            `json:"monthly_income"`
	Age               int                `json:"age"`
	RetirementAge     int                `json:"retirement_age"`
	CurrentSavings    float64            `json:"current_savings"`
	RetirementSavings float64            `json:"retirement_savings"`
	CreditScore       *int               `json:"credit_score,omitempty"`
	PrimaryFear       string             `json:"primary_fear,omitempty"`
	BiweeklyPayments  bool               `json:"biweekly_payments"`
	PayoffPace        PayoffPace         `json:"payoff_pace,omitempty"`
	NeedsByCategory   map[string]float64 `json:"needs_by_category"`
	WantsByCategory   map[string]float64 `json:"wants_by_category"`
	LastPaycheckDate  *time.Time         `json:"last_paycheck_date,omitempty"`
	Debts             []CreateDebtItem   `json:"debts,omitempty"`
	Goals             []CreateGoalItem   `json:"goals,omitempty"`
}

// CreateDebtItem is one debt record inside a profile creation request.
type CreateDebtItem struct {
	Kind           DebtKind `json:"kind"`
	Name           string   `json:"name"`
	Balance        float64  `json:"balance"`
	CreditLimit    float64  `json:"credit_limit,omitempty"`
	APR            float64  `json:"apr"`
	MinimumPayment *float64 `json:"minimum_payment,omitempty"`
	LoanType       string   `json:"loan_type,omitempty"`
	DueDay         int      `json:"due_day,omitempty"`
}

// CreateGoalItem is one savings goal inside a profile creation request.
type CreateGoalItem struct {
	Name           string       `json:"name"`
	TargetAmount   float64      `json:"target_amount"`
	SavedAmount    float64      `json:"saved_amount"`
	DeadlineMonths *int         `json:"deadline_months,omitempty"`
	Priority       GoalPriority `json:"priority"`
}
