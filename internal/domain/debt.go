package domain

import (
	"time"

	"github.com/google/uuid"
)

// DebtKind discriminates the two debt shapes the planner tracks.
type DebtKind string

const (
	DebtKindCreditCard DebtKind = "credit_card"
	DebtKindLoan       DebtKind = "loan"
)

// Debt represents one tracked obligation. This struct maps directly to the
// `debts` table. CreditLimit is meaningful only for credit cards. For cards,
// MinimumPayment is the issuer-stated minimum when the user provided one; when
// nil the engine derives it from the issuer minimum-payment policy. For loans
// MinimumPayment is always set.
//
// Balance may exceed CreditLimit; real-world accounts go over limit and the
// planner must still produce numbers for them.
type Debt struct {
	ID             uuid.UUID `json:"id"`
	ProfileID      uuid.UUID `json:"profile_id"`
	Kind           DebtKind  `json:"kind"`
	Name           string    `json:"name"`
	Balance        float64   `json:"balance"`
	CreditLimit    float64   `json:"credit_limit,omitempty"`
	APR            float64   `json:"apr"`
	MinimumPayment *float64  `json:"minimum_payment,omitempty"`
	LoanType       string    `json:"loan_type,omitempty"`
	DueDay         int       `json:"due_day,omitempty"` // day of month the bill is due, 0 when unknown
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GoalPriority orders goals in the allocation waterfall.
type GoalPriority string

const (
	PriorityMustHave GoalPriority = "must_have"
	PriorityWant     GoalPriority = "want"
)

// Goal represents a savings objective. SavedAmount >= TargetAmount is the
// terminal condition, not an enforced constraint; the projector clamps at
// completion.
type Goal struct {
	ID             uuid.UUID    `json:"id"`
	ProfileID      uuid.UUID    `json:"profile_id"`
	Name           string       `json:"name"`
	TargetAmount   float64      `json:"target_amount"`
	SavedAmount    float64      `json:"saved_amount"`
	DeadlineMonths *int         `json:"deadline_months,omitempty"`
	Priority       GoalPriority `json:"priority"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
