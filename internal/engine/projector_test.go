package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
)

func TestProject_ZeroInterestDebtPaysOffOnSchedule(t *testing.T) {
	debt := domain.Debt{
		ID: uuid.New(), Kind: domain.DebtKindLoan, Name: "family loan",
		Balance: 1200, APR: 0, MinimumPayment: f64(100),
	}

	got, err := Project(ProjectionInput{
		MonthlyRemaining: 100,
		Debts:            []domain.Debt{debt},
		Pace:             domain.PaceAggressive,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Incomplete {
		t.Fatalf("expected a complete projection, got incomplete after %d months", got.MonthsSimulated)
	}
	if len(got.Milestones) != 1 {
		t.Fatalf("expected one milestone, got %d", len(got.Milestones))
	}
	m := got.Milestones[0]
	if m.Kind != domain.ObjectiveDebtPayoff || m.Month != 12 {
		t.Fatalf("expected debt payoff at month 12, got %+v", m)
	}
	if m.Amount != 1200 {
		t.Fatalf("expected 1200 paid at completion, got %v", m.Amount)
	}
}

func TestProject_InterestAccruesBeforePayments(t *testing.T) {
	// 1000 at 12% with 200/month: interest slows the payoff past the naive
	// five months, but extra payments still finish it quickly.
	debt := domain.Debt{
		ID: uuid.New(), Kind: domain.DebtKindCreditCard, Name: "visa",
		Balance: 1000, APR: 12, CreditLimit: 3000, MinimumPayment: f64(50),
	}

	got, err := Project(ProjectionInput{
		MonthlyRemaining: 200,
		Debts:            []domain.Debt{debt},
		Pace:             domain.PaceAggressive,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Incomplete {
		t.Fatalf("expected completion, got incomplete")
	}
	m := got.Milestones[0]
	if m.Month < 6 || m.Month > 7 {
		t.Fatalf("expected payoff around month 6, got month %d", m.Month)
	}
	if m.Amount <= 1000 {
		t.Fatalf("expected total paid above principal due to interest, got %v", m.Amount)
	}
}

func TestProject_GoalThenEmergencyFund(t *testing.T) {
	goal := domain.Goal{
		ID: uuid.New(), Name: "laptop", TargetAmount: 600, SavedAmount: 0,
		Priority: domain.PriorityMustHave,
	}

	got, err := Project(ProjectionInput{
		MonthlyRemaining: 300,
		Goals:            []domain.Goal{goal},
		NeedsTotal:       1000,
		Pace:             domain.PaceAggressive,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Incomplete {
		t.Fatalf("expected completion, got incomplete")
	}
	if len(got.Milestones) != 2 {
		t.Fatalf("expected two milestones, got %+v", got.Milestones)
	}
	if got.Milestones[0].Kind != domain.ObjectiveGoal || got.Milestones[0].Month != 2 {
		t.Fatalf("expected the goal done at month 2, got %+v", got.Milestones[0])
	}
	if got.Milestones[0].Amount != 600 {
		t.Fatalf("expected goal amount clamped at target, got %v", got.Milestones[0].Amount)
	}
	// After the goal completes, 300/month flows to the emergency fund until
	// the 3x-needs target of 3000 is reached.
	em := got.Milestones[1]
	if em.Kind != domain.ObjectiveEmergencyFund || em.Month != 12 {
		t.Fatalf("expected the emergency fund done at month 12, got %+v", em)
	}
	if em.Amount != 3000 {
		t.Fatalf("expected the emergency target 3000, got %v", em.Amount)
	}
}

func TestProject_InterimEmergencyStepEmitsItsOwnMilestone(t *testing.T) {
	// Default schedule: one month of needs by month two, three months
	// eventually. 500/month against 1000 of needs crosses the interim step
	// exactly at its deadline, then keeps going to the terminal target.
	got, err := Project(ProjectionInput{
		MonthlyRemaining: 500,
		NeedsTotal:       1000,
		Pace:             domain.PaceBalanced,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Milestones) != 2 {
		t.Fatalf("expected an interim and a terminal milestone, got %+v", got.Milestones)
	}
	interim := got.Milestones[0]
	if interim.Kind != domain.ObjectiveEmergencyFund || interim.Month != 2 || interim.Amount != 1000 {
		t.Fatalf("expected the 1000 interim step at month 2, got %+v", interim)
	}
	terminal := got.Milestones[1]
	if terminal.Kind != domain.ObjectiveEmergencyFund || terminal.Month != 6 || terminal.Amount != 3000 {
		t.Fatalf("expected the 3000 terminal target at month 6, got %+v", terminal)
	}
}

func TestProject_MissedInterimStepStaysSilent(t *testing.T) {
	// 300/month reaches 1000 only at month 4, after the month-two step has
	// expired; only the terminal milestone should appear.
	got, err := Project(ProjectionInput{
		MonthlyRemaining: 300,
		NeedsTotal:       1000,
		Pace:             domain.PaceBalanced,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Milestones) != 1 {
		t.Fatalf("expected only the terminal milestone, got %+v", got.Milestones)
	}
	if got.Milestones[0].Month != 10 || got.Milestones[0].Amount != 3000 {
		t.Fatalf("expected the terminal target at month 10, got %+v", got.Milestones[0])
	}
}

func TestProject_LoanWithoutMinimumFails(t *testing.T) {
	debt := domain.Debt{ID: uuid.New(), Kind: domain.DebtKindLoan, Name: "mystery loan", Balance: 400, APR: 5}

	_, err := Project(ProjectionInput{
		MonthlyRemaining: 200,
		Debts:            []domain.Debt{debt},
		Pace:             domain.PaceBalanced,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a loan without a minimum, got %v", err)
	}
}

func TestProject_HorizonExhaustionIsIncompleteNotAnError(t *testing.T) {
	debt := domain.Debt{
		ID: uuid.New(), Kind: domain.DebtKindCreditCard, Name: "visa",
		Balance: 1000, APR: 24, CreditLimit: 2000, MinimumPayment: f64(50),
	}

	got, err := Project(ProjectionInput{
		MonthlyRemaining: 0, // nothing to allocate, balance only grows
		Debts:            []domain.Debt{debt},
		Pace:             domain.PaceBalanced,
		HorizonMonths:    24,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Incomplete {
		t.Fatalf("expected the incomplete marker")
	}
	if got.MonthsSimulated != 24 {
		t.Fatalf("expected the full 24-month horizon simulated, got %d", got.MonthsSimulated)
	}
	if len(got.Milestones) != 0 {
		t.Fatalf("expected no milestones, got %+v", got.Milestones)
	}
}

func TestProject_CompletedInputsNeedNoSimulation(t *testing.T) {
	paidOff := domain.Debt{ID: uuid.New(), Kind: domain.DebtKindCreditCard, Name: "old card", Balance: 0, APR: 20, MinimumPayment: f64(0)}
	done := domain.Goal{ID: uuid.New(), Name: "done", TargetAmount: 100, SavedAmount: 100, Priority: domain.PriorityWant}

	got, err := Project(ProjectionInput{
		MonthlyRemaining: 100,
		Debts:            []domain.Debt{paidOff},
		Goals:            []domain.Goal{done},
		CurrentSavings:   5000,
		NeedsTotal:       1000,
		Pace:             domain.PaceBalanced,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Incomplete || got.MonthsSimulated != 0 || len(got.Milestones) != 0 {
		t.Fatalf("expected an immediately complete projection, got %+v", got)
	}
}

func TestProject_DoesNotMutateInputs(t *testing.T) {
	debt := domain.Debt{ID: uuid.New(), Kind: domain.DebtKindLoan, Name: "loan", Balance: 500, APR: 5, MinimumPayment: f64(50)}
	goal := domain.Goal{ID: uuid.New(), Name: "goal", TargetAmount: 300, SavedAmount: 0, Priority: domain.PriorityWant}
	debts := []domain.Debt{debt}
	goals := []domain.Goal{goal}

	if _, err := Project(ProjectionInput{
		MonthlyRemaining: 200,
		Debts:            debts,
		Goals:            goals,
		Pace:             domain.PaceAggressive,
		MinimumPolicy:    DefaultMinimumPaymentPolicy(),
		Emergency:        DefaultMilestoneSchedule(),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if debts[0].Balance != 500 || goals[0].SavedAmount != 0 {
		t.Fatalf("projection mutated its inputs: %+v %+v", debts[0], goals[0])
	}
}
