/**
 * @description
 * Milestone projector: month-by-month simulation of the allocation policy
 * until every tracked objective crosses its target or the horizon runs out.
 * Each month accrues simple monthly interest on debt balances before payments
 * are applied, re-invokes the allocator, applies the plan with clamping, and
 * emits a Milestone for every objective that newly reaches its terminal
 * condition. Completed objectives leave the allocation competition.
 *
 * An exhausted horizon is not an error: the result carries the milestones
 * achieved so far plus the Incomplete marker, because a plan that never
 * finishes is valid information for the caller to display.
 */

package engine

import (
	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
)

// DefaultHorizonMonths bounds the simulation generously (50 years) so even
// pathological inputs terminate.
const DefaultHorizonMonths = 600

// ProjectionInput is the full starting state for one projection run. The
// engine copies every slice before simulating; inputs are never mutated.
type ProjectionInput struct {
	MonthlyRemaining float64
	Debts            []domain.Debt
	Goals            []domain.Goal
	CurrentSavings   float64
	NeedsTotal       float64
	Pace             domain.PayoffPace
	HorizonMonths    int
	MinimumPolicy    MinimumPaymentPolicy
	Emergency        MilestoneSchedule
}

type debtState struct {
	debt      domain.Debt
	balance   float64
	paid      float64
	completed bool
}

type goalState struct {
	goal      domain.Goal
	saved     float64
	completed bool
}

// Project simulates the allocation forward and returns the ordered milestone
// list. Milestones appear in completion order; ties within a month follow the
// waterfall order of the underlying obligations. Fails when a debt's minimum
// cannot be resolved, e.g. a loan with no stored minimum payment.
func Project(in ProjectionInput) (domain.ProjectionResult, error) {
	horizon := in.HorizonMonths
	if horizon <= 0 {
		horizon = DefaultHorizonMonths
	}

	debts := make([]*debtState, 0, len(in.Debts))
	for _, d := range in.Debts {
		st := &debtState{debt: d, balance: d.Balance}
		if st.balance <= BalanceTolerance {
			st.completed = true
		}
		debts = append(debts, st)
	}
	goals := make([]*goalState, 0, len(in.Goals))
	for _, g := range in.Goals {
		st := &goalState{goal: g, saved: g.SavedAmount}
		if g.TargetAmount-st.saved <= BalanceTolerance {
			st.completed = true
		}
		goals = append(goals, st)
	}

	emergencyTarget := EmergencyFundTarget(in.NeedsTotal, in.Emergency)
	savings := in.CurrentSavings
	emergencyDone := emergencyTarget <= 0 || savings >= emergencyTarget

	result := domain.ProjectionResult{Milestones: []domain.Milestone{}}

	for month := 1; month <= horizon; month++ {
		if allDone(debts, goals) && emergencyDone {
			break
		}
		result.MonthsSimulated = month

		// Interest accrues on the opening balance; payments reduce the
		// post-interest balance.
		for _, st := range debts {
			if st.completed {
				continue
			}
			st.balance += st.balance * (st.debt.APR / 100 / 12)
		}

		obligations := make([]Obligation, 0, len(debts)+len(goals))
		for _, st := range debts {
			if st.completed {
				continue
			}
			current := st.debt
			current.Balance = st.balance
			minimum, err := EffectiveMinimum(current, in.MinimumPolicy)
			if err != nil {
				return domain.ProjectionResult{}, err
			}
			obligations = append(obligations, DebtObligation(current, minimum))
		}
		for _, st := range goals {
			if st.completed {
				continue
			}
			current := st.goal
			current.SavedAmount = st.saved
			obligations = append(obligations, GoalObligation(current))
		}

		plan := Allocate(month, in.MonthlyRemaining, obligations, in.Pace)

		applied := make(map[uuid.UUID]float64, len(plan.Allocations))
		for _, alloc := range plan.Allocations {
			applied[alloc.ObligationID] = alloc.Total
		}

		for _, st := range debts {
			if st.completed {
				continue
			}
			payment := applied[st.debt.ID]
			st.balance -= payment
			st.paid += payment
			if st.balance < 0 {
				st.balance = 0
			}
			if st.balance <= BalanceTolerance {
				st.balance = 0
				st.completed = true
				result.Milestones = append(result.Milestones, domain.Milestone{
					ObjectiveID: st.debt.ID,
					Name:        st.debt.Name,
					Kind:        domain.ObjectiveDebtPayoff,
					Month:       month,
					Amount:      round2(st.paid),
				})
			}
		}

		for _, st := range goals {
			if st.completed {
				continue
			}
			st.saved += applied[st.goal.ID]
			if st.goal.TargetAmount-st.saved <= BalanceTolerance {
				st.saved = st.goal.TargetAmount
				st.completed = true
				result.Milestones = append(result.Milestones, domain.Milestone{
					ObjectiveID: st.goal.ID,
					Name:        st.goal.Name,
					Kind:        domain.ObjectiveGoal,
					Month:       month,
					Amount:      round2(st.saved),
				})
			}
		}

		priorSavings := savings
		savings += plan.EmergencyFund

		// An interim schedule step still in force counts as its own milestone
		// when savings cross it inside the step's window.
		if interim := EmergencyFundTargetAt(in.NeedsTotal, month, in.Emergency); interim > 0 &&
			interim < emergencyTarget && priorSavings < interim && savings >= interim {
			result.Milestones = append(result.Milestones, domain.Milestone{
				ObjectiveID: uuid.Nil,
				Name:        "starter emergency fund",
				Kind:        domain.ObjectiveEmergencyFund,
				Month:       month,
				Amount:      interim,
			})
		}

		if !emergencyDone && savings >= emergencyTarget {
			emergencyDone = true
			result.Milestones = append(result.Milestones, domain.Milestone{
				ObjectiveID: uuid.Nil,
				Name:        "emergency fund",
				Kind:        domain.ObjectiveEmergencyFund,
				Month:       month,
				Amount:      emergencyTarget,
			})
		}
	}

	result.Incomplete = !(allDone(debts, goals) && emergencyDone)
	return result, nil
}

func allDone(debts []*debtState, goals []*goalState) bool {
	for _, st := range debts {
		if !st.completed {
			return false
		}
	}
	for _, st := range goals {
		if !st.completed {
			return false
		}
	}
	return true
}
