/**
 * @description
 * Injectable policy values for the planning engine. The issuer minimum-payment
 * convention and the emergency-fund milestone schedule vary by product
 * configuration, so both are passed into the engine as values instead of being
 * hard-coded next to the formulas.
 */

package engine

import (
	"sort"

	"github.com/autopayplan/planner-service/internal/domain"
)

// MinimumPaymentPolicy captures one issuer's minimum-payment convention:
// the greater of a flat percentage of the balance and the accrued monthly
// interest plus a fixed amortization floor.
type MinimumPaymentPolicy struct {
	FloorPercent float64 // fraction of balance, e.g. 0.02
	FixedFloor   float64 // dollars of principal on top of interest
}

// DefaultMinimumPaymentPolicy returns the product's stock issuer convention:
// 2% of balance, or monthly interest plus $10, whichever is greater.
func DefaultMinimumPaymentPolicy() MinimumPaymentPolicy {
	return MinimumPaymentPolicy{FloorPercent: 0.02, FixedFloor: 10}
}

// MilestoneStep is one interim emergency-fund objective: hold ByMonth months
// of runway as the target until that month has passed.
type MilestoneStep struct {
	ByMonth          int
	MonthsOfExpenses float64
}

// MilestoneSchedule drives the emergency-fund target as a function of the
// planning month rather than a single constant. TargetMonths is the terminal
// objective once every interim step is behind the user.
type MilestoneSchedule struct {
	Steps        []MilestoneStep
	TargetMonths float64
}

// DefaultMilestoneSchedule is the product's stock schedule: one month of
// essential expenses by month two, three months eventually.
func DefaultMilestoneSchedule() MilestoneSchedule {
	return MilestoneSchedule{
		Steps:        []MilestoneStep{{ByMonth: 2, MonthsOfExpenses: 1}},
		TargetMonths: 3,
	}
}

// MonthsOfExpensesAt returns the months-of-expenses objective in force at the
// given planning month: the first interim step not yet due, or the terminal
// target once all steps have passed.
func (s MilestoneSchedule) MonthsOfExpensesAt(month int) float64 {
	steps := append([]MilestoneStep(nil), s.Steps...)
	sort.Slice(steps, func(i, j int) bool { return steps[i].ByMonth < steps[j].ByMonth })
	for _, step := range steps {
		if month <= step.ByMonth {
			return step.MonthsOfExpenses
		}
	}
	return s.TargetMonths
}

// extraShare maps the user's payoff pace onto the fraction of the post-minimum
// remainder the allocator may commit as extra payments. Whatever the pace
// leaves uncommitted flows to the emergency fund.
func extraShare(pace domain.PayoffPace) float64 {
	switch pace {
	case domain.PaceAggressive:
		return 1.0
	case domain.PaceRelaxed:
		return 0.5
	default:
		return 0.8
	}
}
