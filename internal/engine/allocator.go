/**
 * @description
 * Debt payoff allocator: the waterfall that turns one month's remaining funds
 * into an AllocationPlan. Minimums are funded first in priority order — when
 * funds run short the highest-priority obligation is protected fully before
 * the next is touched, and the shortfall is reported, never thrown. Funds left
 * after minimums are distributed as extra in the same order, capped at each
 * obligation's outstanding amount with overshoot rolling forward, and whatever
 * the pace policy leaves uncommitted lands in the emergency fund.
 *
 * Conservation invariant: sum of allocation totals plus the emergency-fund
 * leftover equals remaining funds exactly, including negative remaining funds.
 */

package engine

import (
	"sort"

	"github.com/google/uuid"

	"github.com/autopayplan/planner-service/internal/domain"
)

// BalanceTolerance is the amount below which an outstanding balance is
// considered paid off.
const BalanceTolerance = 0.01

// Obligation is the allocator's flattened view of one debt or goal competing
// for monthly funds. Outstanding is what is still owed or unsaved this month;
// Target is the full objective amount used for snowball ordering.
type Obligation struct {
	ID          uuid.UUID
	Name        string
	Kind        domain.ObjectiveKind
	Priority    domain.GoalPriority
	Minimum     float64
	Outstanding float64
	Target      float64
}

// DebtObligation flattens a debt for allocation. Debts always rank as
// must-have: their minimums are contractual.
func DebtObligation(d domain.Debt, minimum float64) Obligation {
	return Obligation{
		ID:          d.ID,
		Name:        d.Name,
		Kind:        domain.ObjectiveDebtPayoff,
		Priority:    domain.PriorityMustHave,
		Minimum:     minimum,
		Outstanding: d.Balance,
		Target:      d.Balance,
	}
}

// GoalObligation flattens a goal for allocation. Goals carry no contractual
// minimum; they compete only for extra funds.
func GoalObligation(g domain.Goal) Obligation {
	outstanding := g.TargetAmount - g.SavedAmount
	if outstanding < 0 {
		outstanding = 0
	}
	return Obligation{
		ID:          g.ID,
		Name:        g.Name,
		Kind:        domain.ObjectiveGoal,
		Priority:    g.Priority,
		Outstanding: outstanding,
		Target:      g.TargetAmount,
	}
}

// waterfallOrder sorts obligations for funding: must-have before want, then
// lowest outstanding-to-target ratio (closest to a visible win, snowball
// style), then smallest outstanding, then name for determinism.
func waterfallOrder(obligations []Obligation) []Obligation {
	ordered := append([]Obligation(nil), obligations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority == domain.PriorityMustHave
		}
		ra, rb := progressRatio(a), progressRatio(b)
		if ra != rb {
			return ra < rb
		}
		if a.Outstanding != b.Outstanding {
			return a.Outstanding < b.Outstanding
		}
		return a.Name < b.Name
	})
	return ordered
}

func progressRatio(o Obligation) float64 {
	if o.Target <= 0 {
		return 0
	}
	return o.Outstanding / o.Target
}

// Allocate runs the waterfall for one month. The month index is informational
// and copied onto the plan; obligations already at zero outstanding are
// skipped. The plan always balances, even when remainingFunds cannot cover
// the minimums or is negative.
func Allocate(month int, remainingFunds float64, obligations []Obligation, pace domain.PayoffPace) domain.AllocationPlan {
	plan := domain.AllocationPlan{
		Month:          month,
		RemainingFunds: remainingFunds,
	}

	ordered := waterfallOrder(obligations)
	allocations := make(map[uuid.UUID]*domain.Allocation, len(ordered))
	for _, o := range ordered {
		if o.Outstanding <= BalanceTolerance && o.Minimum <= 0 {
			continue
		}
		allocations[o.ID] = &domain.Allocation{
			ObligationID: o.ID,
			Name:         o.Name,
			Kind:         o.Kind,
		}
	}

	available := remainingFunds
	var assigned float64

	// Pass 1: minimums, highest priority protected fully before the next.
	for _, o := range ordered {
		alloc, ok := allocations[o.ID]
		if !ok || o.Minimum <= 0 {
			continue
		}
		required := o.Minimum
		if required > o.Outstanding {
			required = o.Outstanding
		}
		funded := required
		if available < funded {
			funded = available
		}
		if funded < 0 {
			funded = 0
		}
		if funded < required {
			plan.Shortfalls = append(plan.Shortfalls, domain.ShortfallWarning{
				ObligationID: o.ID,
				Name:         o.Name,
				Required:     round2(required),
				Funded:       round2(funded),
				Missing:      round2(required - funded),
			})
		}
		alloc.Minimum = funded
		alloc.Total = funded
		available -= funded
		assigned += funded
	}

	// Pass 2: extra, in waterfall order, capped at each outstanding amount so
	// overshoot rolls to the next obligation within the same month.
	if available > 0 {
		extraBudget := available * extraShare(pace)
		for _, o := range ordered {
			if extraBudget <= BalanceTolerance {
				break
			}
			alloc, ok := allocations[o.ID]
			if !ok {
				continue
			}
			room := o.Outstanding - alloc.Total
			if room <= 0 {
				continue
			}
			extra := extraBudget
			if extra > room {
				extra = room
			}
			alloc.Extra += extra
			alloc.Total += extra
			extraBudget -= extra
			assigned += extra
		}
	}

	for _, o := range ordered {
		if alloc, ok := allocations[o.ID]; ok {
			plan.Allocations = append(plan.Allocations, *alloc)
		}
	}

	// Leftover is the exact remainder, so the plan balances by construction.
	plan.EmergencyFund = remainingFunds - assigned
	return plan
}
