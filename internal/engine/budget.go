/**
 * @description
 * Budget classifier: splits monthly income into Needs/Wants/Remaining buckets
 * against the 50/30/20 heuristic. The classifier only reports actual versus
 * target; it never clamps or rebalances — rebalancing is the allocator's job.
 */

package engine

import (
	"errors"
	"math"

	"github.com/autopayplan/planner-service/internal/domain"
)

// Target bands for the 50/30/20 heuristic, in percent of income.
const (
	NeedsTargetPct     = 50.0
	WantsTargetPct     = 30.0
	RemainingTargetPct = 20.0
)

// ErrInvalidProfile is returned when a profile violates the engine's domain,
// e.g. non-positive income where classification is undefined.
var ErrInvalidProfile = errors.New("invalid financial profile")

// round2 rounds a dollar amount to cents.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClassifyBudget totals the needs and wants categories against monthly income.
// Remaining may be negative — overspending is a valid, representable state.
// Fails when income is not strictly positive.
func ClassifyBudget(income float64, needs, wants map[string]float64) (domain.BudgetBreakdown, error) {
	if income <= 0 {
		return domain.BudgetBreakdown{}, ErrInvalidProfile
	}

	var needsTotal, wantsTotal float64
	for _, amount := range needs {
		needsTotal += amount
	}
	for _, amount := range wants {
		wantsTotal += amount
	}
	remaining := income - needsTotal - wantsTotal

	return domain.BudgetBreakdown{
		NeedsTotal:   round2(needsTotal),
		WantsTotal:   round2(wantsTotal),
		Remaining:    round2(remaining),
		NeedsPct:     round2(needsTotal / income * 100),
		WantsPct:     round2(wantsTotal / income * 100),
		RemainingPct: round2(remaining / income * 100),
		NeedsTarget:  NeedsTargetPct,
		WantsTarget:  WantsTargetPct,
		SaveTarget:   RemainingTargetPct,
	}, nil
}
